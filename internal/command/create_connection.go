package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
)

// CreateConnectionCommand is raised by the transport's synthesized Connect
// event.
type CreateConnectionCommand struct {
	ConnectionID string
}

// CreateConnection persists a brand-new Connection (spec §4.6).
func (s *Service) CreateConnection(ctx context.Context, cmd CreateConnectionCommand) (string, error) {
	conn := entity.NewConnection(cmd.ConnectionID)
	if err := conn.Save(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: create connection: %w", err)
	}
	return "Ok", nil
}
