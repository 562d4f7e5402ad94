package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/command"
	"diceparty/internal/entity"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/router"
	"diceparty/internal/store"
)

func TestWire_GetSessionAndCreateGameEndToEnd(t *testing.T) {
	st := store.NewMemoryStore()
	n := notifier.NewMemoryNotifier()
	pub := events.NewMemoryPublisher()
	svc := command.New(st, n, pub, "test")

	r := router.New()
	router.Wire(r, svc)

	ctx := context.Background()
	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	_, err = r.Dispatch(ctx, "C1", router.Frame{Action: router.ActionGetSession})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	require.NotNil(t, conn.SessionID)
	sessionID := *conn.SessionID

	_, err = svc.SetNickname(ctx, command.SetNicknameCommand{ConnectionID: "C1", SessionID: sessionID, Nickname: "Test"})
	require.NoError(t, err)

	data := []byte(`{"sessionId":"` + sessionID + `"}`)
	_, err = r.Dispatch(ctx, "C1", router.Frame{Action: router.ActionCreateGame, Data: data})
	require.NoError(t, err)

	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	assert.True(t, sess.InGame())
}
