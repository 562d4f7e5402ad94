package command_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/command"
	"diceparty/internal/entity"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// Scenario 1: Create + connect + session.
func TestScenario_CreateConnectThenSession(t *testing.T) {
	svc, st, n, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	require.NotNil(t, conn.SessionID)

	sess, err := entity.SessionFromDB(ctx, st, *conn.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "C1", sess.ConnectionID)
	assert.Equal(t, entity.ActionCreateConnection, sess.ModifiedAction)

	assert.Equal(t, 1, n.Count("C1"))
	assert.Equal(t, notifier.ActionGetSession, n.Messages("C1")[0].Action)
}

// Scenario 2: CreateGame without a nickname is rejected.
func TestScenario_CreateGameWithoutNicknameIsNotAllowed(t *testing.T) {
	svc, st, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	sessionID := *conn.SessionID

	_, err = svc.CreateGame(ctx, command.CreateGameCommand{ConnectionID: "C1", SessionID: sessionID})

	require.Error(t, err)
	assert.ErrorIs(t, err, command.ErrNotAllowed)

	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	assert.False(t, sess.InGame())
}

// Scenario 3: happy-path game creation.
func TestScenario_HappyPathGameCreation(t *testing.T) {
	svc, st, n, pub := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	sessionID := *conn.SessionID

	_, err = svc.SetNickname(ctx, command.SetNicknameCommand{
		ConnectionID: "C1", SessionID: sessionID, Nickname: "Test",
	})
	require.NoError(t, err)

	_, err = svc.CreateGame(ctx, command.CreateGameCommand{ConnectionID: "C1", SessionID: sessionID})
	require.NoError(t, err)

	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	require.True(t, sess.InGame())

	game, err := entity.GameFromDB(ctx, st, *sess.GameID)
	require.NoError(t, err)
	require.Len(t, game.Players, 1)
	assert.Equal(t, sessionID, game.Players[0].PlayerID)
	assert.Equal(t, "Test", game.Players[0].Nickname)

	messages := n.Messages("C1")
	require.Len(t, messages, 4) // getSession, setNickname, joinGame, gameState
	assert.Equal(t, notifier.ActionJoinGame, messages[2].Action)
	assert.Equal(t, notifier.ActionGameState, messages[3].Action)

	require.Equal(t, 1, pub.Count())
	assert.Equal(t, "test.GameCreated", pub.Events()[0].Source)
}

// Scenario 7 + 8: disconnect, pending timeout, then destroy — or reconnect
// before the grace window elapses.
func TestScenario_DisconnectThenTimeoutDestroysSession(t *testing.T) {
	svc, st, _, pub := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	sessionID := *conn.SessionID

	_, err = svc.DestroyConnection(ctx, command.DestroyConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	_, err = entity.ConnectionFromDB(ctx, st, "C1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionPendingTimeout, sess.ModifiedAction)

	require.Equal(t, 1, pub.Count())
	assert.Equal(t, "test.Websocket", pub.Events()[0].Source)
	assert.Equal(t, "Disconnected", pub.Events()[0].DetailType)

	// Back-date modified_at past the grace window without going through
	// Session.Save, which would re-stamp it to now.
	sess.ModifiedAt = time.Now().UTC().Add(-31 * time.Second)
	payload, err := json.Marshal(sess)
	require.NoError(t, err)
	op := store.PutOp(store.Item{
		Kind:       store.KindSession,
		ID:         sess.SessionID,
		Version:    sess.Version() + 1,
		ModifiedAt: sess.ModifiedAt,
		Payload:    payload,
	})
	require.NoError(t, st.WriteOne(ctx, op))

	result, err := svc.CheckSessionTimeout(ctx, command.CheckSessionTimeoutCommand{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, "Session destroyed", result)

	_, err = entity.SessionFromDB(ctx, st, sessionID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestScenario_CheckSessionTimeout_TooEarlyIsNoOp(t *testing.T) {
	svc, st, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	sessionID := *conn.SessionID

	_, err = svc.DestroyConnection(ctx, command.DestroyConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	result, err := svc.CheckSessionTimeout(ctx, command.CheckSessionTimeoutCommand{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, "Session is not timed out", result)

	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionPendingTimeout, sess.ModifiedAction)
}

func TestScenario_ReconnectBeforeTimeoutIsNoOp(t *testing.T) {
	svc, st, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	conn, err := entity.ConnectionFromDB(ctx, st, "C1")
	require.NoError(t, err)
	sessionID := *conn.SessionID

	_, err = svc.DestroyConnection(ctx, command.DestroyConnectionCommand{ConnectionID: "C1"})
	require.NoError(t, err)

	_, err = svc.CreateConnection(ctx, command.CreateConnectionCommand{ConnectionID: "C2"})
	require.NoError(t, err)
	_, err = svc.SetSession(ctx, command.SetSessionCommand{ConnectionID: "C2", SessionID: sessionID})
	require.NoError(t, err)

	result, err := svc.CheckSessionTimeout(ctx, command.CheckSessionTimeoutCommand{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, "Session is not pending timeout", result)
}
