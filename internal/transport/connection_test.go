package transport_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/command"
	"diceparty/internal/entity"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/router"
	"diceparty/internal/store"
	"diceparty/internal/transport"
)

func TestHandler_UpgradeCreatesSessionAndRepliesOverSocket(t *testing.T) {
	st := store.NewMemoryStore()
	hub := notifier.NewHub()
	pub := events.NewMemoryPublisher()
	svc := command.New(st, hub, pub, "test")

	r := router.New()
	router.Wire(r, svc)

	h := transport.NewHandler(svc, hub, r, transport.DefaultConfig())
	server := httptest.NewServer(h)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	frame := router.Frame{Action: router.ActionGetSession}
	payload, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg notifier.Message
	require.NoError(t, json.Unmarshal(reply, &msg))
	assert.Equal(t, notifier.ActionGetSession, msg.Action)
	assert.NotEmpty(t, msg.Data)
}

func TestHandler_DisconnectDestroysConnectionEntity(t *testing.T) {
	st := store.NewMemoryStore()
	hub := notifier.NewHub()
	pub := events.NewMemoryPublisher()
	svc := command.New(st, hub, pub, "test")

	r := router.New()
	router.Wire(r, svc)

	h := transport.NewHandler(svc, hub, r, transport.DefaultConfig())
	server := httptest.NewServer(h)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	frame := router.Frame{Action: router.ActionGetSession}
	payload, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg notifier.Message
	require.NoError(t, json.Unmarshal(reply, &msg))
	sessionID, ok := msg.Data.(string)
	require.True(t, ok)

	ctx := context.Background()
	sess, err := entity.SessionFromDB(ctx, st, sessionID)
	require.NoError(t, err)
	connectionID := sess.ConnectionID

	require.NoError(t, conn.Close())

	// The read pump's deferred cleanup destroys the connection entity once
	// the socket closes; poll for it since that happens on a goroutine.
	assert.Eventually(t, func() bool {
		_, err := entity.ConnectionFromDB(ctx, st, connectionID)
		return err == store.ErrNotFound
	}, time.Second, 10*time.Millisecond)
}
