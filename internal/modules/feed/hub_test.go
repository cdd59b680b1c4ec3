package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibooking/internal/events"
	"taxibooking/internal/pkg/jwt"
)

func setupFeed(t *testing.T) (*Hub, *jwt.Service, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	tokens := jwt.New("feed-secret", time.Hour)
	r := gin.New()
	NewHandler(hub, tokens, nil).RegisterRoutes(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, tokens, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/feed?token=" + token
}

func TestFeed_AdminReceivesEvents(t *testing.T) {
	hub, tokens, srv := setupFeed(t)

	token, err := tokens.GenerateToken(1, "admin")
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	bus := events.NewBus(nil)
	bus.Subscribe("feed", hub.Handler())
	e := events.New(events.BookingCreated)
	e.BookingCode = "TAXIFEED00001"
	bus.Publish(context.Background(), e)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "TAXIFEED00001", got.BookingCode)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_RejectsNonAdmins(t *testing.T) {
	_, tokens, srv := setupFeed(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "garbage"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := tokens.GenerateToken(2, "driver")
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_SlowClientDropsEvents(t *testing.T) {
	hub := NewHub(nil)
	c := &client{userID: 1, send: make(chan []byte, 1)}
	hub.register(c)

	hub.Broadcast(events.New(events.BookingPaid))
	hub.Broadcast(events.New(events.BookingPaid))

	assert.Len(t, c.send, 1)
	hub.unregister(c)
	assert.Equal(t, 0, hub.Count())
}
