package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialapi/middleware"
	"socialapi/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, c.Query("uid"))
		hub.ServeWS(c)
	})
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, uid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?uid=" + uid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHub_WelcomeAndTargetedDelivery(t *testing.T) {
	hub, srv := startHub(t)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	assert.Equal(t, models.EventConnected, readEvent(t, alice).Type)
	assert.Equal(t, models.EventConnected, readEvent(t, bob).Type)

	hub.Notify("bob", models.Event{Type: models.EventNewFollower, Payload: map[string]interface{}{"userId": "alice"}})

	ev := readEvent(t, bob)
	assert.Equal(t, models.EventNewFollower, ev.Type)
	assert.Equal(t, "alice", ev.Payload["userId"])

	// alice must not see bob's event
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := alice.ReadMessage()
	assert.Error(t, err)
}

func TestHub_PingGetsPong(t *testing.T) {
	_, srv := startHub(t)

	conn := dial(t, srv, "alice")
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readEvent(t, conn).Type)
}

func TestHub_CountsConnections(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "alice")
	readEvent(t, conn)
	assert.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connected() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_RequiresUser(t *testing.T) {
	_, srv := startHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
