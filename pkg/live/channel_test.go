package live

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/store"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "live-test")
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// fastOpts keeps reconnect delays short so tests finish quickly.
var fastOpts = Options{BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond}

func TestUpdatesDeliversMessagesAndSurvivesGarbage(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"featureUpdated","payload":{"id":"F001"}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`this is not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sessionStarted"}`))

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	updates := NewUpdates(wsURL(server), testLogger(), fastOpts)
	defer updates.Close()

	var got []string
	updates.Messages.Subscribe(func(msg *models.UpdateMessage) {
		if msg != nil {
			got = append(got, msg.Type)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go updates.Run(ctx)

	require.Eventually(t, func() bool { return len(got) >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"featureUpdated", "sessionStarted"}, got[:2])
	assert.True(t, updates.Connected.Get())
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	var dials atomic.Int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		if n == 1 {
			// First connection drops immediately.
			conn.Close()
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"afterReconnect"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	updates := NewUpdates(wsURL(server), testLogger(), fastOpts)
	defer updates.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go updates.Run(ctx)

	require.Eventually(t, func() bool {
		msg := updates.Messages.Get()
		return msg != nil && msg.Type == "afterReconnect"
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, dials.Load(), int32(2))
}

func TestChannelConnectedFlagTracksLifecycle(t *testing.T) {
	upgrader := websocket.Upgrader{}
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		<-release
		conn.Close()
	}))
	defer server.Close()

	updates := NewUpdates(wsURL(server), testLogger(), fastOpts)
	defer updates.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go updates.Run(ctx)

	require.Eventually(t, updates.Connected.Get, 2*time.Second, 10*time.Millisecond)

	close(release)
	require.Eventually(t, func() bool { return !updates.Connected.Get() }, 2*time.Second, 10*time.Millisecond)
}

func TestChannelSendWritesJSONFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	frames := make(chan map[string]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var frame map[string]string
		if err := conn.ReadJSON(&frame); err == nil {
			frames <- frame
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ch := NewChannel(wsURL(server), testLogger(), fastOpts, nil)
	defer ch.Close()

	// Disconnected channels refuse to send rather than buffering.
	require.Error(t, ch.Send(map[string]string{"type": "early"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	require.Eventually(t, ch.Connected.Get, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, ch.Send(map[string]string{"type": "viewChanged", "view": "kanban"}))

	select {
	case frame := <-frames:
		assert.Equal(t, "viewChanged", frame["type"])
		assert.Equal(t, "kanban", frame["view"])
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the sent frame")
	}
}

func TestPresenceHelloAndRosterFeed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotHello := make(chan models.PresenceMessage, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var hello models.PresenceMessage
		require.NoError(t, conn.ReadJSON(&hello))
		gotHello <- hello

		roster := models.PresenceMessage{
			Type: models.PresenceMsgList,
			Users: []models.Presence{
				{ID: "me", DisplayName: "Me"},
				{ID: "u2", DisplayName: "Pat"},
			},
		}
		payload, _ := json.Marshal(roster)
		conn.WriteMessage(websocket.TextMessage, payload)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	roster := store.NewRoster("me", 0)
	self := models.Presence{ID: "me", DisplayName: "Me", Color: "#7FB4CA"}
	presence := NewPresence(wsURL(server), testLogger(), fastOpts, roster, self)
	defer presence.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go presence.Run(ctx)

	select {
	case hello := <-gotHello:
		assert.Equal(t, models.PresenceMsgHello, hello.Type)
		require.NotNil(t, hello.User)
		assert.Equal(t, "me", hello.User.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received hello")
	}

	// Own entry is filtered; only the other user shows.
	require.Eventually(t, func() bool { return roster.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	all := roster.All()
	require.Len(t, all, 1)
	assert.Equal(t, "u2", all[0].ID)
}
