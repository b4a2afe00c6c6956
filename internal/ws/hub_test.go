package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outreach-crm/internal/outreach"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWs(w, r)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration runs in the hub goroutine; wait until it lands.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	return hub, conn
}

func readEvent(t *testing.T, conn *websocket.Conn) WSEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event WSEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestHubBroadcastsActivityEvents(t *testing.T) {
	hub, conn := dialTestHub(t)

	hub.NotifyActivity(map[string]string{"action": "Call", "content": "Intro call"})

	event := readEvent(t, conn)
	assert.Equal(t, "new_activity", event.Type)
	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Call", data["action"])
}

func TestHubBroadcastsCampaignProgress(t *testing.T) {
	hub, conn := dialTestHub(t)

	hub.CampaignEvent("https://acme.com", outreach.StageGathered, "Acme")

	event := readEvent(t, conn)
	assert.Equal(t, "campaign_progress", event.Type)
	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://acme.com", data["url"])
	assert.Equal(t, string(outreach.StageGathered), data["stage"])
	assert.Equal(t, "Acme", data["detail"])
}
