package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/reportguard-backend/internal/handlers"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

var origins = []string{"http://localhost:3000"}

func TestStreamDeliversEvents(t *testing.T) {
	hub := services.NewEventHub()
	srv := httptest.NewServer(http.HandlerFunc(handlers.NewEventsHandler(hub, origins).Stream))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), models.ReportEvent{
		Type:     models.EventReportTrashed,
		ReportID: "abc",
		ActorUID: "u1",
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.ReportEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, models.EventReportTrashed, ev.Type)
	assert.Equal(t, "abc", ev.ReportID)
}

func TestStreamUnsubscribesOnClose(t *testing.T) {
	hub := services.NewEventHub()
	srv := httptest.NewServer(http.HandlerFunc(handlers.NewEventsHandler(hub, origins).Stream))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamRejectsPlainHTTP(t *testing.T) {
	hub := services.NewEventHub()
	rec := httptest.NewRecorder()
	handlers.NewEventsHandler(hub, origins).Stream(rec, httptest.NewRequest(http.MethodGet, "/ws/reports", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, hub.Subscribers())
}

func TestStreamChecksOrigin(t *testing.T) {
	hub := services.NewEventHub()
	srv := httptest.NewServer(http.HandlerFunc(handlers.NewEventsHandler(hub, origins).Stream))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://localhost:3000"}})
	require.NoError(t, err)
	conn.Close()
}
