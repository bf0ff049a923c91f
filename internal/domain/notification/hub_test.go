package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matcha/matcha-api/internal/middleware"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func receive(t *testing.T, ch <-chan []byte) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal ws event: %v", err)
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestHub_SendToUserDeliversLocallyAndPublishes(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "a")
	go hub.Run()
	defer hub.Shutdown()

	var mu sync.Mutex
	var published []userEventMessage
	hub.publishUserEventFn = func(ctx context.Context, channel string, payload []byte) error {
		var msg userEventMessage
		_ = json.Unmarshal(payload, &msg)
		mu.Lock()
		published = append(published, msg)
		mu.Unlock()
		return nil
	}

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.GetConnectionCount() == 1 })

	if err := hub.SendToUserJSON(userID, Event{Type: EventNotificationNew}); err != nil {
		t.Fatalf("SendToUserJSON() error = %v", err)
	}

	if got := receive(t, conn.Send); got.Type != EventNotificationNew {
		t.Fatalf("unexpected event %+v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 || published[0].SenderInstanceID != "a" || published[0].UserID != userID.String() {
		t.Fatalf("unexpected published events %+v", published)
	}
}

func TestHub_RemoteEvents(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "local")
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.GetConnectionCount() == 1 })

	own, _ := json.Marshal(userEventMessage{UserID: userID.String(), Payload: json.RawMessage(`{"type":"own"}`), SenderInstanceID: "local"})
	hub.handleUserEventPayload(string(own))

	remote, _ := json.Marshal(userEventMessage{UserID: userID.String(), Payload: json.RawMessage(`{"type":"remote"}`), SenderInstanceID: "other"})
	hub.handleUserEventPayload(string(remote))

	if got := receive(t, conn.Send); got.Type != "remote" {
		t.Fatalf("expected only the remote event, got %+v", got)
	}
	select {
	case extra := <-conn.Send:
		t.Fatalf("own event was echoed back: %s", extra)
	default:
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "x")
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 1)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.IsOnline(userID) })

	hub.Unregister(conn)
	waitFor(t, func() bool { return !hub.IsOnline(userID) })

	if _, ok := <-conn.Send; ok {
		t.Fatalf("send channel still open")
	}
}

func TestWSHandler_PushesToSocket(t *testing.T) {
	hub := NewHubWithInstanceID(nil, "e2e")
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
	srv := httptest.NewServer(withUser(NewWSHandler(hub, nil)))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	waitFor(t, func() bool { return hub.GetConnectionCount() == 1 })

	publisher := NewWSPublisher(hub)
	if err := publisher.NotifyNew(context.Background(), userID, &NotificationResponse{Title: "New like"}, 3); err != nil {
		t.Fatalf("NotifyNew() error = %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event struct {
		Type string `json:"type"`
		Data struct {
			Notification NotificationResponse `json:"notification"`
			UnreadCount  int                  `json:"unread_count"`
		} `json:"data"`
	}
	if err := ws.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.Type != string(EventNotificationNew) || event.Data.Notification.Title != "New like" || event.Data.UnreadCount != 3 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestWSHandler_RequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWSHandler(NewHub(nil), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
