package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/medicore/app/controllers"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/auth"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/database"
)

// runSSE serves one SSE connection in the background and returns the body
// once the client context is cancelled.
func runSSE(t *testing.T, ctl *controllers.StreamController, hub *broadcast.Hub, userID uint, token string,
	during func()) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sse?token="+token, nil)
	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		ctl.SSE(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.SubscriberCount(userID) == 1 },
		time.Second, 10*time.Millisecond, "handler never subscribed")

	during()

	// Let the handler forward pending events, then disconnect.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func TestStreamRejectsInvalidToken(t *testing.T) {
	setupDB(t)
	ctl := controllers.NewStreamController(broadcast.NewHub(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sse?token=garbage", nil)
	rec := httptest.NewRecorder()
	ctl.SSE(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStreamSnapshotThenLivePush(t *testing.T) {
	setupDB(t)
	user := seedPatient(t, "pat@example.com")

	unread := models.OrderNotification{UserID: user.ID, Title: "New service order", Message: "snapshot-item"}
	require.NoError(t, database.DB.Create(&unread).Error)

	hub := broadcast.NewHub()
	ctl := controllers.NewStreamController(hub, nil)

	token, err := auth.GenerateToken(user.ID, user.Role.String())
	require.NoError(t, err)

	body := runSSE(t, ctl, hub, user.ID, token, func() {
		hub.Publish(user.ID, broadcast.Event{
			Name:    "notifications",
			Payload: map[string]string{"order_id": "ORD-live-push"},
		})
	})

	assert.Contains(t, body, "event: notifications")
	assert.Contains(t, body, "snapshot-item", "unread set arrives on connect")
	assert.Contains(t, body, "ORD-live-push", "hub publishes reach the open stream")
}

func TestStreamClinicalStaffGetsOrderFeed(t *testing.T) {
	setupDB(t)
	doctor := models.User{Name: "Doc", Email: "doc@example.com", Password: "x", Role: models.RoleDoctor}
	require.NoError(t, database.DB.Create(&doctor).Error)

	activity := models.OrderNotification{UserID: doctor.ID, Title: "New service order", Message: "recent-order"}
	require.NoError(t, database.DB.Create(&activity).Error)

	hub := broadcast.NewHub()
	ctl := controllers.NewStreamController(hub, nil)

	token, err := auth.GenerateToken(doctor.ID, doctor.Role.String())
	require.NoError(t, err)

	body := runSSE(t, ctl, hub, doctor.ID, token, func() {})

	assert.Contains(t, body, "event: orders", "clinical staff receive the order activity feed")
	assert.Contains(t, body, "recent-order")
}

func TestStreamPatientGetsNoOrderFeed(t *testing.T) {
	setupDB(t)
	user := seedPatient(t, "pat@example.com")

	hub := broadcast.NewHub()
	ctl := controllers.NewStreamController(hub, nil)

	token, err := auth.GenerateToken(user.ID, user.Role.String())
	require.NoError(t, err)

	body := runSSE(t, ctl, hub, user.ID, token, func() {})

	assert.NotContains(t, body, "event: orders")
}
