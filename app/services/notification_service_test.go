package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/database"
)

func seedNotification(t *testing.T, userID uint, title string, readAt *time.Time) models.OrderNotification {
	t.Helper()
	n := models.OrderNotification{UserID: userID, Title: title, Message: "m", ReadAt: readAt}
	require.NoError(t, database.DB.Create(&n).Error)
	return n
}

func TestMarkAllReadSettlesOnlyOnce(t *testing.T) {
	setupDB(t)
	admin := seedUser(t, "admin@example.com", models.RoleAdmin)
	other := seedUser(t, "other@example.com", models.RoleAdmin)

	seedNotification(t, admin.ID, "first", nil)
	seedNotification(t, admin.ID, "second", nil)
	seedNotification(t, other.ID, "not-yours", nil)

	svc := services.NewNotificationService()

	n, err := svc.MarkAllRead(admin.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := svc.UnreadForUser(admin.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Repeating is a no-op, not an error.
	n, err = svc.MarkAllRead(admin.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// The other admin's feed is untouched.
	unread, err = svc.UnreadForUser(other.ID)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestForUserNewestFirst(t *testing.T) {
	setupDB(t)
	admin := seedUser(t, "admin@example.com", models.RoleAdmin)

	seedNotification(t, admin.ID, "older", nil)
	seedNotification(t, admin.ID, "newer", nil)

	svc := services.NewNotificationService()
	items, err := svc.ForUser(admin.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Title)
}

func TestOrderActivityIsWindowed(t *testing.T) {
	setupDB(t)
	admin := seedUser(t, "admin@example.com", models.RoleAdmin)

	fresh := seedNotification(t, admin.ID, "fresh", nil)

	stale := seedNotification(t, admin.ID, "stale", nil)
	twoDaysAgo := time.Now().Add(-48 * time.Hour)
	require.NoError(t, database.DB.Model(&stale).
		UpdateColumn("created_at", twoDaysAgo).Error)

	svc := services.NewNotificationService()
	items, err := svc.OrderActivity()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, fresh.ID, items[0].ID)
}
