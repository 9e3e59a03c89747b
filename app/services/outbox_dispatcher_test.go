package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/queue"
)

func setupOutboxDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OutboxEntry{}, &queue.FailedJobRecord{}))

	database.DB = db
}

func TestDrainDeliversAndStampsEntries(t *testing.T) {
	setupOutboxDB(t)

	hub := broadcast.NewHub()
	ch, cancel := hub.Subscribe(7)
	defer cancel()

	payload, err := json.Marshal(orderEvent{
		OrderID: "ORD-1-deadbeef", UserID: 3, AdminIDs: []uint{7}, Total: 42,
	})
	require.NoError(t, err)
	entry := models.OutboxEntry{Kind: models.OutboxOrderPlaced, Payload: string(payload)}
	require.NoError(t, database.DB.Create(&entry).Error)

	d := NewOutboxDispatcher(hub, nil)
	d.drainOnce()

	select {
	case ev := <-ch:
		assert.Equal(t, "notifications", ev.Name)
	default:
		t.Fatal("expected the admin broadcast")
	}

	var got models.OutboxEntry
	require.NoError(t, database.DB.First(&got, entry.ID).Error)
	assert.True(t, got.Dispatched())
	assert.Equal(t, 0, got.Attempts)
}

func TestDrainParksPoisonEntries(t *testing.T) {
	setupOutboxDB(t)

	entry := models.OutboxEntry{Kind: models.OutboxOrderPlaced, Payload: "{not json"}
	require.NoError(t, database.DB.Create(&entry).Error)

	d := NewOutboxDispatcher(broadcast.NewHub(), nil)
	for i := 0; i < maxOutboxAttempts; i++ {
		d.drainOnce()
	}

	var got models.OutboxEntry
	require.NoError(t, database.DB.First(&got, entry.ID).Error)
	assert.Equal(t, maxOutboxAttempts, got.Attempts)
	assert.True(t, got.Dispatched(), "a parked entry must leave the poll window")

	var rec queue.FailedJobRecord
	require.NoError(t, database.DB.First(&rec).Error)
	assert.Equal(t, "outbox."+models.OutboxOrderPlaced, rec.JobType)
	assert.Equal(t, entry.Payload, rec.Payload)

	// Further cycles see nothing pending and record nothing new.
	d.drainOnce()
	var n int64
	require.NoError(t, database.DB.Model(&queue.FailedJobRecord{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
