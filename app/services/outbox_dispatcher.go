package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/logger"
	"github.com/shashiranjanraj/medicore/pkg/metrics"
	"github.com/shashiranjanraj/medicore/pkg/queue"
	"github.com/shashiranjanraj/medicore/pkg/ws"
)

// dispatchBatch caps how many outbox entries one poll cycle processes.
const dispatchBatch = 100

// maxOutboxAttempts bounds redelivery: an entry that fails this many
// times is parked in the failed-job store instead of being polled forever.
const maxOutboxAttempts = 5

// OutboxDispatcher drains committed OutboxEntry rows and performs their
// side effects: stream broadcasts and cache invalidation. Entries are
// delivered at least once; delivery and the dispatched_at stamp are not
// atomic, so consumers tolerate duplicates.
type OutboxDispatcher struct {
	orders *repositories.OrderRepository
	hub    *broadcast.Hub
	wsHub  *ws.Hub
}

func NewOutboxDispatcher(hub *broadcast.Hub, wsHub *ws.Hub) *OutboxDispatcher {
	return &OutboxDispatcher{
		orders: repositories.NewOrderRepository(),
		hub:    hub,
		wsHub:  wsHub,
	}
}

// Run polls for pending entries until ctx is cancelled. Intended to run
// in its own goroutine, started by the server.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	interval := config.OutboxPollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("outbox: dispatcher started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox: dispatcher stopped")
			return
		case <-ticker.C:
			d.drainOnce()
		}
	}
}

// drainOnce processes one batch of pending entries.
func (d *OutboxDispatcher) drainOnce() {
	entries, err := d.orders.PendingOutbox(dispatchBatch)
	if err != nil {
		logger.Error("outbox: fetch pending", "error", err)
		return
	}

	for i := range entries {
		entry := &entries[i]
		if dispatchErr := d.dispatch(entry); dispatchErr != nil {
			metrics.OutboxDispatched.WithLabelValues(entry.Kind, "error").Inc()
			logger.Error("outbox: dispatch failed",
				"id", entry.ID, "kind", entry.Kind, "attempts", entry.Attempts, "error", dispatchErr)
			if err := d.orders.BumpOutboxAttempts(entry); err != nil {
				logger.Error("outbox: bump attempts", "id", entry.ID, "error", err)
				continue
			}
			if entry.Attempts >= maxOutboxAttempts {
				d.park(entry, dispatchErr)
			}
			continue
		}

		if err := d.orders.MarkDispatched(entry); err != nil {
			// Entry stays pending and will be re-delivered next cycle.
			logger.Error("outbox: mark dispatched", "id", entry.ID, "error", err)
			continue
		}
		metrics.OutboxDispatched.WithLabelValues(entry.Kind, "ok").Inc()
	}
}

// park retires an entry that keeps failing: the failure goes to the
// failed-job store for operators, and the entry is stamped so the poll
// loop never picks it up again.
func (d *OutboxDispatcher) park(entry *models.OutboxEntry, cause error) {
	record := queue.FailedJobRecord{
		JobType:  "outbox." + entry.Kind,
		Payload:  entry.Payload,
		Error:    cause.Error(),
		Attempts: entry.Attempts,
		FailedAt: time.Now(),
	}
	if err := database.DB.Create(&record).Error; err != nil {
		logger.Error("outbox: persist parked entry", "id", entry.ID, "error", err)
	}

	if err := d.orders.MarkDispatched(entry); err != nil {
		logger.Error("outbox: park entry", "id", entry.ID, "error", err)
		return
	}
	metrics.OutboxDispatched.WithLabelValues(entry.Kind, "parked").Inc()
	logger.Error("outbox: entry parked after repeated failures",
		"id", entry.ID, "kind", entry.Kind, "attempts", entry.Attempts, "error", cause)
}

func (d *OutboxDispatcher) dispatch(entry *models.OutboxEntry) error {
	var ev orderEvent
	if err := json.Unmarshal([]byte(entry.Payload), &ev); err != nil {
		return err
	}

	switch entry.Kind {
	case models.OutboxOrderPlaced:
		d.pushOrderPlaced(ev)
	case models.OutboxOrderPaid:
		d.pushOrderPaid(ev)
	default:
		logger.Warn("outbox: unknown kind", "kind", entry.Kind, "id", entry.ID)
	}

	InvalidateOrders(ev.UserID)
	return nil
}

func (d *OutboxDispatcher) pushOrderPlaced(ev orderEvent) {
	payload := map[string]interface{}{
		"order_id": ev.OrderID,
		"user_id":  ev.UserID,
		"total":    ev.Total,
	}
	raw, _ := json.Marshal(map[string]interface{}{"event": "notifications", "data": payload})

	for _, adminID := range ev.AdminIDs {
		d.hub.Publish(adminID, broadcast.Event{Name: "notifications", Payload: payload})
		if d.wsHub != nil {
			d.wsHub.SendToUser(adminID, raw)
		}
	}
}

func (d *OutboxDispatcher) pushOrderPaid(ev orderEvent) {
	payload := map[string]interface{}{
		"order_id": ev.OrderID,
		"status":   models.OrderPaid,
		"total":    ev.Total,
	}
	raw, _ := json.Marshal(map[string]interface{}{"event": "order-paid", "data": payload})

	d.hub.Publish(ev.UserID, broadcast.Event{Name: "order-paid", Payload: payload})
	if d.wsHub != nil {
		d.wsHub.SendToUser(ev.UserID, raw)
	}
}
