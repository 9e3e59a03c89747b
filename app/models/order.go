package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order status values. An order moves unpaid → paid exactly once.
const (
	OrderUnpaid = "unpaid"
	OrderPaid   = "paid"
)

// Order is a service purchase created at checkout and settled by the
// payment gateway.
type Order struct {
	gorm.Model
	OrderID   string  `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	OfferID   uint    `gorm:"not null;index" json:"offer_id"`
	Offer     *Offer  `json:"offer,omitempty"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Total     float64 `gorm:"not null" json:"total"`
	Status    string  `gorm:"size:20;not null;default:unpaid;index" json:"status"`
	SessionID string  `gorm:"index;size:255" json:"session_id"`

	// Patient details captured at checkout.
	FullName       string `gorm:"size:255;not null" json:"full_name"`
	Gender         string `gorm:"size:20" json:"gender"`
	NationalCardID string `gorm:"size:100" json:"national_card_id"`

	PaidAt *time.Time `json:"paid_at"`
}

// Paid reports whether payment has been confirmed.
func (o *Order) Paid() bool { return o.Status == OrderPaid }

// NewOrderID generates a unique, roughly time-sortable order reference,
// e.g. "ORD-1735689600123-9f2c1ab4".
func NewOrderID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}

// OrderNotification is one admin's copy of an order event. Created in the
// checkout transaction, one row per admin; marked read in bulk, never
// deleted.
type OrderNotification struct {
	gorm.Model
	UserID  uint       `gorm:"not null;index" json:"user_id"` // recipient
	OrderID uint       `gorm:"not null;index" json:"order_id"`
	Order   *Order     `json:"order,omitempty"`
	Title   string     `gorm:"size:255;not null" json:"title"`
	Message string     `gorm:"size:1000" json:"message"`
	ReadAt  *time.Time `gorm:"index" json:"read_at"`
}

// Read reports whether the notification has been marked read.
func (n *OrderNotification) Read() bool { return n.ReadAt != nil }

// Outbox entry kinds.
const (
	OutboxOrderPlaced = "order.placed"
	OutboxOrderPaid   = "order.paid"
)

// OutboxEntry records a side effect (stream broadcast, cache invalidation)
// committed in the same transaction as the state change that caused it.
// A background dispatcher delivers entries at-least-once and stamps
// DispatchedAt.
type OutboxEntry struct {
	gorm.Model
	Kind         string     `gorm:"size:50;not null;index" json:"kind"`
	Payload      string     `gorm:"type:text;not null" json:"payload"` // JSON
	Attempts     int        `gorm:"not null;default:0" json:"attempts"`
	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at"`
}

// Dispatched reports whether the entry has been delivered.
func (e *OutboxEntry) Dispatched() bool { return e.DispatchedAt != nil }
