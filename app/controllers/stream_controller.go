package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/auth"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/logger"
	"github.com/shashiranjanraj/medicore/pkg/metrics"
	"github.com/shashiranjanraj/medicore/pkg/response"
	"github.com/shashiranjanraj/medicore/pkg/sse"
	"github.com/shashiranjanraj/medicore/pkg/ws"
)

// StreamController serves the live notification feeds. Browsers cannot
// set headers on EventSource connections, so both endpoints authenticate
// with a ?token= query parameter instead of the Authorization header.
type StreamController struct {
	hub           *broadcast.Hub
	wsHub         *ws.Hub
	notifications *services.NotificationService
}

func NewStreamController(hub *broadcast.Hub, wsHub *ws.Hub) *StreamController {
	return &StreamController{
		hub:           hub,
		wsHub:         wsHub,
		notifications: services.NewNotificationService(),
	}
}

// authenticate validates the ?token= query parameter.
func (c *StreamController) authenticate(r *http.Request) (*auth.Claims, bool) {
	claims, err := auth.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		return nil, false
	}
	return claims, true
}

// SSE streams the caller's notifications as Server-Sent Events.
//
// On connect the current unread set is pushed as a snapshot; after that
// the handler blocks on the broadcast subscription and forwards events as
// the outbox dispatcher publishes them. Heartbeat comments keep proxies
// from closing the connection, and an idle timeout bounds how long a
// silent connection is held.
func (c *StreamController) SSE(w http.ResponseWriter, r *http.Request) {
	claims, ok := c.authenticate(r)
	if !ok {
		response.Forbidden(w)
		return
	}

	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()

	events, cancel := c.hub.Subscribe(claims.UserID)
	defer cancel()

	c.sendSnapshot(stream, claims)

	heartbeat := time.NewTicker(config.StreamHeartbeat())
	defer heartbeat.Stop()
	idle := time.NewTimer(config.StreamIdleTimeout())
	defer idle.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-idle.C:
			stream.Comment("idle timeout")
			return
		case <-heartbeat.C:
			stream.Comment("keepalive")
			if stream.IsClosed() {
				return
			}
		case ev := <-events:
			if err := stream.Send(ev.Name, ev.Payload); err != nil {
				logger.WithCtx(r.Context()).Warn("sse: send failed", "error", err)
				return
			}
			if stream.IsClosed() {
				return
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(config.StreamIdleTimeout())
		}
	}
}

// sendSnapshot pushes the initial state: the caller's unread
// notifications, and for clinical staff the last 24 hours of order
// activity as a separate feed.
func (c *StreamController) sendSnapshot(stream *sse.Stream, claims *auth.Claims) {
	unread, err := c.notifications.UnreadForUser(claims.UserID)
	if err == nil {
		stream.Send("notifications", unread)
	}

	if models.Role(claims.Role).ClinicalStaff() {
		activity, err := c.notifications.OrderActivity()
		if err == nil {
			stream.Send("orders", activity)
		}
	}
}

// WS serves the same feed over a WebSocket. Delivery happens through the
// hub's per-user registry; this handler only authenticates and upgrades.
func (c *StreamController) WS(w http.ResponseWriter, r *http.Request) {
	claims, ok := c.authenticate(r)
	if !ok {
		response.Forbidden(w)
		return
	}

	ws.Upgrade(w, r, c.wsHub, claims.UserID)
}
