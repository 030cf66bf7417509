// SSE stream handlers backing the three live views: kitchen display,
// server ready-queue and the customer confirmation page. Each stream runs
// a views.Watcher, so every SSE frame carries a freshly refetched snapshot
// rather than the raw change event.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tably/internal/http/middleware"
	"tably/internal/modules/order"
	"tably/internal/notify"
	"tably/internal/types"
	"tably/internal/views"
)

type StreamHandler struct {
	orders *order.Service
	sub    notify.Subscriber
	log    zerolog.Logger
}

func NewStreamHandler(orders *order.Service, sub notify.Subscriber, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{orders: orders, sub: sub, log: log}
}

// Orders streams tenant-scoped snapshots for staff dashboards. With
// ?status=preparing it behaves as the kitchen display; without a filter it
// is the server view over all open orders.
func (h *StreamHandler) Orders(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	frames := make(chan any, 1)
	render := func(snapshot []order.OrderWithItems) { push(frames, snapshot) }

	var w *views.Watcher[[]order.OrderWithItems]
	if raw := c.Query("status"); raw != "" {
		status, ok := order.ParseStatus(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "unknown status")
			return
		}
		w = views.KitchenView(h.sub, h.orders, actor.TenantID, status, render, h.log)
	} else {
		w = views.ServerView(h.sub, h.orders, actor.TenantID, render, h.log)
	}

	h.serve(c, w.Run, frames)
}

// Order streams a single order's snapshot for the customer confirmation
// page. Public: the order id is the capability.
func (h *StreamHandler) Order(c *gin.Context) {
	id := c.Param("order_id")
	if !types.IsValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.orders.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if tid := c.Param("table_id"); tid != "" && o.TableID != types.ID(tid) {
		writeError(c, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}

	frames := make(chan any, 1)
	render := func(snapshot *order.OrderWithItems) { push(frames, snapshot) }
	w := views.CustomerView(h.sub, h.orders, types.ID(id), render, h.log)

	h.serve(c, w.Run, frames)
}

func (h *StreamHandler) serve(c *gin.Context, run func(context.Context) error, frames chan any) {
	ctx := c.Request.Context()
	failed := make(chan error, 1)
	go func() { failed <- run(ctx) }()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case err := <-failed:
			// The watcher only returns early when it cannot subscribe or
			// the client went away. Tell the client instead of leaving the
			// connection idle.
			if err != nil && ctx.Err() == nil {
				h.log.Warn().Err(err).Msg("stream: watcher stopped")
				c.SSEvent("error", "stream unavailable")
			}
			return false
		case frame := <-frames:
			c.SSEvent("snapshot", frame)
			return true
		}
	})
}

// push drops the stale pending frame, if any, so the stream always sends
// the newest snapshot next.
func push(frames chan any, frame any) {
	for {
		select {
		case frames <- frame:
			return
		default:
			select {
			case <-frames:
			default:
			}
		}
	}
}
