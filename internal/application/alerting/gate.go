// Package alerting drives the panel's real-time order-alert pipeline:
// the NotificationPoller surfaces new-order notifications and the
// AlertGate walks the seller through an accept/reject decision while
// the audio alarm rings.
package alerting

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/alerting"
	"github.com/sellerdesk/panel/internal/infrastructure/upstream"
)

// Alarm is the audio alarm the gate rings while a decision is pending.
type Alarm interface {
	Start()
	Stop()
}

// OrderDecider is the upstream surface the gate needs: order detail,
// decision submission and the fire-and-forget read marker.
type OrderDecider interface {
	FetchOrderDetail(ctx context.Context, orderID string) (*alerting.OrderDetail, error)
	Decide(ctx context.Context, decision alerting.Decision) (*upstream.DecisionResult, error)
	MarkNotificationRead(ctx context.Context, notificationID string)
}

// GateSnapshot is a point-in-time view of the gate for the HTTP surface
// and the SSE stream.
type GateSnapshot struct {
	State             alerting.GateState     `json:"state"`
	Notification      *alerting.Notification `json:"notification,omitempty"`
	Detail            *alerting.OrderDetail  `json:"detail,omitempty"`
	DetailUnavailable bool                   `json:"detail_unavailable,omitempty"`
	LastError         string                 `json:"last_error,omitempty"`
	OpenedAt          *time.Time             `json:"opened_at,omitempty"`
}

// GateConfig holds AlertGate tunables.
type GateConfig struct {
	// CloseDelay is how long a successful submission stays visible
	// before the gate returns to Closed.
	CloseDelay time.Duration
	// DetailTimeout bounds the best-effort order detail fetch.
	DetailTimeout time.Duration
}

// DefaultGateConfig returns the gate defaults.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		CloseDelay:    500 * time.Millisecond,
		DetailTimeout: 5 * time.Second,
	}
}

// AlertGate is the modal decision flow for a single new-order alert.
// At most one alert is in flight at a time; there is deliberately no
// way to dismiss an open gate without deciding. Accept and reject are
// the only exits.
type AlertGate struct {
	config   GateConfig
	alarm    Alarm
	upstream OrderDecider
	logger   *zap.Logger

	mu           sync.Mutex
	state        alerting.GateState
	notification *alerting.Notification
	detail       *alerting.OrderDetail
	detailFailed bool
	lastError    string
	openedAt     time.Time

	// generation invalidates the pending close timer when the gate is
	// torn down or reopened before the timer fires.
	generation int64
	closeTimer *time.Timer
	closed     bool

	listenerMu sync.Mutex
	listeners  map[int]func(GateSnapshot)
	nextListID int
}

// NewAlertGate creates a gate in the Closed state.
func NewAlertGate(config GateConfig, alarm Alarm, decider OrderDecider, logger *zap.Logger) *AlertGate {
	if config.CloseDelay <= 0 {
		config.CloseDelay = DefaultGateConfig().CloseDelay
	}
	if config.DetailTimeout <= 0 {
		config.DetailTimeout = DefaultGateConfig().DetailTimeout
	}
	return &AlertGate{
		config:    config,
		alarm:     alarm,
		upstream:  decider,
		logger:    logger,
		state:     alerting.GateClosed,
		listeners: make(map[int]func(GateSnapshot)),
	}
}

// Open admits a notification into the gate. Only a Closed gate accepts;
// anything else returns ErrGateBusy and the caller drops the
// notification (it stays unread upstream and resurfaces on a later
// poll). The alarm starts before the detail fetch so the seller hears
// the alert even when the upstream is slow or down.
func (g *AlertGate) Open(ctx context.Context, n alerting.Notification) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return alerting.ErrGateClosed
	}
	if g.state != alerting.GateClosed {
		g.mu.Unlock()
		return alerting.ErrGateBusy
	}
	if n.OrderID == "" {
		g.mu.Unlock()
		return alerting.ErrOrderIDRequired
	}

	notif := n
	g.state = alerting.GateFetchingDetail
	g.notification = &notif
	g.detail = nil
	g.detailFailed = false
	g.lastError = ""
	g.openedAt = time.Now()
	g.mu.Unlock()

	g.alarm.Start()
	g.notifyListeners()

	g.logger.Info("alert gate opened",
		zap.String("notification_id", n.ID),
		zap.String("order_id", n.OrderID),
	)

	detailCtx, cancel := context.WithTimeout(ctx, g.config.DetailTimeout)
	defer cancel()

	detail, err := g.upstream.FetchOrderDetail(detailCtx, n.OrderID)

	g.mu.Lock()
	// The gate may have been torn down while the fetch was in flight.
	if g.state != alerting.GateFetchingDetail || g.notification == nil || g.notification.ID != n.ID {
		g.mu.Unlock()
		return nil
	}
	if err != nil {
		// Best effort: the seller can still decide on the order id
		// alone, so a failed fetch keeps the gate open with a
		// placeholder.
		g.detail = &alerting.OrderDetail{OrderID: n.OrderID}
		g.detailFailed = true
		g.logger.Warn("order detail fetch failed, showing placeholder",
			zap.String("order_id", n.OrderID),
			zap.Error(err),
		)
	} else {
		g.detail = detail
	}
	g.state = alerting.GateAwaitingDecision
	g.mu.Unlock()

	g.notifyListeners()
	return nil
}

// ChooseAccept submits an accept decision for the open alert. The
// alarm stops as soon as the seller expresses the decision, before any
// network traffic. On upstream failure the gate returns to
// AwaitingDecision with the server message surfaced; the seller
// retries, the alarm stays stopped.
func (g *AlertGate) ChooseAccept(ctx context.Context) error {
	return g.submit(ctx, alerting.ActionAccept, "", alerting.GateAwaitingDecision)
}

// ChooseReject moves the gate into the reject-reason sub-state. No
// network traffic happens until ConfirmReject.
func (g *AlertGate) ChooseReject() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != alerting.GateAwaitingDecision {
		if g.state == alerting.GateSubmitting {
			return alerting.ErrGateBusy
		}
		return alerting.ErrInvalidState
	}
	g.state = alerting.GateAwaitingRejectReason
	g.alarm.Stop()

	go g.notifyListeners()
	return nil
}

// CancelReject abandons the reject-reason sub-state and returns to
// AwaitingDecision. The entered reason is discarded; nothing is sent.
func (g *AlertGate) CancelReject() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != alerting.GateAwaitingRejectReason {
		return alerting.ErrInvalidState
	}
	g.state = alerting.GateAwaitingDecision

	go g.notifyListeners()
	return nil
}

// ConfirmReject submits a reject decision with the given reason. An
// empty reason is refused before any state change.
func (g *AlertGate) ConfirmReject(ctx context.Context, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return alerting.ErrReasonRequired
	}
	return g.submit(ctx, alerting.ActionReject, reason, alerting.GateAwaitingRejectReason)
}

// submit runs the single-flight decision path shared by accept and
// reject. from is the only state the submission may start in, which
// makes a concurrent second decision fail with ErrGateBusy while the
// first is in flight.
func (g *AlertGate) submit(ctx context.Context, action alerting.DecisionAction, reason string, from alerting.GateState) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return alerting.ErrGateClosed
	}
	if g.state == alerting.GateSubmitting {
		g.mu.Unlock()
		return alerting.ErrGateBusy
	}
	if g.state != from {
		g.mu.Unlock()
		return alerting.ErrInvalidState
	}

	notif := *g.notification
	g.state = alerting.GateSubmitting
	g.lastError = ""
	g.mu.Unlock()

	g.alarm.Stop()
	g.notifyListeners()

	decision := alerting.Decision{
		OrderID: notif.OrderID,
		Action:  action,
		Reason:  reason,
	}
	result, err := g.upstream.Decide(ctx, decision)
	if err != nil {
		msg := err.Error()
		if result != nil && result.Message != "" {
			msg = result.Message
		}

		g.mu.Lock()
		// A Close racing the in-flight decision already moved the gate
		// to Closed; the snapshot must not resurrect the decision state.
		if !g.closed {
			g.state = from
			g.lastError = msg
		}
		g.mu.Unlock()

		g.logger.Warn("order decision failed",
			zap.String("order_id", notif.OrderID),
			zap.String("action", action.String()),
			zap.Error(err),
		)
		g.notifyListeners()
		return err
	}

	g.logger.Info("order decision submitted",
		zap.String("order_id", notif.OrderID),
		zap.String("action", action.String()),
		zap.String("message", result.Message),
	)

	// Read marker is fire and forget; a failure only skews the badge.
	g.upstream.MarkNotificationRead(context.WithoutCancel(ctx), notif.ID)

	g.scheduleClose()
	g.notifyListeners()
	return nil
}

// scheduleClose arms the post-decision close timer. The gate stays in
// Submitting for the close delay so the seller sees the confirmation
// before the panel returns to the order list.
func (g *AlertGate) scheduleClose() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	gen := g.generation
	g.closeTimer = time.AfterFunc(g.config.CloseDelay, func() {
		g.mu.Lock()
		if g.generation != gen || g.closed {
			g.mu.Unlock()
			return
		}
		g.resetLocked()
		g.mu.Unlock()
		g.notifyListeners()
	})
}

// resetLocked returns the gate to Closed. Caller holds g.mu.
func (g *AlertGate) resetLocked() {
	g.state = alerting.GateClosed
	g.notification = nil
	g.detail = nil
	g.detailFailed = false
	g.lastError = ""
	g.openedAt = time.Time{}
}

// Snapshot returns the current gate view.
func (g *AlertGate) Snapshot() GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *AlertGate) snapshotLocked() GateSnapshot {
	snap := GateSnapshot{
		State:             g.state,
		DetailUnavailable: g.detailFailed,
		LastError:         g.lastError,
	}
	if g.notification != nil {
		n := *g.notification
		snap.Notification = &n
	}
	if g.detail != nil {
		d := *g.detail
		snap.Detail = &d
	}
	if !g.openedAt.IsZero() {
		t := g.openedAt
		snap.OpenedAt = &t
	}
	return snap
}

// IsClosed reports whether the gate can admit a new notification.
func (g *AlertGate) IsClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == alerting.GateClosed && !g.closed
}

// Subscribe registers a listener invoked on every state change with
// the fresh snapshot. The returned function unsubscribes.
func (g *AlertGate) Subscribe(fn func(GateSnapshot)) func() {
	g.listenerMu.Lock()
	id := g.nextListID
	g.nextListID++
	g.listeners[id] = fn
	g.listenerMu.Unlock()

	return func() {
		g.listenerMu.Lock()
		delete(g.listeners, id)
		g.listenerMu.Unlock()
	}
}

// notifyListeners fans the current snapshot out to subscribers.
func (g *AlertGate) notifyListeners() {
	g.mu.Lock()
	snap := g.snapshotLocked()
	g.mu.Unlock()

	g.listenerMu.Lock()
	fns := make([]func(GateSnapshot), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Close tears the gate down from the composition root. The alarm stops
// unconditionally and any pending close timer is cancelled. Close is
// the only path that abandons an undecided alert, and it exists solely
// for process shutdown.
func (g *AlertGate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.generation++
	if g.closeTimer != nil {
		g.closeTimer.Stop()
		g.closeTimer = nil
	}
	g.resetLocked()
	g.mu.Unlock()

	g.alarm.Stop()
	g.logger.Info("alert gate closed")
}
