package alerting

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/alerting"
	"github.com/sellerdesk/panel/internal/infrastructure/dedup"
)

// NotificationFetcher pulls the unread-notification snapshot from the
// upstream backend.
type NotificationFetcher interface {
	FetchUnreadNotifications(ctx context.Context) (alerting.Snapshot, error)
}

// GateOfferer admits notifications into the alert flow. IsClosed lets
// the poller skip dedup consumption while an alert is already open.
type GateOfferer interface {
	Open(ctx context.Context, n alerting.Notification) error
	IsClosed() bool
}

// PollerConfig holds NotificationPoller tunables.
type PollerConfig struct {
	// Interval between poll cycles.
	Interval time.Duration
	// FetchTimeout bounds a single snapshot fetch.
	FetchTimeout time.Duration
}

// DefaultPollerConfig returns the poller defaults.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:     10 * time.Second,
		FetchTimeout: 8 * time.Second,
	}
}

// PollerOption configures a NotificationPoller.
type PollerOption func(*NotificationPoller)

// WithOnUpdate sets the snapshot subscriber, invoked after every
// successful cycle with the full snapshot (never a delta).
func WithOnUpdate(fn func(alerting.Snapshot)) PollerOption {
	return func(p *NotificationPoller) {
		p.onUpdate = fn
	}
}

// WithOnError sets the fetch-failure subscriber. Fetch failures are
// transient and never stop the loop.
func WithOnError(fn func(error)) PollerOption {
	return func(p *NotificationPoller) {
		p.onError = fn
	}
}

// NotificationPoller periodically fetches the unread-notification
// snapshot and feeds fresh new-order notifications through the dedup
// registry into the alert gate. Cycles are strictly sequential; a slow
// fetch delays the next tick rather than overlapping it.
type NotificationPoller struct {
	config   PollerConfig
	fetcher  NotificationFetcher
	registry dedup.Registry
	gate     GateOfferer
	logger   *zap.Logger

	onUpdate func(alerting.Snapshot)
	onError  func(error)

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewNotificationPoller creates a poller. It does not start polling.
func NewNotificationPoller(config PollerConfig, fetcher NotificationFetcher, registry dedup.Registry, gate GateOfferer, logger *zap.Logger, opts ...PollerOption) *NotificationPoller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = DefaultPollerConfig().FetchTimeout
	}
	p := &NotificationPoller{
		config:   config,
		fetcher:  fetcher,
		registry: registry,
		gate:     gate,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the poll loop. Idempotent: a second Start while running
// is a no-op.
func (p *NotificationPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	p.logger.Info("notification poller started",
		zap.Duration("interval", p.config.Interval),
	)

	go p.loop(ctx, done)
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
// Idempotent.
func (p *NotificationPoller) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
	p.logger.Info("notification poller stopped")
}

// IsRunning reports whether the loop is active.
func (p *NotificationPoller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

// loop runs cycles on a ticker. The first cycle fires immediately so a
// fresh login surfaces pending orders without waiting a full interval.
func (p *NotificationPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle performs one fetch-and-dispatch pass.
func (p *NotificationPoller) runCycle(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.config.FetchTimeout)
	defer cancel()

	snap, err := p.fetcher.FetchUnreadNotifications(fetchCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("notification poll failed", zap.Error(err))
		if p.onError != nil {
			p.onError(err)
		}
		return
	}

	if p.onUpdate != nil {
		p.onUpdate(snap)
	}

	for _, n := range snap.Alertable() {
		// While an alert is open, leave the id unconsumed so the
		// notification resurfaces on a later tick once the gate is
		// free again.
		if !p.gate.IsClosed() {
			return
		}

		fresh, err := p.registry.ShouldAlert(ctx, n.ID)
		if err != nil {
			p.logger.Warn("dedup registry check failed",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			continue
		}
		if !fresh {
			continue
		}

		if err := p.gate.Open(ctx, n); err != nil {
			p.logger.Debug("gate refused notification",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
		}
	}
}
