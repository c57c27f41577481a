package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/alerting"
)

// DefaultRetrySchedule is the linear backoff applied when the platform
// denies playback: three retries at 300ms, 600ms and 900ms after the
// failed attempt.
var DefaultRetrySchedule = []time.Duration{
	300 * time.Millisecond,
	600 * time.Millisecond,
	900 * time.Millisecond,
}

// Alarm is the shared order alarm. Exactly one Alarm exists per process;
// it owns the only playback object, so starting it twice never produces
// a second audible stream. All transitions are guarded by one mutex and
// a generation counter, so a Stop issued while a delayed retry is
// pending cancels that retry instead of racing it.
type Alarm struct {
	player   Player
	logger   *zap.Logger
	schedule []time.Duration

	mu          sync.Mutex
	phase       alerting.AlarmPhase
	retryCount  int
	retryTimer  *time.Timer
	generation  uint64
	prepared    bool
	unlockArmed bool
}

// AlarmOption is a functional option for Alarm configuration.
type AlarmOption func(*Alarm)

// WithRetrySchedule overrides the playback-denial retry delays.
func WithRetrySchedule(schedule []time.Duration) AlarmOption {
	return func(a *Alarm) {
		if len(schedule) > 0 {
			a.schedule = schedule
		}
	}
}

// NewAlarm creates the alarm in the Idle phase.
func NewAlarm(player Player, logger *zap.Logger, opts ...AlarmOption) *Alarm {
	a := &Alarm{
		player:   player,
		logger:   logger,
		schedule: DefaultRetrySchedule,
		phase:    alerting.AlarmIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize prepares the playback resource. Calling it while already
// prepared is a no-op. Returns ErrResourceUnavailable (wrapped) when the
// platform denies media creation; the caller may retry.
func (a *Alarm) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ensurePreparedLocked()
}

func (a *Alarm) ensurePreparedLocked() error {
	if a.prepared {
		return nil
	}
	if err := a.player.Prepare(); err != nil {
		if errors.Is(err, alerting.ErrResourceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", alerting.ErrResourceUnavailable, err)
	}
	a.prepared = true
	return nil
}

// Start transitions Idle/Stopped -> Initializing -> Playing. If the
// alarm is already Playing, or a retry is already pending, Start is a
// no-op. Playback failures are never returned to the caller: the
// decision flow must proceed whether or not sound plays, so denials are
// retried on the configured schedule and exhaustion is only logged.
func (a *Alarm) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase == alerting.AlarmPlaying || a.phase == alerting.AlarmInitializing {
		return
	}

	a.generation++
	a.phase = alerting.AlarmInitializing
	a.retryCount = 0
	a.attemptLocked(a.generation)
}

// attemptLocked performs one playback attempt. Callers must hold a.mu.
func (a *Alarm) attemptLocked(gen uint64) {
	if err := a.ensurePreparedLocked(); err != nil {
		a.phase = alerting.AlarmStopped
		a.logger.Warn("alarm resource unavailable, continuing without sound", zap.Error(err))
		return
	}

	err := a.player.Play()
	if err == nil {
		a.phase = alerting.AlarmPlaying
		a.unlockArmed = false
		if a.retryCount > 0 {
			a.logger.Info("alarm playback recovered after retry",
				zap.Int("attempts", a.retryCount+1),
			)
		}
		return
	}

	if !errors.Is(err, alerting.ErrPlaybackDenied) {
		a.phase = alerting.AlarmStopped
		a.logger.Warn("alarm playback failed, continuing without sound", zap.Error(err))
		return
	}

	if a.retryCount >= len(a.schedule) {
		a.phase = alerting.AlarmStopped
		a.logger.Warn("alarm playback denied, retries exhausted",
			zap.Int("attempts", a.retryCount+1),
		)
		return
	}

	delay := a.schedule[a.retryCount]
	a.retryCount++
	a.unlockArmed = true
	a.logger.Debug("alarm playback denied, scheduling retry",
		zap.Int("retry", a.retryCount),
		zap.Duration("delay", delay),
	)

	a.retryTimer = time.AfterFunc(delay, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		// A Stop or a fresh Start bumped the generation while this timer
		// was pending; the retry no longer applies.
		if a.generation != gen || a.phase != alerting.AlarmInitializing {
			return
		}
		a.retryTimer = nil
		a.attemptLocked(gen)
	})
}

// Stop transitions to Idle from any phase. Idempotent and safe from
// teardown paths: it cancels a pending retry rather than letting it fire
// after the seller has moved on, and rewinds the playback position so
// the next Start is audible from the top.
func (a *Alarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	if a.retryTimer != nil {
		a.retryTimer.Stop()
		a.retryTimer = nil
	}

	wasPlaying := a.phase == alerting.AlarmPlaying
	a.phase = alerting.AlarmIdle
	a.retryCount = 0
	a.unlockArmed = false

	if wasPlaying {
		if err := a.player.Pause(); err != nil {
			a.logger.Warn("failed to pause alarm playback", zap.Error(err))
		}
		if err := a.player.Rewind(); err != nil {
			a.logger.Warn("failed to rewind alarm playback", zap.Error(err))
		}
	}
}

// NotifyInteraction reports a user gesture. If a playback denial left a
// retry pending, the retry fires immediately instead of waiting out its
// delay; the hook is consumed by the first gesture after a denial and
// re-arms only on a subsequent denial.
func (a *Alarm) NotifyInteraction() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.unlockArmed {
		return
	}
	a.unlockArmed = false

	if a.retryTimer != nil {
		a.retryTimer.Stop()
		a.retryTimer = nil
		a.attemptLocked(a.generation)
	}
}

// Phase returns the current alarm phase.
func (a *Alarm) Phase() alerting.AlarmPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// RetryCount returns how many retries the current Start cycle has used.
func (a *Alarm) RetryCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.retryCount
}
