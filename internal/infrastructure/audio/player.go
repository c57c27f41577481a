// Package audio owns the process-wide order alarm: one playable resource
// with idempotent start/stop, bounded retries when the platform refuses
// playback, and an unlock hook for the first user interaction.
package audio

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/sellerdesk/panel/internal/domain/alerting"
)

// Player abstracts the platform playback device. Play begins looping
// playback from the current position; Pause halts it; Rewind resets the
// position to the start so the next Play is audible from the top.
//
// Play may fail with alerting.ErrPlaybackDenied when the platform
// requires a prior user gesture; the alarm retries such failures.
type Player interface {
	// Prepare creates the underlying playback resource. Idempotent.
	Prepare() error
	Play() error
	Pause() error
	Rewind() error
}

// ExecPlayer plays the alarm sound by looping an external player
// command. No audio library is linked into the panel; the host supplies
// a command line player (paplay, aplay, afplay, ...) via configuration.
type ExecPlayer struct {
	command   string
	args      []string
	soundPath string

	mu       sync.Mutex
	prepared bool
	stop     chan struct{}
	done     chan struct{}
}

// NewExecPlayer creates a player that loops `command args... soundPath`.
func NewExecPlayer(command string, args []string, soundPath string) *ExecPlayer {
	return &ExecPlayer{
		command:   command,
		args:      args,
		soundPath: soundPath,
	}
}

// Prepare verifies the player binary and the sound asset exist. Failing
// either maps to ErrResourceUnavailable so the caller can retry once the
// environment is fixed.
func (p *ExecPlayer) Prepare() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.prepared {
		return nil
	}
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("%w: player command %q not found", alerting.ErrResourceUnavailable, p.command)
	}
	if _, err := os.Stat(p.soundPath); err != nil {
		return fmt.Errorf("%w: sound asset %q: %v", alerting.ErrResourceUnavailable, p.soundPath, err)
	}
	p.prepared = true
	return nil
}

// Play starts the loop goroutine. The player process is restarted each
// time the asset finishes, which also means playback always resumes from
// the top after a Pause/Play cycle.
func (p *ExecPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prepared {
		return fmt.Errorf("%w: player not prepared", alerting.ErrResourceUnavailable)
	}
	if p.stop != nil {
		return nil // already playing
	}

	// Probe once synchronously so a denied device surfaces as an error
	// instead of a silently failing loop.
	probe := exec.Command(p.command, append(append([]string{}, p.args...), p.soundPath)...)
	if err := probe.Start(); err != nil {
		return fmt.Errorf("%w: %v", alerting.ErrPlaybackDenied, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	p.stop = stop
	p.done = done

	go p.loop(probe, stop, done)
	return nil
}

// loop keeps the player process running until stop is closed.
func (p *ExecPlayer) loop(current *exec.Cmd, stop, done chan struct{}) {
	defer close(done)
	for {
		waitErr := make(chan error, 1)
		go func() { waitErr <- current.Wait() }()

		select {
		case <-stop:
			_ = current.Process.Kill()
			<-waitErr
			return
		case <-waitErr:
			select {
			case <-stop:
				return
			default:
			}
			next := exec.Command(p.command, append(append([]string{}, p.args...), p.soundPath)...)
			if err := next.Start(); err != nil {
				// Device disappeared mid-loop. Give up quietly; the
				// alarm's visual channel remains.
				return
			}
			current = next
		}
	}
}

// Pause stops the loop and kills the player process.
func (p *ExecPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return nil
	}
	close(p.stop)
	<-p.done
	p.stop = nil
	p.done = nil
	return nil
}

// Rewind is a no-op: each Play spawns a fresh process, which starts the
// asset from the beginning.
func (p *ExecPlayer) Rewind() error {
	return nil
}

// Ensure ExecPlayer implements Player
var _ Player = (*ExecPlayer)(nil)
