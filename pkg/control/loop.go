// Package control runs the guidance algorithm at a fixed rate.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gwillem/navrobot/pkg/algorithm"
	"github.com/gwillem/navrobot/pkg/navigation"
	"github.com/gwillem/navrobot/pkg/robot"
)

// Reasons a tick is skipped.
const (
	SkipDisconnected = "disconnected"
	SkipNoEstimate   = "no_estimate"
)

// Tick is the outcome of one control cycle.
type Tick struct {
	Time     time.Time
	Estimate navigation.Estimate
	Decision algorithm.Decision
	// Skipped is set when the algorithm was not run.
	Skipped string
}

// LoopConfig holds configuration for the loop.
type LoopConfig struct {
	Hz float64
	// Monitor, if set, must report connected for a tick to run.
	Monitor robot.Monitor
	Logger  *slog.Logger
}

// Loop owns a guidance session and calls it once per tick.
type Loop struct {
	session *algorithm.DirectlyUpward
	source  navigation.Source
	monitor robot.Monitor
	hz      float64
	logger  *slog.Logger

	mu      sync.Mutex
	running bool

	cancelReq atomic.Bool
	tickCh    chan Tick
}

// NewLoop creates a loop. The session must not be used by anything else.
func NewLoop(session *algorithm.DirectlyUpward, source navigation.Source, cfg LoopConfig) *Loop {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		session: session,
		source:  source,
		monitor: cfg.Monitor,
		hz:      cfg.Hz,
		logger:  logger,
		tickCh:  make(chan Tick, 1),
	}
}

// Ticks returns a channel that receives the latest tick. Older ticks are
// dropped when the reader falls behind.
func (l *Loop) Ticks() <-chan Tick {
	return l.tickCh
}

// Hz returns the control frequency.
func (l *Loop) Hz() float64 {
	return l.hz
}

// Cancel aborts the motion sequence in progress. It is safe to call from any
// goroutine; the reset is applied at the start of the next tick.
func (l *Loop) Cancel() {
	l.cancelReq.Store(true)
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	l.logger.Info("guidance started", slog.Float64("hz", l.hz))

	ticker := time.NewTicker(time.Duration(float64(time.Second) / l.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("guidance stopped", slog.String("state", l.session.State().String()))
			return ctx.Err()
		case <-ticker.C:
			l.sendTick(l.Step(ctx))
		}
	}
}

// Step runs a single control cycle.
func (l *Loop) Step(ctx context.Context) Tick {
	now := time.Now()

	if l.cancelReq.Swap(false) {
		l.logger.Info("motion sequence cancelled", slog.String("state", l.session.State().String()))
		l.session.Reset()
	}

	if l.monitor != nil && !l.monitor.IsConnected(ctx) {
		recordSkip(SkipDisconnected)
		l.logger.Warn("robot not connected, skipping tick")
		return Tick{Time: now, Skipped: SkipDisconnected}
	}

	est, ok := l.source.Latest(ctx)
	if !ok {
		recordSkip(SkipNoEstimate)
		l.logger.Debug("no navigation estimate, skipping tick")
		return Tick{Time: now, Skipped: SkipNoEstimate}
	}

	dec := l.session.MoveDecision(ctx, est)
	recordDecision(dec)
	if dec.Action != algorithm.ActionNone {
		l.logger.Info("decision",
			slog.String("action", string(dec.Action)),
			slog.Bool("success", dec.Success),
			slog.String("state", dec.State.String()),
		)
	}

	return Tick{Time: now, Estimate: est, Decision: dec}
}

func (l *Loop) sendTick(t Tick) {
	select {
	case l.tickCh <- t:
	default:
		// Drop old tick if channel full, replace with new
		select {
		case <-l.tickCh:
		default:
		}
		l.tickCh <- t
	}
}
