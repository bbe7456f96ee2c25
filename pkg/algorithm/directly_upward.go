// Package algorithm decides, once per control tick, which single command to
// send to the robot to reach a navigated target pose.
//
// Large displacements run a three-step sequence that keeps the end-effector
// clear of the subject: rise to a safe height, translate and rotate at that
// height, then descend onto the target. Small displacements are corrected one
// tool axis at a time.
package algorithm

import (
	"context"
	"log/slog"
	"math"

	"github.com/gwillem/navrobot/pkg/navigation"
	"github.com/gwillem/navrobot/pkg/robot"
)

// Action names the command issued by a decision.
type Action string

const (
	ActionNone              Action = "none"
	ActionTune              Action = "tune"
	ActionMoveUpward        Action = "move_upward"
	ActionMoveAndRotateInXY Action = "move_and_rotate_in_xy_plane"
	ActionMoveDownward      Action = "move_downward"
)

// Decision is the outcome of one MoveDecision call.
type Decision struct {
	Success bool

	// NormalizeForceSensor asks the caller to re-zero the force sensor.
	// Always false for now.
	NormalizeForceSensor bool

	Action Action
	// State is the sequence state after the call.
	State MotionSequenceState

	// Target is set for absolute moves; Axis, Direction and Distance for
	// tuning moves.
	Target    robot.Pose
	Axis      robot.Axis
	Direction robot.Direction
	Distance  float64

	// Err is the driver error behind a failed command, if any.
	Err error
}

// DirectlyUpward is a guidance session for one robot.
// It is not safe for concurrent use.
type DirectlyUpward struct {
	robot  robot.Mover
	cfg    Config
	logger *slog.Logger

	state MotionSequenceState
}

// Option configures a DirectlyUpward session.
type Option func(*DirectlyUpward)

// WithLogger sets the logger for branch events.
func WithLogger(l *slog.Logger) Option {
	return func(d *DirectlyUpward) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a session. The robot is not owned by the session.
func New(r robot.Mover, cfg Config, opts ...Option) *DirectlyUpward {
	d := &DirectlyUpward{
		robot:  r,
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// Reset aborts any sequence in progress.
func (d *DirectlyUpward) Reset() {
	d.state = NotInitiated
}

// State returns the current sequence state.
func (d *DirectlyUpward) State() MotionSequenceState {
	return d.state
}

// Config returns the session configuration.
func (d *DirectlyUpward) Config() Config {
	return d.cfg
}

// MoveDecision issues at most one robot command toward the target described
// by est and advances the sequence.
func (d *DirectlyUpward) MoveDecision(ctx context.Context, est navigation.Estimate) Decision {
	if d.state == NotInitiated {
		maxTranslation := est.Displacement.MaxTranslation()
		maxRotation := est.Displacement.MaxRotation()
		d.logger.Debug("displacement",
			slog.Float64("max_translation", maxTranslation),
			slog.Float64("max_rotation", maxRotation),
		)

		if maxTranslation > d.cfg.TranslationThreshold || maxRotation > d.cfg.RotationThreshold {
			d.logger.Info("initiating motion sequence")
			d.state = MoveUpward
		}
	}

	var dec Decision
	if d.state != NotInitiated {
		dec = d.performMotion(ctx, est.TargetFromDisplacement)
	} else {
		dec = d.tune(ctx, est.Displacement)
	}

	if d.state == Finished {
		d.Reset()
	}

	dec.NormalizeForceSensor = false
	dec.State = d.state
	return dec
}

// tune moves along the first axis, in priority order, whose displacement
// exceeds the deadband.
func (d *DirectlyUpward) tune(ctx context.Context, disp robot.Displacement) Decision {
	for _, axis := range d.cfg.OrderedAxes {
		v := disp.At(axis)
		distance := math.Abs(v)
		// NaN never exceeds the deadband.
		if !(distance > d.cfg.DistanceAngleThreshold) {
			continue
		}

		dir := robot.DirectionOf(v)
		d.logger.Debug("tuning",
			slog.String("axis", axis.String()),
			slog.String("direction", dir.String()),
			slog.Float64("distance", distance),
		)
		err := d.robot.MoveLinearRelativeToToolOnSingleAxis(ctx, axis, dir, distance)
		if err != nil {
			d.logger.Warn("tuning move failed", slog.String("axis", axis.String()), slog.Any("error", err))
		}
		return Decision{
			Success:   err == nil,
			Action:    ActionTune,
			Axis:      axis,
			Direction: dir,
			Distance:  distance,
			Err:       err,
		}
	}
	return Decision{Action: ActionNone}
}

// performMotion runs the current sequence step and advances the state
// whether or not the move succeeded.
func (d *DirectlyUpward) performMotion(ctx context.Context, target robot.Pose) Decision {
	dec := Decision{Action: ActionNone}

	switch d.state {
	case MoveUpward:
		dec.Action = ActionMoveUpward
		pose, err := d.robot.Pose(ctx)
		if err != nil {
			dec.Err = err
			d.logger.Warn("moving upward: pose unavailable", slog.Any("error", err))
			break
		}
		dec.Target = pose.WithZ(d.cfg.UpwardMovementTargetZ)
		d.move(ctx, &dec)

	case MoveAndRotateInXYPlane:
		dec.Action = ActionMoveAndRotateInXY
		dec.Target = target.WithZ(d.cfg.UpwardMovementTargetZ)
		d.move(ctx, &dec)

	case MoveDownward:
		dec.Action = ActionMoveDownward
		dec.Target = target
		d.move(ctx, &dec)
	}

	d.state = Next(d.state)
	return dec
}

func (d *DirectlyUpward) move(ctx context.Context, dec *Decision) {
	d.logger.Debug("moving", slog.String("step", string(dec.Action)), slog.String("target", dec.Target.String()))
	dec.Err = d.robot.MoveLinear(ctx, dec.Target)
	dec.Success = dec.Err == nil
	if dec.Err != nil {
		d.logger.Warn("move failed", slog.String("step", string(dec.Action)), slog.Any("error", dec.Err))
	}
}
