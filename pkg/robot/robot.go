package robot

import (
	"context"
	"errors"
)

var (
	// ErrPoseUnavailable is returned when the driver cannot report a pose.
	ErrPoseUnavailable = errors.New("pose not available")
	// ErrStatusUnavailable is returned when the driver cannot tell whether
	// it is moving or in an error state.
	ErrStatusUnavailable = errors.New("status not available")
	// ErrNotConnected is returned by commands issued before Connect.
	ErrNotConnected = errors.New("robot not connected")
	// ErrNotImplemented is returned by drivers lacking an optional capability.
	ErrNotImplemented = errors.New("not implemented")
)

//go:generate mockgen -package=algorithm -destination=../algorithm/mock_mover_test.go github.com/gwillem/navrobot/pkg/robot Mover

// Mover is the part of a robot driver needed to guide the end-effector.
// A nil error means the command was accepted.
type Mover interface {
	// Pose returns the current pose in the base frame, or ErrPoseUnavailable.
	Pose(ctx context.Context) (Pose, error)

	// MoveLinear moves in a straight line to an absolute pose in the base
	// frame. A move already in progress is preempted.
	MoveLinear(ctx context.Context, target Pose) error

	// MoveLinearRelativeToToolOnSingleAxis moves distance along (or about)
	// one axis of the tool frame.
	MoveLinearRelativeToToolOnSingleAxis(ctx context.Context, axis Axis, dir Direction, distance float64) error
}

// Monitor reports connectivity for a control loop to gate on.
type Monitor interface {
	IsConnected(ctx context.Context) bool
}

// Robot is the full driver contract.
type Robot interface {
	Mover
	Monitor

	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Initialize(ctx context.Context) error

	// IsMoving and IsErrorState return ErrStatusUnavailable when unknown.
	IsMoving(ctx context.Context) (bool, error)
	IsErrorState(ctx context.Context) (bool, error)

	ReadForceSensor(ctx context.Context) ([]float64, error)

	// MoveCircular moves through waypoint to target on a circular arc.
	// speedRatio is a fraction of maximum speed in (0, 1].
	MoveCircular(ctx context.Context, start, waypoint, target Pose, speedRatio float64) error

	StopRobot(ctx context.Context) error
	Close() error
}
