package navigation

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gwillem/navrobot/pkg/robot"
)

// PoseReader reports the current robot pose.
type PoseReader interface {
	Pose(ctx context.Context) (robot.Pose, error)
}

// Target is a simulated navigation system tracking a fixed or drifting
// target pose relative to a robot.
type Target struct {
	robot PoseReader

	mu     sync.Mutex
	target robot.Pose
	drift  robot.Displacement
}

// NewTarget creates a simulated target. drift is added to the target pose on
// every Latest call.
func NewTarget(r PoseReader, target robot.Pose, drift robot.Displacement) *Target {
	return &Target{robot: r, target: target, drift: drift}
}

// Set moves the target.
func (t *Target) Set(p robot.Pose) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.target = p
}

// Pose returns the current target pose.
func (t *Target) Pose() robot.Pose {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Latest returns the displacement from the current robot pose to the target.
// ok is false while the robot pose is unavailable.
func (t *Target) Latest(ctx context.Context) (Estimate, bool) {
	current, err := t.robot.Pose(ctx)
	if err != nil {
		return Estimate{}, false
	}

	t.mu.Lock()
	t.target = t.target.Add(t.drift)
	target := t.target
	t.mu.Unlock()

	disp := Displacement(current, target)
	return Estimate{
		Time:                   time.Now(),
		Displacement:           disp,
		TargetFromHeadPose:     target,
		TargetFromDisplacement: current.Add(disp),
		RobotPose:              current,
		HeadCenter:             [3]float64{target[0], target[1], target[2]},
	}, true
}

// Displacement returns target - current with rotation components wrapped
// into (-180, 180].
func Displacement(current, target robot.Pose) robot.Displacement {
	d := target.Sub(current)
	for _, a := range []robot.Axis{robot.RX, robot.RY, robot.RZ} {
		d[a.Index()] = wrapDegrees(d[a.Index()])
	}
	return d
}

func wrapDegrees(v float64) float64 {
	v = math.Mod(v, 360)
	if v > 180 {
		v -= 360
	} else if v <= -180 {
		v += 360
	}
	return v
}
