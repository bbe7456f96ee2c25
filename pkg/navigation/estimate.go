// Package navigation supplies target-pose estimates to the control loop.
package navigation

import (
	"context"
	"time"

	"github.com/gwillem/navrobot/pkg/robot"
)

// Estimate is one navigation update, expressed in the robot base frame.
type Estimate struct {
	Time time.Time

	// Displacement is the residual offset from the effective robot pose to
	// the target.
	Displacement robot.Displacement

	// TargetFromHeadPose and TargetFromDisplacement are two estimates of the
	// target pose. The latter is treated as authoritative.
	TargetFromHeadPose     robot.Pose
	TargetFromDisplacement robot.Pose

	RobotPose  robot.Pose
	HeadCenter [3]float64
}

// Source provides the latest estimate. ok is false when no usable estimate
// is available.
type Source interface {
	Latest(ctx context.Context) (est Estimate, ok bool)
}
