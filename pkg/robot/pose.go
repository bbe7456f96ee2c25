package robot

import (
	"fmt"
	"math"
)

// Pose is an end-effector pose [x, y, z, rx, ry, rz] in the robot base frame.
// Translations are in millimeters, rotations in degrees.
type Pose [6]float64

// Displacement is the residual offset from the current pose to a target,
// using the same layout as Pose.
type Displacement [6]float64

// At returns the component along axis a.
func (p Pose) At(a Axis) float64 {
	return p[a.Index()]
}

// WithZ returns a copy of the pose with its Z component replaced.
func (p Pose) WithZ(z float64) Pose {
	p[Z.Index()] = z
	return p
}

// Sub returns the component-wise difference p - q.
func (p Pose) Sub(q Pose) Displacement {
	var d Displacement
	for i := range p {
		d[i] = p[i] - q[i]
	}
	return d
}

// Add returns the pose offset by d.
func (p Pose) Add(d Displacement) Pose {
	for i := range p {
		p[i] += d[i]
	}
	return p
}

func (p Pose) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f | %.2f %.2f %.2f]", p[0], p[1], p[2], p[3], p[4], p[5])
}

// At returns the component along axis a.
func (d Displacement) At(a Axis) float64 {
	return d[a.Index()]
}

// MaxTranslation returns the largest absolute translation component.
func (d Displacement) MaxTranslation() float64 {
	return math.Max(math.Abs(d[0]), math.Max(math.Abs(d[1]), math.Abs(d[2])))
}

// MaxRotation returns the largest absolute rotation component.
func (d Displacement) MaxRotation() float64 {
	return math.Max(math.Abs(d[3]), math.Max(math.Abs(d[4]), math.Abs(d[5])))
}

func (d Displacement) String() string {
	return Pose(d).String()
}
