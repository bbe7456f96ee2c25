// Package robot provides the robot capability contract and pose types used to
// guide an end-effector toward a navigated target.
package robot

import (
	"fmt"
	"strings"
)

// Axis identifies one of the six degrees of freedom of a pose.
type Axis int

// Axes in pose vector order.
const (
	X Axis = iota
	Y
	Z
	RX
	RY
	RZ
)

// AllAxes returns all axes in pose vector order.
func AllAxes() []Axis {
	return []Axis{X, Y, Z, RX, RY, RZ}
}

// Index returns the position of the axis in a pose or displacement vector.
func (a Axis) Index() int {
	return int(a)
}

// IsRotation reports whether the axis is a rotation (degrees) rather than a
// translation (millimeters).
func (a Axis) IsRotation() bool {
	return a >= RX && a <= RZ
}

// Valid reports whether a names one of the six axes.
func (a Axis) Valid() bool {
	return a >= X && a <= RZ
}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	case RX:
		return "RX"
	case RY:
		return "RY"
	case RZ:
		return "RZ"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts an axis name such as "rx" into an Axis.
func ParseAxis(s string) (Axis, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range AllAxes() {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// MarshalText encodes the axis by name.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText allows axes to be loaded from config by name.
func (a *Axis) UnmarshalText(b []byte) error {
	parsed, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Direction is the sense of a single-axis move.
type Direction int

const (
	Positive Direction = iota
	Negative
)

// DirectionOf returns Negative for negative values and Positive otherwise.
func DirectionOf(v float64) Direction {
	if v < 0 {
		return Negative
	}
	return Positive
}

// Sign returns +1 or -1.
func (d Direction) Sign() float64 {
	if d == Negative {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Negative {
		return "NEGATIVE"
	}
	return "POSITIVE"
}
