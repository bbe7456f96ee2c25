package algorithm

import (
	"errors"
	"fmt"

	"github.com/gwillem/navrobot/pkg/robot"
)

// Config holds the thresholds of the directly-upward algorithm.
type Config struct {
	// TranslationThreshold (mm) and RotationThreshold (degrees) bound the
	// displacement handled by tuning; anything larger starts a gross sequence.
	TranslationThreshold float64 `json:"translation_threshold" yaml:"translation_threshold"`
	RotationThreshold    float64 `json:"rotation_threshold" yaml:"rotation_threshold"`

	// UpwardMovementTargetZ is the safe height (mm from the robot base) used
	// while moving horizontally.
	UpwardMovementTargetZ float64 `json:"upward_movement_target_z" yaml:"upward_movement_target_z"`

	// DistanceAngleThreshold is the per-axis tuning deadband, in mm for
	// translations and degrees for rotations.
	DistanceAngleThreshold float64 `json:"distance_angle_threshold" yaml:"distance_angle_threshold"`

	// OrderedAxes is the tuning priority. Rotations come first because that
	// is the order the navigation system reports the displacement in.
	OrderedAxes []robot.Axis `json:"ordered_axes" yaml:"ordered_axes"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		TranslationThreshold:   10.0,
		RotationThreshold:      5.0,
		UpwardMovementTargetZ:  480.0,
		DistanceAngleThreshold: 1.0,
		OrderedAxes:            []robot.Axis{robot.RX, robot.RY, robot.RZ, robot.X, robot.Y, robot.Z},
	}
}

// Validate checks that thresholds are positive and that OrderedAxes names
// every axis exactly once.
func (c Config) Validate() error {
	var errs []error
	if c.TranslationThreshold <= 0 {
		errs = append(errs, fmt.Errorf("translation_threshold must be > 0, got %v", c.TranslationThreshold))
	}
	if c.RotationThreshold <= 0 {
		errs = append(errs, fmt.Errorf("rotation_threshold must be > 0, got %v", c.RotationThreshold))
	}
	if c.DistanceAngleThreshold <= 0 {
		errs = append(errs, fmt.Errorf("distance_angle_threshold must be > 0, got %v", c.DistanceAngleThreshold))
	}
	if c.UpwardMovementTargetZ <= 0 {
		errs = append(errs, fmt.Errorf("upward_movement_target_z must be > 0, got %v", c.UpwardMovementTargetZ))
	}

	seen := make(map[robot.Axis]bool, len(c.OrderedAxes))
	for _, a := range c.OrderedAxes {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("ordered_axes: invalid axis %d", int(a)))
			continue
		}
		if seen[a] {
			errs = append(errs, fmt.Errorf("ordered_axes: duplicate axis %s", a))
		}
		seen[a] = true
	}
	if len(seen) != len(robot.AllAxes()) {
		errs = append(errs, fmt.Errorf("ordered_axes: want all %d axes, got %d", len(robot.AllAxes()), len(seen)))
	}
	return errors.Join(errs...)
}
