package algorithm

import "fmt"

// MotionSequenceState is the step of the gross repositioning sequence.
// States are totally ordered in declaration order.
type MotionSequenceState int

const (
	NotInitiated MotionSequenceState = iota
	MoveUpward
	MoveAndRotateInXYPlane
	MoveDownward
	Finished
)

// Next returns the state following s. Finished is its own successor.
func Next(s MotionSequenceState) MotionSequenceState {
	if s >= Finished {
		return Finished
	}
	if s < NotInitiated {
		return NotInitiated
	}
	return s + 1
}

func (s MotionSequenceState) String() string {
	switch s {
	case NotInitiated:
		return "NOT_INITIATED"
	case MoveUpward:
		return "MOVE_UPWARD"
	case MoveAndRotateInXYPlane:
		return "MOVE_AND_ROTATE_IN_XY_PLANE"
	case MoveDownward:
		return "MOVE_DOWNWARD"
	case Finished:
		return "FINISHED"
	default:
		return fmt.Sprintf("MotionSequenceState(%d)", int(s))
	}
}
