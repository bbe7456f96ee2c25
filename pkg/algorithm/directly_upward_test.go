package algorithm

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gwillem/navrobot/pkg/navigation"
	"github.com/gwillem/navrobot/pkg/robot"
)

func TestNext(t *testing.T) {
	tests := []struct {
		in   MotionSequenceState
		want MotionSequenceState
	}{
		{NotInitiated, MoveUpward},
		{MoveUpward, MoveAndRotateInXYPlane},
		{MoveAndRotateInXYPlane, MoveDownward},
		{MoveDownward, Finished},
		{Finished, Finished},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Next(tt.in), "Next(%s)", tt.in)
	}
}

func TestNext_SaturatesAtFinished(t *testing.T) {
	s := NotInitiated
	prev := s
	for i := 0; i < 10; i++ {
		s = Next(s)
		assert.GreaterOrEqual(t, int(s), int(prev))
		prev = s
	}
	assert.Equal(t, Finished, s)
}

func TestMotionSequenceState_String(t *testing.T) {
	assert.Equal(t, "MOVE_AND_ROTATE_IN_XY_PLANE", MoveAndRotateInXYPlane.String())
	assert.Equal(t, "MotionSequenceState(9)", MotionSequenceState(9).String())
}

func newSession(t *testing.T) (*DirectlyUpward, *MockMover) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mover := NewMockMover(ctrl)
	return New(mover, DefaultConfig()), mover
}

func TestMoveDecision_SmallDisplacementStaysInTuning(t *testing.T) {
	tests := []struct {
		name     string
		disp     robot.Displacement
		wantMove bool
		axis     robot.Axis
		dir      robot.Direction
		distance float64
	}{
		{name: "zero", disp: robot.Displacement{0, 0, 0, 0, 0, 0}},
		{name: "at thresholds", disp: robot.Displacement{10, -10, 10, 5, -5, 5}, wantMove: true, axis: robot.RX, dir: robot.Positive, distance: 5},
		{name: "inside deadband", disp: robot.Displacement{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}},
		{name: "rz before x", disp: robot.Displacement{-9.99, 3, 0, 0, 0, -4.9}, wantMove: true, axis: robot.RZ, dir: robot.Negative, distance: 4.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mover := newSession(t)
			if tt.wantMove {
				mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), tt.axis, tt.dir, tt.distance).Return(nil)
			}

			dec := d.MoveDecision(context.Background(), navigation.Estimate{Displacement: tt.disp})

			assert.Equal(t, NotInitiated, d.State())
			assert.False(t, dec.NormalizeForceSensor)
			if tt.wantMove {
				assert.Equal(t, ActionTune, dec.Action)
				assert.Equal(t, tt.axis, dec.Axis)
				assert.True(t, dec.Success)
			} else {
				assert.Equal(t, ActionNone, dec.Action)
			}
		})
	}
}

func TestMoveDecision_InitiatesSequenceAndMovesUpward(t *testing.T) {
	d, mover := newSession(t)
	current := robot.Pose{100, 200, 300, 10, 20, 30}

	gomock.InOrder(
		mover.EXPECT().Pose(gomock.Any()).Return(current, nil),
		mover.EXPECT().MoveLinear(gomock.Any(), robot.Pose{100, 200, 480, 10, 20, 30}).Return(nil),
	)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{15, 0, 0, 0, 0, 0},
	})

	assert.True(t, dec.Success)
	assert.Equal(t, ActionMoveUpward, dec.Action)
	assert.Equal(t, MoveAndRotateInXYPlane, d.State())
	assert.Equal(t, MoveAndRotateInXYPlane, dec.State)
}

func TestMoveDecision_RotationAboveThresholdInitiatesSequence(t *testing.T) {
	d, mover := newSession(t)
	mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{}, nil)
	mover.EXPECT().MoveLinear(gomock.Any(), robot.Pose{0, 0, 480, 0, 0, 0}).Return(nil)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{0, 0, 0, 0, -5.01, 0},
	})

	assert.Equal(t, ActionMoveUpward, dec.Action)
}

func TestMoveDecision_FullSequence(t *testing.T) {
	d, mover := newSession(t)
	target := robot.Pose{50, 60, 120, 1, 2, 3}
	est := navigation.Estimate{
		Displacement:           robot.Displacement{0, 0, -40, 0, 0, 0},
		TargetFromDisplacement: target,
	}

	gomock.InOrder(
		mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{0, 0, 160, 0, 0, 0}, nil),
		mover.EXPECT().MoveLinear(gomock.Any(), robot.Pose{0, 0, 480, 0, 0, 0}).Return(nil),
		mover.EXPECT().MoveLinear(gomock.Any(), robot.Pose{50, 60, 480, 1, 2, 3}).Return(nil),
		mover.EXPECT().MoveLinear(gomock.Any(), target).Return(nil),
	)

	ctx := context.Background()
	var actions []Action
	var states []MotionSequenceState
	for i := 0; i < 3; i++ {
		dec := d.MoveDecision(ctx, est)
		require.True(t, dec.Success)
		actions = append(actions, dec.Action)
		states = append(states, dec.State)
	}

	assert.Equal(t, []Action{ActionMoveUpward, ActionMoveAndRotateInXY, ActionMoveDownward}, actions)
	// Finished is consumed by the reset in the same call.
	assert.Equal(t, []MotionSequenceState{MoveAndRotateInXYPlane, MoveDownward, NotInitiated}, states)
	assert.Equal(t, robot.Pose{50, 60, 120, 1, 2, 3}, target, "target must not be mutated")
}

func TestMoveDecision_NewSequenceAfterCompletion(t *testing.T) {
	d, mover := newSession(t)
	far := navigation.Estimate{Displacement: robot.Displacement{0, 30, 0, 0, 0, 0}}

	mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{}, nil).Times(2)
	mover.EXPECT().MoveLinear(gomock.Any(), gomock.Any()).Return(nil).Times(4)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d.MoveDecision(ctx, far)
	}
	require.Equal(t, NotInitiated, d.State())

	dec := d.MoveDecision(ctx, far)
	assert.Equal(t, ActionMoveUpward, dec.Action)
}

func TestMoveDecision_FailedMoveStillAdvances(t *testing.T) {
	d, mover := newSession(t)
	moveErr := errors.New("rejected")

	mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{}, nil)
	mover.EXPECT().MoveLinear(gomock.Any(), gomock.Any()).Return(moveErr)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{20, 0, 0, 0, 0, 0},
	})

	assert.False(t, dec.Success)
	assert.ErrorIs(t, dec.Err, moveErr)
	assert.Equal(t, MoveAndRotateInXYPlane, d.State())
}

func TestMoveDecision_PoseUnavailableSkipsMove(t *testing.T) {
	d, mover := newSession(t)
	mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{}, robot.ErrPoseUnavailable)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{20, 0, 0, 0, 0, 0},
	})

	assert.False(t, dec.Success)
	assert.ErrorIs(t, dec.Err, robot.ErrPoseUnavailable)
	assert.Equal(t, MoveAndRotateInXYPlane, d.State())
}

func TestMoveDecision_ResetAbortsSequence(t *testing.T) {
	d, mover := newSession(t)
	mover.EXPECT().Pose(gomock.Any()).Return(robot.Pose{}, nil)
	mover.EXPECT().MoveLinear(gomock.Any(), gomock.Any()).Return(nil)
	mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), robot.Z, robot.Negative, 2.0).Return(nil)

	ctx := context.Background()
	d.MoveDecision(ctx, navigation.Estimate{Displacement: robot.Displacement{20, 0, 0, 0, 0, 0}})
	require.Equal(t, MoveAndRotateInXYPlane, d.State())

	d.Reset()
	dec := d.MoveDecision(ctx, navigation.Estimate{Displacement: robot.Displacement{0, 0, -2, 0, 0, 0}})

	assert.Equal(t, ActionTune, dec.Action)
	assert.Equal(t, NotInitiated, d.State())
}

func TestTune_SelectsRotationFirst(t *testing.T) {
	d, mover := newSession(t)
	mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), robot.RX, robot.Positive, 2.0).Return(nil).Times(1)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{0.5, 0.5, 0.5, 2.0, 0.5, 0.5},
	})

	assert.True(t, dec.Success)
	assert.Equal(t, ActionTune, dec.Action)
	assert.Equal(t, robot.RX, dec.Axis)
	assert.Equal(t, robot.Positive, dec.Direction)
	assert.Equal(t, 2.0, dec.Distance)
}

func TestTune_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		disp robot.Displacement
		axis robot.Axis
		dir  robot.Direction
		dist float64
	}{
		{"rz before x", robot.Displacement{8, 0, 0, 0, 0, -3}, robot.RZ, robot.Negative, 3},
		{"ry before rz", robot.Displacement{0, 0, 0, 0, 1.5, 4}, robot.RY, robot.Positive, 1.5},
		{"translation when rotations settled", robot.Displacement{0, -7, 9, 1, -1, 0}, robot.Y, robot.Negative, 7},
		{"z last", robot.Displacement{1, 1, 4, 0, 0, 0}, robot.Z, robot.Positive, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mover := newSession(t)
			mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), tt.axis, tt.dir, tt.dist).Return(nil)

			dec := d.MoveDecision(context.Background(), navigation.Estimate{Displacement: tt.disp})
			assert.Equal(t, tt.axis, dec.Axis)
		})
	}
}

func TestTune_WithinToleranceIssuesNoCommand(t *testing.T) {
	d, _ := newSession(t)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{1.0, -1.0, 0.3, -0.2, 1.0, 0},
	})

	assert.False(t, dec.Success)
	assert.NoError(t, dec.Err)
	assert.Equal(t, ActionNone, dec.Action)
	assert.False(t, dec.NormalizeForceSensor)
}

func TestTune_NonFiniteComponentsIssueNoCommand(t *testing.T) {
	nan := math.NaN()
	displacements := []robot.Displacement{
		{0, 0, 0, nan, 0, 0},
		{nan, 0, 0, 0, 0, 0},
		{0, 0, nan, 0, nan, 0},
		{0, 0, 0, 0, 0, nan},
	}

	for _, disp := range displacements {
		d, _ := newSession(t)

		dec := d.MoveDecision(context.Background(), navigation.Estimate{Displacement: disp})

		assert.Equal(t, ActionNone, dec.Action, "displacement %v", disp)
		assert.False(t, dec.Success)
		assert.Equal(t, NotInitiated, d.State())
	}
}

func TestTune_FailedMoveReported(t *testing.T) {
	d, mover := newSession(t)
	mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), robot.X, robot.Positive, 3.0).Return(robot.ErrNotConnected)

	dec := d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{3, 0, 0, 0, 0, 0},
	})

	assert.False(t, dec.Success)
	assert.ErrorIs(t, dec.Err, robot.ErrNotConnected)
}

func TestTune_CustomAxisOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	mover := NewMockMover(ctrl)
	cfg := DefaultConfig()
	cfg.OrderedAxes = []robot.Axis{robot.X, robot.Y, robot.Z, robot.RX, robot.RY, robot.RZ}
	d := New(mover, cfg)

	mover.EXPECT().MoveLinearRelativeToToolOnSingleAxis(gomock.Any(), robot.X, robot.Negative, 2.5).Return(nil)

	d.MoveDecision(context.Background(), navigation.Estimate{
		Displacement: robot.Displacement{-2.5, 0, 0, 3, 0, 0},
	})
}
