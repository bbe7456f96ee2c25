package robot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/golang/geo/r3"
)

// SimConfig configures a simulated robot.
type SimConfig struct {
	InitialPose Pose    `json:"initial_pose" yaml:"initial_pose"`
	MinZ        float64 `json:"min_z" yaml:"min_z"`
	MaxZ        float64 `json:"max_z" yaml:"max_z"` // zero disables the workspace check
}

// CommandKind names a motion command received by the simulator.
type CommandKind string

const (
	CommandMoveLinear   CommandKind = "move_linear"
	CommandMoveTool     CommandKind = "move_tool"
	CommandMoveCircular CommandKind = "move_circular"
	CommandStop         CommandKind = "stop"
)

// Command records a motion command and its outcome.
type Command struct {
	Kind      CommandKind
	Target    Pose
	Axis      Axis
	Direction Direction
	Distance  float64
	Err       error
}

// Sim is an in-memory Robot that reaches every accepted target instantly.
type Sim struct {
	cfg SimConfig

	mu        sync.RWMutex
	pose      Pose
	connected bool
	errState  bool
	failNext  int
	commands  []Command
}

// NewSim creates a disconnected simulator at the configured initial pose.
func NewSim(cfg SimConfig) *Sim {
	return &Sim{cfg: cfg, pose: cfg.InitialPose}
}

var errInjected = errors.New("injected failure")

// FailNext makes the next n motion commands fail.
func (s *Sim) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// Commands returns a copy of all motion commands received so far.
func (s *Sim) Commands() []Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	return out
}

// SetPose teleports the simulated end-effector.
func (s *Sim) SetPose(p Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = p
}

func (s *Sim) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *Sim) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *Sim) IsConnected(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Initialize clears the error state.
func (s *Sim) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ErrNotConnected
	}
	s.errState = false
	return nil
}

func (s *Sim) Pose(ctx context.Context) (Pose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return Pose{}, ErrPoseUnavailable
	}
	return s.pose, nil
}

func (s *Sim) IsMoving(ctx context.Context) (bool, error) {
	if !s.IsConnected(ctx) {
		return false, ErrStatusUnavailable
	}
	return false, nil
}

func (s *Sim) IsErrorState(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return false, ErrStatusUnavailable
	}
	return s.errState, nil
}

func (s *Sim) ReadForceSensor(ctx context.Context) ([]float64, error) {
	return nil, ErrNotImplemented
}

func (s *Sim) MoveLinear(ctx context.Context, target Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.apply(target)
	s.commands = append(s.commands, Command{Kind: CommandMoveLinear, Target: target, Err: err})
	return err
}

func (s *Sim) MoveLinearRelativeToToolOnSingleAxis(ctx context.Context, axis Axis, dir Direction, distance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd := Command{Kind: CommandMoveTool, Axis: axis, Direction: dir, Distance: distance}
	if !axis.Valid() {
		cmd.Err = fmt.Errorf("move tool: invalid axis %d", int(axis))
	} else {
		cmd.Target = MoveInToolFrame(s.pose, axis, dir.Sign()*distance)
		cmd.Err = s.apply(cmd.Target)
	}
	s.commands = append(s.commands, cmd)
	return cmd.Err
}

// MoveCircular ends at target; the arc itself is not simulated.
func (s *Sim) MoveCircular(ctx context.Context, start, waypoint, target Pose, speedRatio float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if speedRatio <= 0 || speedRatio > 1 {
		err = fmt.Errorf("move circular: speed ratio %.2f out of range", speedRatio)
	} else {
		err = s.apply(target)
	}
	s.commands = append(s.commands, Command{Kind: CommandMoveCircular, Target: target, Err: err})
	return err
}

func (s *Sim) StopRobot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, Command{Kind: CommandStop, Target: s.pose})
	if !s.connected {
		return ErrNotConnected
	}
	return nil
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// apply validates and reaches target. Caller holds s.mu.
func (s *Sim) apply(target Pose) error {
	if !s.connected {
		return ErrNotConnected
	}
	if s.failNext > 0 {
		s.failNext--
		s.errState = true
		return errInjected
	}
	z := target.At(Z)
	if s.cfg.MaxZ != 0 && (z < s.cfg.MinZ || z > s.cfg.MaxZ) {
		s.errState = true
		return fmt.Errorf("target z %.2f outside workspace [%.2f, %.2f]", z, s.cfg.MinZ, s.cfg.MaxZ)
	}
	s.pose = target
	return nil
}

// rotation is a row-major 3x3 rotation matrix.
type rotation [3]r3.Vector

// MoveInToolFrame returns p moved by amount along (translation axes) or about
// (rotation axes) the given axis of the tool frame. Rotations use the
// extrinsic XYZ convention, R = Rz * Ry * Rx.
func MoveInToolFrame(p Pose, axis Axis, amount float64) Pose {
	r := eulerToRotation(p[3], p[4], p[5])
	if !axis.IsRotation() {
		unit := [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}[axis.Index()]
		delta := r.apply(unit).Mul(amount)
		p[0] += delta.X
		p[1] += delta.Y
		p[2] += delta.Z
		return p
	}
	var local rotation
	switch axis {
	case RX:
		local = rotX(amount)
	case RY:
		local = rotY(amount)
	default:
		local = rotZ(amount)
	}
	p[3], p[4], p[5] = r.mul(local).euler()
	return p
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

func rotX(a float64) rotation {
	c, s := math.Cos(rad(a)), math.Sin(rad(a))
	return rotation{{X: 1}, {Y: c, Z: -s}, {Y: s, Z: c}}
}

func rotY(a float64) rotation {
	c, s := math.Cos(rad(a)), math.Sin(rad(a))
	return rotation{{X: c, Z: s}, {Y: 1}, {X: -s, Z: c}}
}

func rotZ(a float64) rotation {
	c, s := math.Cos(rad(a)), math.Sin(rad(a))
	return rotation{{X: c, Y: -s}, {X: s, Y: c}, {Z: 1}}
}

func eulerToRotation(rx, ry, rz float64) rotation {
	return rotZ(rz).mul(rotY(ry)).mul(rotX(rx))
}

func (m rotation) apply(v r3.Vector) r3.Vector {
	return r3.Vector{X: m[0].Dot(v), Y: m[1].Dot(v), Z: m[2].Dot(v)}
}

func (m rotation) col(i int) r3.Vector {
	switch i {
	case 0:
		return r3.Vector{X: m[0].X, Y: m[1].X, Z: m[2].X}
	case 1:
		return r3.Vector{X: m[0].Y, Y: m[1].Y, Z: m[2].Y}
	default:
		return r3.Vector{X: m[0].Z, Y: m[1].Z, Z: m[2].Z}
	}
}

func (m rotation) mul(n rotation) rotation {
	var out rotation
	for i := range m {
		out[i] = r3.Vector{X: m[i].Dot(n.col(0)), Y: m[i].Dot(n.col(1)), Z: m[i].Dot(n.col(2))}
	}
	return out
}

// euler decomposes m into extrinsic XYZ angles in degrees.
func (m rotation) euler() (rx, ry, rz float64) {
	sy := -m[2].X
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	ry = math.Asin(sy)
	if math.Abs(sy) > 1-1e-9 {
		// gimbal lock: rx folded into rz
		return 0, deg(ry), deg(math.Atan2(-m[0].Y, m[1].Y))
	}
	rx = math.Atan2(m[2].Y, m[2].Z)
	rz = math.Atan2(m[1].X, m[0].X)
	return deg(rx), deg(ry), deg(rz)
}
