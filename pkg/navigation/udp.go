package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gwillem/navrobot/pkg/robot"
)

// UDPConfig controls the navigation input socket.
type UDPConfig struct {
	Addr       string        `json:"addr" yaml:"addr"`
	ReadBuffer int           `json:"read_buffer" yaml:"read_buffer"`
	MaxAge     time.Duration `json:"max_age" yaml:"max_age"` // zero accepts estimates of any age
}

// UDPSource receives estimates as CSV datagrams:
//
//	[t,] dx,dy,dz,drx,dry,drz, tx,ty,tz,trx,try,trz
//
// The first six values are the displacement to the target, the next six the
// target pose estimated from that displacement. t is an optional sender
// timestamp in seconds and is ignored.
type UDPSource struct {
	conn   *net.UDPConn
	maxAge time.Duration
	logger *slog.Logger

	mu   sync.RWMutex
	last Estimate
	seq  uint64
}

// ListenUDP starts receiving estimates until ctx is done or Close is called.
func ListenUDP(ctx context.Context, cfg UDPConfig, logger *slog.Logger) (*UDPSource, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.Addr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	bufSize := cfg.ReadBuffer
	if bufSize <= 0 {
		bufSize = 2048
	}

	s := &UDPSource{conn: conn, maxAge: cfg.MaxAge, logger: logger}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go s.readLoop(bufSize)
	return s, nil
}

// Addr returns the local address of the socket.
func (s *UDPSource) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Close stops the receiver.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}

// Seq returns the number of estimates received.
func (s *UDPSource) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Latest returns the most recent estimate. ok is false before the first
// datagram and when the estimate is older than MaxAge.
func (s *UDPSource) Latest(ctx context.Context) (Estimate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.seq == 0 {
		return Estimate{}, false
	}
	if s.maxAge > 0 && time.Since(s.last.Time) > s.maxAge {
		return Estimate{}, false
	}
	return s.last, true
}

func (s *UDPSource) readLoop(bufSize int) {
	buf := make([]byte, bufSize)
	for {
		n, _, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		est, err := ParseEstimate(buf[:n])
		if err != nil {
			s.logger.Debug("dropping navigation packet", slog.Any("error", err))
			continue
		}
		est.Time = time.Now()

		s.mu.Lock()
		s.last = est
		s.seq++
		s.mu.Unlock()
	}
}

// ParseEstimate parses one CSV datagram.
func ParseEstimate(b []byte) (Estimate, error) {
	str := strings.TrimSpace(string(b))
	if str == "" {
		return Estimate{}, errors.New("empty payload")
	}

	parts := strings.Split(str, ",")
	if len(parts) != 12 && len(parts) != 13 {
		return Estimate{}, fmt.Errorf("expected 12 or 13 fields, got %d", len(parts))
	}
	if len(parts) == 13 {
		parts = parts[1:]
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Estimate{}, fmt.Errorf("field %d: %w", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Estimate{}, fmt.Errorf("field %d: non-finite value %q", i, strings.TrimSpace(p))
		}
		values[i] = v
	}

	var est Estimate
	copy(est.Displacement[:], values[:6])
	copy(est.TargetFromDisplacement[:], values[6:])
	est.TargetFromHeadPose = est.TargetFromDisplacement
	est.RobotPose = est.TargetFromDisplacement.Add(negate(est.Displacement))
	return est, nil
}

// FormatEstimate encodes an estimate in the format read by ParseEstimate.
func FormatEstimate(est Estimate) []byte {
	fields := make([]string, 0, 12)
	for _, v := range est.Displacement {
		fields = append(fields, strconv.FormatFloat(v, 'f', -1, 64))
	}
	for _, v := range est.TargetFromDisplacement {
		fields = append(fields, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return []byte(strings.Join(fields, ","))
}

func negate(d robot.Displacement) robot.Displacement {
	for i := range d {
		d[i] = -d[i]
	}
	return d
}
