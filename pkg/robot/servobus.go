package robot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
)

const defaultBaudRate = 1_000_000

// ServoBusConfig describes the servo bus of the end-effector tooling.
type ServoBusConfig struct {
	Port     string `json:"port" yaml:"port"`
	BaudRate int    `json:"baud_rate,omitempty" yaml:"baud_rate,omitempty"`
	IDs      []int  `json:"ids" yaml:"ids"`
}

// ServoBus watches a Feetech servo bus. A control loop uses it as a Monitor:
// the bus counts as connected while every configured servo answers a scan.
type ServoBus struct {
	cfg    ServoBusConfig
	bus    *feetech.Bus
	minID  int
	maxID  int
	servos map[int]*feetech.Servo
}

// OpenServoBus opens the serial bus described by cfg.
func OpenServoBus(cfg ServoBusConfig) (*ServoBus, error) {
	if len(cfg.IDs) == 0 {
		return nil, fmt.Errorf("open servo bus %s: no servo ids configured", cfg.Port)
	}
	baud := cfg.BaudRate
	if baud <= 0 {
		baud = defaultBaudRate
	}
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	sb := &ServoBus{cfg: cfg, bus: bus, minID: cfg.IDs[0], maxID: cfg.IDs[0], servos: make(map[int]*feetech.Servo)}
	for _, id := range cfg.IDs {
		sb.minID = min(sb.minID, id)
		sb.maxID = max(sb.maxID, id)
	}
	return sb, nil
}

// Close closes the bus connection.
func (b *ServoBus) Close() error {
	return b.bus.Close()
}

// IsConnected reports whether all configured servos respond.
func (b *ServoBus) IsConnected(ctx context.Context) bool {
	found, err := b.bus.Scan(ctx, b.minID, b.maxID)
	if err != nil {
		return false
	}
	seen := make(map[int]bool, len(found))
	for _, s := range found {
		seen[s.ID] = true
		if _, ok := b.servos[s.ID]; !ok {
			b.servos[s.ID] = feetech.NewServo(b.bus, s.ID, s.Model)
		}
	}
	for _, id := range b.cfg.IDs {
		if !seen[id] {
			return false
		}
	}
	return true
}

// Positions reads the raw position of every servo seen by the last scan.
func (b *ServoBus) Positions(ctx context.Context) (map[int]int, error) {
	positions := make(map[int]int, len(b.servos))
	for id, servo := range b.servos {
		pos, err := servo.Position(ctx)
		if err != nil {
			return nil, fmt.Errorf("read servo %d: %w", id, err)
		}
		positions[id] = pos
	}
	return positions, nil
}

// PortInfo describes a serial port that answered a servo scan.
type PortInfo struct {
	Port   string
	Servos []feetech.FoundServo
}

// ScanPorts probes every serial port for servos with IDs in [minID, maxID].
func ScanPorts(minID, maxID int) ([]PortInfo, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}

	var found []PortInfo
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: defaultBaudRate,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		servos, err := bus.Scan(ctx, minID, maxID)
		cancel()
		bus.Close()

		if err != nil || len(servos) == 0 {
			continue
		}
		found = append(found, PortInfo{Port: port, Servos: servos})
	}
	return found, nil
}
