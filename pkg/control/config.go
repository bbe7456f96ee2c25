package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gwillem/navrobot/pkg/algorithm"
	"github.com/gwillem/navrobot/pkg/navigation"
	"github.com/gwillem/navrobot/pkg/robot"
)

// DefaultConfigFile is the config path used by the CLI when none is given.
const DefaultConfigFile = "navrobot.json"

// Config holds the application configuration.
type Config struct {
	Hz          float64          `json:"hz" yaml:"hz"`
	MetricsAddr string           `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	Algorithm   algorithm.Config `json:"algorithm" yaml:"algorithm"`

	// Sim and Target configure the simulated robot and navigation target.
	Sim    robot.SimConfig `json:"sim" yaml:"sim"`
	Target robot.Pose      `json:"target" yaml:"target"`

	// Navigation is used instead of the simulated target when Addr is set.
	Navigation navigation.UDPConfig `json:"navigation" yaml:"navigation"`

	// ServoBus, when set, gates every tick on the tool servos responding.
	ServoBus *robot.ServoBusConfig `json:"servo_bus,omitempty" yaml:"servo_bus,omitempty"`
}

// DefaultConfig returns a configuration for the simulator.
func DefaultConfig() Config {
	return Config{
		Hz:        10,
		Algorithm: algorithm.DefaultConfig(),
		Sim: robot.SimConfig{
			InitialPose: robot.Pose{300, 0, 250, 0, 0, 0},
			MinZ:        50,
			MaxZ:        600,
		},
		Target: robot.Pose{380, 60, 180, 0, 0, 15},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Hz <= 0 {
		errs = append(errs, fmt.Errorf("hz must be > 0, got %v", c.Hz))
	}
	if err := c.Algorithm.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("algorithm: %w", err))
	}
	if c.Sim.MaxZ != 0 && c.Algorithm.UpwardMovementTargetZ > c.Sim.MaxZ {
		errs = append(errs, fmt.Errorf("upward_movement_target_z %.1f above sim max_z %.1f",
			c.Algorithm.UpwardMovementTargetZ, c.Sim.MaxZ))
	}
	return errors.Join(errs...)
}

// LoadConfigFrom loads configuration from a JSON or YAML file. Fields missing
// from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
