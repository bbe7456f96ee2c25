package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gwillem/navrobot/pkg/control"
	"github.com/gwillem/navrobot/pkg/robot"
)

type InitCommand struct {
	Output string `short:"o" long:"output" default:"navrobot.json" description:"Config file to write (.json or .yaml)"`
}

func (c *InitCommand) Execute(args []string) error {
	cfg := control.DefaultConfig()
	if existing, err := control.LoadConfigFrom(c.Output); err == nil {
		cfg = *existing
	}

	hz := formatFloat(cfg.Hz)
	translation := formatFloat(cfg.Algorithm.TranslationThreshold)
	rotation := formatFloat(cfg.Algorithm.RotationThreshold)
	safeZ := formatFloat(cfg.Algorithm.UpwardMovementTargetZ)
	deadband := formatFloat(cfg.Algorithm.DistanceAngleThreshold)
	listen := cfg.Navigation.Addr
	rotationsFirst := len(cfg.Algorithm.OrderedAxes) == 0 || cfg.Algorithm.OrderedAxes[0].IsRotation()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Control rate (Hz)").Value(&hz).Validate(positive),
			huh.NewInput().Title("Translation threshold (mm)").
				Description("Larger displacements use the rise / move / descend sequence").
				Value(&translation).Validate(positive),
			huh.NewInput().Title("Rotation threshold (degrees)").Value(&rotation).Validate(positive),
			huh.NewInput().Title("Safe height (mm from robot base)").Value(&safeZ).Validate(positive),
			huh.NewInput().Title("Tuning deadband (mm or degrees)").Value(&deadband).Validate(positive),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Tune rotations before translations?").
				Affirmative("Rotations first").
				Negative("Translations first").
				Value(&rotationsFirst),
			huh.NewInput().
				Title("Navigation UDP address").
				Description("Leave empty to use the simulated target").
				Placeholder("127.0.0.1:5005").
				Value(&listen),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	cfg.Hz = parseFloat(hz)
	cfg.Algorithm.TranslationThreshold = parseFloat(translation)
	cfg.Algorithm.RotationThreshold = parseFloat(rotation)
	cfg.Algorithm.UpwardMovementTargetZ = parseFloat(safeZ)
	cfg.Algorithm.DistanceAngleThreshold = parseFloat(deadband)
	cfg.Navigation.Addr = strings.TrimSpace(listen)

	rot := []robot.Axis{robot.RX, robot.RY, robot.RZ}
	trans := []robot.Axis{robot.X, robot.Y, robot.Z}
	if rotationsFirst {
		cfg.Algorithm.OrderedAxes = append(rot, trans...)
	} else {
		cfg.Algorithm.OrderedAxes = append(trans, rot...)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.SaveTo(c.Output); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println(successStyle.Render("Configuration saved to " + c.Output))
	fmt.Println("Start the simulator with: " + titleStyle.Render("navrobot simulate"))
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func positive(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
