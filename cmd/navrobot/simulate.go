package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/navrobot/pkg/algorithm"
	"github.com/gwillem/navrobot/pkg/control"
	"github.com/gwillem/navrobot/pkg/navigation"
	"github.com/gwillem/navrobot/pkg/robot"
	"github.com/gwillem/navrobot/pkg/telemetry"
)

type SimulateCommand struct {
	Config      string  `short:"c" long:"config" default:"navrobot.json" description:"Config file (.json or .yaml); defaults are used if it does not exist"`
	Hz          float64 `long:"hz" description:"Override the control loop frequency"`
	Listen      string  `long:"listen" description:"Receive navigation estimates over UDP instead of simulating the target"`
	Drift       float64 `long:"drift" description:"Move the simulated target along X by this many mm per tick"`
	MetricsAddr string  `long:"metrics-addr" description:"Serve Prometheus metrics on this address"`
	LogFile     string  `long:"log-file" description:"Also write logs to this file"`
	Debug       bool    `long:"debug" description:"Log every decision branch"`
}

const (
	headerHeight = 4 // title + status + blank lines
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
	nudgeMM      = 20.0
	nudgeDeg     = 10.0
)

// Displacement component colors
var axisColors = map[robot.Axis]string{
	robot.X:  "196", // red
	robot.Y:  "208", // orange
	robot.Z:  "226", // yellow
	robot.RX: "46",  // green
	robot.RY: "51",  // cyan
	robot.RZ: "201", // magenta
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type simModel struct {
	loop     *control.Loop
	target   *navigation.Target // nil when estimates come from UDP
	logCh    <-chan string
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	quitting bool
	last     control.Tick
	hasTick  bool
}

// Messages from the loop
type tickMsg control.Tick
type logMsg string

func waitForTick(loop *control.Loop) tea.Cmd {
	return func() tea.Msg {
		return tickMsg(<-loop.Ticks())
	}
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ch)
	}
}

func (m *simModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *simModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-footerHeight-borderSize, 10)
	return width, height
}

func newSimModel(loop *control.Loop, target *navigation.Target, logCh <-chan string) simModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-100, 100),
	)
	for _, a := range robot.AllAxes() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[a]))
		chart.SetDataSetStyles(a.String(), runes.ThinLineStyle, style)
	}
	return simModel{loop: loop, target: target, logCh: logCh, chart: &chart}
}

func (m simModel) Init() tea.Cmd {
	return tea.Batch(
		waitForTick(m.loop),
		waitForLog(m.logCh),
	)
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.loop.Cancel()
		case "left":
			m.nudge(robot.X, -nudgeMM)
		case "right":
			m.nudge(robot.X, nudgeMM)
		case "up":
			m.nudge(robot.Y, nudgeMM)
		case "down":
			m.nudge(robot.Y, -nudgeMM)
		case "pgup":
			m.nudge(robot.Z, nudgeMM)
		case "pgdown":
			m.nudge(robot.Z, -nudgeMM)
		case "r":
			m.nudge(robot.RZ, nudgeDeg)
		case "R":
			m.nudge(robot.RZ, -nudgeDeg)
		}
		return m, nil

	case tickMsg:
		tick := control.Tick(msg)
		m.last = tick
		m.hasTick = true
		if tick.Skipped == "" {
			for _, a := range robot.AllAxes() {
				m.chart.PushDataSet(a.String(), tick.Estimate.Displacement.At(a))
			}
			m.chart.DrawAll()
		}
		return m, waitForTick(m.loop)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.logCh)
	}

	return m, nil
}

func (m simModel) nudge(axis robot.Axis, amount float64) {
	if m.target == nil {
		return
	}
	var d robot.Displacement
	d[axis.Index()] = amount
	m.target.Set(m.target.Pose().Add(d))
}

func (m simModel) View() string {
	if m.quitting {
		return "Simulation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("navrobot simulate"))
	sb.WriteString(fmt.Sprintf(" - %.0f Hz", m.loop.Hz()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))

	var logLines string
	if len(m.logs) == 0 {
		help := "q quit · c cancel sequence"
		if m.target != nil {
			help += " · arrows/pgup/pgdown move target · r/R rotate target"
		}
		logLines = statusStyle.Render(help)
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m simModel) renderStatus() string {
	if !m.hasTick {
		return statusStyle.Render("waiting for first tick...")
	}
	if m.last.Skipped != "" {
		return failStyle.Render("tick skipped: " + m.last.Skipped)
	}

	dec := m.last.Decision
	outcome := successStyle.Render("ok")
	if !dec.Success {
		outcome = statusStyle.Render("idle")
		if dec.Err != nil {
			outcome = failStyle.Render(dec.Err.Error())
		}
	}
	return fmt.Sprintf("state %s  action %s  %s\nrobot  %s\ntarget %s",
		dec.State, dec.Action, outcome,
		m.last.Estimate.RobotPose, m.last.Estimate.TargetFromDisplacement)
}

func renderLegend() string {
	var items []string
	for _, a := range robot.AllAxes() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[a])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" d"+strings.ToLower(a.String()))
	}
	return strings.Join(items, "  ")
}

func (c *SimulateCommand) Execute(args []string) error {
	cfg := control.DefaultConfig()
	if loaded, err := control.LoadConfigFrom(c.Config); err == nil {
		cfg = *loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}
	if c.Listen != "" {
		cfg.Navigation.Addr = c.Listen
	}
	if c.MetricsAddr != "" {
		cfg.MetricsAddr = c.MetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCh := make(chan string, 32)
	logOpts := telemetry.Options{Level: slog.LevelInfo, Lines: logCh}
	if c.Debug {
		logOpts.Level = slog.LevelDebug
	}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOpts.Writer = f
	}
	logger := telemetry.NewLogger(logOpts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := robot.NewSim(cfg.Sim)
	if err := sim.Connect(ctx); err != nil {
		return err
	}
	defer sim.Close()
	if err := sim.Initialize(ctx); err != nil {
		return err
	}

	var monitor robot.Monitor = sim
	if cfg.ServoBus != nil {
		bus, err := robot.OpenServoBus(*cfg.ServoBus)
		if err != nil {
			return err
		}
		defer bus.Close()
		if !bus.IsConnected(ctx) {
			logger.Warn("tool servos not responding", slog.String("port", cfg.ServoBus.Port))
		} else if pos, err := bus.Positions(ctx); err != nil {
			logger.Warn("read tool servos", slog.Any("error", err))
		} else {
			logger.Info("tool servo bus ready", slog.String("port", cfg.ServoBus.Port), slog.Any("positions", pos))
		}
		monitor = bus
	}

	var (
		source navigation.Source
		target *navigation.Target
	)
	if cfg.Navigation.Addr != "" {
		udp, err := navigation.ListenUDP(ctx, cfg.Navigation, logger)
		if err != nil {
			return err
		}
		defer udp.Close()
		source = udp
		logger.Info("listening for navigation", slog.String("addr", udp.Addr().String()))
	} else {
		target = navigation.NewTarget(sim, cfg.Target, robot.Displacement{c.Drift})
		source = target
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	session := algorithm.New(sim, cfg.Algorithm, algorithm.WithLogger(logger))
	loop := control.NewLoop(session, source, control.LoopConfig{
		Hz:      cfg.Hz,
		Monitor: monitor,
		Logger:  logger,
	})

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("guidance loop", slog.Any("error", err))
		}
	}()

	p := tea.NewProgram(newSimModel(loop, target, logCh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	return nil
}
