package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/navrobot/pkg/control"
	"github.com/gwillem/navrobot/pkg/robot"
)

type ScanCommand struct {
	MinID int `long:"min-id" default:"1" description:"Lowest servo ID to probe"`
	MaxID int `long:"max-id" default:"6" description:"Highest servo ID to probe"`
}

func (c *ScanCommand) Execute(args []string) error {
	fmt.Println(titleStyle.Render("navrobot scan"))
	fmt.Println("Scanning serial ports for servos...")
	fmt.Println()

	ports, err := robot.ScanPorts(c.MinID, c.MaxID)
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No servo buses found.")
		fmt.Println("Make sure the tool is connected and powered on.")
		return nil
	}

	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		ids := make([]string, 0, len(p.Servos))
		for _, s := range p.Servos {
			ids = append(ids, fmt.Sprintf("%d", s.ID))
		}
		rows = append(rows, []string{p.Port, fmt.Sprintf("%d", len(p.Servos)), strings.Join(ids, ",")})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(statusStyle).
		Headers("Port", "Servos", "IDs").
		Rows(rows...)
	fmt.Println(t.Render())
	fmt.Println()
	fmt.Printf("Add a servo_bus section to %s to gate guidance on the bus.\n", control.DefaultConfigFile)
	return nil
}
