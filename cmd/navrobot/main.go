package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Simulate SimulateCommand `command:"simulate" alias:"sim" description:"Guide a simulated robot toward a navigated target"`
	Init     InitCommand     `command:"init" description:"Write a configuration file"`
	Scan     ScanCommand     `command:"scan" description:"Scan serial ports for tool servo buses"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "navrobot - directly-upward robot guidance for navigated targets"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
