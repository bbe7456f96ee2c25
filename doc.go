// Package navrobot guides a robot end-effector toward a target pose reported
// by a navigation system.
//
// Large displacements are never corrected in a straight line. The robot
// first rises to a safe height, then translates and rotates at that height,
// then descends onto the target. Once the residual is small it is corrected
// one tool axis at a time.
//
// # Installation
//
//	go install github.com/gwillem/navrobot/cmd/navrobot@latest
//
// # Usage
//
// Write a configuration file:
//
//	navrobot init
//
// Then run the guidance loop against the simulated robot:
//
//	navrobot simulate
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/navrobot: CLI with init, simulate and scan commands
//   - pkg/algorithm: the directly-upward decision algorithm
//   - pkg/robot: robot contract, poses, simulator and tool servo bus
//   - pkg/navigation: simulated and UDP target estimates
//   - pkg/control: fixed-rate control loop, configuration and metrics
//   - pkg/telemetry: structured logging
package navrobot
