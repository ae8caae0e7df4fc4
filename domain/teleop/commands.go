package teleop

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned when an operator command name is not recognised.
var ErrUnknownCommand = errors.New("unknown teleop command")

// CommandAPI is the operator-facing command surface. Every operation is
// non-blocking and refreshes the last command time.
type CommandAPI interface {
	MoveForward()
	MoveBackward()
	RotateClockwise()
	RotateCounterClockwise()
	Stop()
	IncreaseLinearSpeed()
	DecreaseLinearSpeed()
	IncreaseAngularSpeed()
	DecreaseAngularSpeed()
}

var _ CommandAPI = (*VelocityState)(nil)

// Command names accepted by the HTTP, websocket and ZeroMQ operator surfaces.
const (
	CommandForward     = "forward"
	CommandBackward    = "backward"
	CommandRotateCW    = "rotate_cw"
	CommandRotateCCW   = "rotate_ccw"
	CommandStop        = "stop"
	CommandLinearUp    = "linear_up"
	CommandLinearDown  = "linear_down"
	CommandAngularUp   = "angular_up"
	CommandAngularDown = "angular_down"
)

var commandTable = map[string]func(CommandAPI){
	CommandForward:     CommandAPI.MoveForward,
	CommandBackward:    CommandAPI.MoveBackward,
	CommandRotateCW:    CommandAPI.RotateClockwise,
	CommandRotateCCW:   CommandAPI.RotateCounterClockwise,
	CommandStop:        CommandAPI.Stop,
	CommandLinearUp:    CommandAPI.IncreaseLinearSpeed,
	CommandLinearDown:  CommandAPI.DecreaseLinearSpeed,
	CommandAngularUp:   CommandAPI.IncreaseAngularSpeed,
	CommandAngularDown: CommandAPI.DecreaseAngularSpeed,
}

// Dispatch runs the named command against api. Names are case-insensitive.
func Dispatch(api CommandAPI, name string) error {
	fn, ok := commandTable[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	fn(api)
	return nil
}

// CommandNames lists the accepted command names in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
