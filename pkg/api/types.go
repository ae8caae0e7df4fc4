package api

import "github.com/open-teleop/safeteleop/domain/teleop"

// --- Data Structures for WebSocket Messages ---

// ControlMessage is one key command sent by the browser.
type ControlMessage struct {
	Command string `json:"command"`
}

// ControlReply acknowledges a ControlMessage.
type ControlReply struct {
	Session string                `json:"session"`
	Command string                `json:"command,omitempty"`
	Status  string                `json:"status"`
	Error   string                `json:"error,omitempty"`
	State   *teleop.StateSnapshot `json:"state,omitempty"`
}

// TeleopBackend is what the control socket drives.
type TeleopBackend interface {
	Commands() teleop.CommandAPI
	State() teleop.StateSnapshot
}
