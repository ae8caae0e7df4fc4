package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/open-teleop/safeteleop/domain/teleop"
	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
)

// TeleopBackend is the part of the supervisor the operator handlers need.
type TeleopBackend interface {
	Commands() teleop.CommandAPI
	State() teleop.StateSnapshot
	Cycles() uint64
	LatestScan() (*teleop.RangeScan, bool)
}

// TeleopCommandData is the data of a TELEOP_COMMAND message.
type TeleopCommandData struct {
	Command string `json:"command"`
}

// AckData is returned for an applied command.
type AckData struct {
	Status  string               `json:"status"`
	Command string               `json:"command"`
	State   teleop.StateSnapshot `json:"state"`
}

// StatusData is returned for STATUS_REQUEST.
type StatusData struct {
	State       teleop.StateSnapshot `json:"state"`
	Cycles      uint64               `json:"cycles"`
	ScanSamples int                  `json:"scan_samples"`
	HasScan     bool                 `json:"has_scan"`
}

// TeleopCommandHandler applies TELEOP_COMMAND messages.
type TeleopCommandHandler struct {
	backend TeleopBackend
	logger  customlog.Logger
}

// NewTeleopCommandHandler creates a handler for operator commands.
func NewTeleopCommandHandler(backend TeleopBackend, logger customlog.Logger) *TeleopCommandHandler {
	return &TeleopCommandHandler{backend: backend, logger: logger}
}

// HandleMessage applies the command and replies with an ACK carrying the new state.
func (h *TeleopCommandHandler) HandleMessage(msg ZeroMQMessage) ([]byte, error) {
	var data TeleopCommandData
	if len(msg.Data) == 0 {
		return nil, fmt.Errorf("%w: %s without data", ErrInvalidMessage, msg.Type)
	}
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if err := teleop.Dispatch(h.backend.Commands(), data.Command); err != nil {
		if errors.Is(err, teleop.ErrUnknownCommand) {
			return nil, &requestError{err: err}
		}
		return nil, err
	}

	h.logger.Debugf("Applied operator command %q", data.Command)
	return newMessage(MsgTypeAck, AckData{
		Status:  "OK",
		Command: data.Command,
		State:   h.backend.State(),
	})
}

// NewStatusHandler replies to STATUS_REQUEST with the current state.
func NewStatusHandler(backend TeleopBackend) HandlerFunc {
	return func(msg ZeroMQMessage) ([]byte, error) {
		status := StatusData{
			State:  backend.State(),
			Cycles: backend.Cycles(),
		}
		if scan, ok := backend.LatestScan(); ok {
			status.HasScan = true
			status.ScanSamples = len(scan.Ranges)
		}
		return newMessage(MsgTypeStatusResponse, status)
	}
}

// NewLimitsHandler replies to LIMITS_REQUEST with the safety configuration.
func NewLimitsHandler(cfg config.SafetyConfig) HandlerFunc {
	return func(msg ZeroMQMessage) ([]byte, error) {
		return newMessage(MsgTypeLimitsResponse, cfg)
	}
}

// RegisterOperatorHandlers wires the operator message types into dispatcher.
func RegisterOperatorHandlers(dispatcher *MessageDispatcher, backend TeleopBackend, cfg config.SafetyConfig, logger customlog.Logger) {
	dispatcher.RegisterHandler(MsgTypeTeleopCommand, NewTeleopCommandHandler(backend, logger))
	dispatcher.RegisterHandler(MsgTypeStatusRequest, NewStatusHandler(backend))
	dispatcher.RegisterHandler(MsgTypeLimitsRequest, NewLimitsHandler(cfg))
	logger.Infof("Registered operator handlers")
}
