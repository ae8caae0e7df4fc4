package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/pebbe/zmq4"
)

// Common errors
var (
	ErrServiceClosed      = errors.New("zeromq service is closed")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message types
const (
	MsgTypeTeleopCommand  = "TELEOP_COMMAND"
	MsgTypeStatusRequest  = "STATUS_REQUEST"
	MsgTypeStatusResponse = "STATUS_RESPONSE"
	MsgTypeLimitsRequest  = "LIMITS_REQUEST"
	MsgTypeLimitsResponse = "LIMITS_RESPONSE"
	MsgTypeAck            = "ACK"
	MsgTypeError          = "ERROR"
)

// ZeroMQMessage represents a generic message structure for ZeroMQ communication
type ZeroMQMessage struct {
	Type      string          `json:"type"`
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ErrorResponse represents an error response message
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MessageHandler defines the interface for handlers that process specific message types
type MessageHandler interface {
	HandleMessage(msg ZeroMQMessage) ([]byte, error)
}

// HandlerFunc is a function type that implements MessageHandler
type HandlerFunc func(msg ZeroMQMessage) ([]byte, error)

// HandleMessage calls the function
func (f HandlerFunc) HandleMessage(msg ZeroMQMessage) ([]byte, error) {
	return f(msg)
}

// newMessage builds a reply envelope around data.
func newMessage(msgType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s data: %w", msgType, err)
	}
	out, err := json.Marshal(ZeroMQMessage{
		Type:      msgType,
		Timestamp: float64(time.Now().Unix()),
		Data:      raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", msgType, err)
	}
	return out, nil
}

// errorMessage converts a dispatch failure into an ERROR reply. Malformed or
// unsupported requests are client errors.
func errorMessage(err error) []byte {
	code := 500
	var clientErr *requestError
	if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrUnknownMessageType) || errors.As(err, &clientErr) {
		code = 400
	}
	out, mErr := newMessage(MsgTypeError, ErrorResponse{Message: err.Error(), Code: code})
	if mErr != nil {
		return []byte(`{"type":"ERROR","data":{"message":"internal error","code":500}}`)
	}
	return out
}

// requestError marks a handler failure caused by the request contents.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// MessageDispatcher routes messages to the appropriate handlers
type MessageDispatcher struct {
	handlers map[string]MessageHandler
	logger   customlog.Logger
	mu       sync.RWMutex
}

// NewMessageDispatcher creates a new message dispatcher
func NewMessageDispatcher(logger customlog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler adds a handler for a specific message type
func (d *MessageDispatcher) RegisterHandler(messageType string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[messageType] = handler
	d.logger.Debugf("Registered handler for message type: %s", messageType)
}

// Dispatch parses a JSON envelope and routes it to the handler for its type.
func (d *MessageDispatcher) Dispatch(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}

	d.mu.RLock()
	handler, exists := d.handlers[msg.Type]
	d.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}

	d.logger.Debugf("Dispatching message of type: %s", msg.Type)
	return handler.HandleMessage(msg)
}

// Reply dispatches data and always returns a reply, converting errors into
// ERROR messages. A REP socket must answer every request.
func (d *MessageDispatcher) Reply(data []byte) []byte {
	response, err := d.Dispatch(data)
	if err != nil {
		d.logger.Warnf("Error dispatching message: %v", err)
		return errorMessage(err)
	}
	return response
}

// OperatorService answers operator requests on a REP socket.
type OperatorService struct {
	socket     *zmq4.Socket
	poller     *zmq4.Poller
	dispatcher *MessageDispatcher
	address    string
	logger     customlog.Logger
	mu         sync.Mutex
	started    bool
	stopped    bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewOperatorService binds a REP socket on address.
func NewOperatorService(ctx *zmq4.Context, address string, dispatcher *MessageDispatcher, logger customlog.Logger) (*OperatorService, error) {
	socket, err := ctx.NewSocket(zmq4.REP)
	if err != nil {
		return nil, fmt.Errorf("failed to create REP socket: %w", err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	// Bound send timeout so a vanished client cannot wedge shutdown.
	const socketTimeout = 1 * time.Second
	if err := socket.SetSndtimeo(socketTimeout); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set send timeout: %w", err)
	}

	if err := socket.Bind(address); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", address, err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	logger.Infof("Operator service bound on %s", address)

	return &OperatorService{
		socket:     socket,
		poller:     poller,
		dispatcher: dispatcher,
		address:    address,
		logger:     logger.WithField("component", "operator_service"),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins the request loop. Start after Stop does nothing.
func (s *OperatorService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.wg.Add(1)
	go s.serve()
}

// Stop ends the request loop and closes the socket, including when the loop
// was never started.
func (s *OperatorService) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
		if !s.started {
			s.socket.Close()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *OperatorService) serve() {
	defer s.wg.Done()
	defer s.socket.Close()

	s.logger.Infof("Operator service started")
	for {
		select {
		case <-s.stopCh:
			s.logger.Infof("Operator service stopped")
			return
		default:
		}

		sockets, err := s.poller.Poll(pollInterval)
		if err != nil {
			s.logger.Errorf("Error polling socket: %v", err)
			continue
		}
		if len(sockets) == 0 {
			continue
		}

		msg, err := s.socket.RecvBytes(0)
		if err != nil {
			s.logger.Errorf("Error receiving message: %v", err)
			continue
		}

		s.logger.Debugf("Received message (%d bytes)", len(msg))
		if _, err := s.socket.SendBytes(s.dispatcher.Reply(msg), 0); err != nil {
			s.logger.Errorf("Error sending response: %v", err)
		}
	}
}
