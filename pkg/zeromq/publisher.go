package zeromq

import (
	"fmt"
	"sync"
	"time"

	"github.com/open-teleop/safeteleop/domain/teleop"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/pebbe/zmq4"
)

// CommandPublisher sends velocity commands to the robot bridge on a PUB socket.
// Each command is a topic frame followed by a motion.Twist frame.
type CommandPublisher struct {
	socket  *zmq4.Socket
	topic   string
	now     func() time.Time
	logger  customlog.Logger
	running bool
	mu      sync.Mutex
}

var _ teleop.CommandPublisher = (*CommandPublisher)(nil)

// NewCommandPublisher binds a PUB socket on address.
func NewCommandPublisher(ctx *zmq4.Context, address, topic string, logger customlog.Logger) (*CommandPublisher, error) {
	socket, err := ctx.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	if err := socket.Bind(address); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", address, err)
	}

	logger.Infof("Command publisher bound on %s (topic %q)", address, topic)

	return &CommandPublisher{
		socket:  socket,
		topic:   topic,
		now:     time.Now,
		logger:  logger,
		running: true,
	}, nil
}

// PublishVelocity sends cmd on the command topic.
func (p *CommandPublisher) PublishVelocity(cmd teleop.VelocityCommand) error {
	payload := EncodeVelocityCommand(cmd, p.now())
	return p.PublishMessage(p.topic, payload)
}

// PublishMessage sends a topic frame followed by message.
func (p *CommandPublisher) PublishMessage(topic string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrServiceClosed
	}

	if _, err := p.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := p.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close releases the socket. Later publishes return ErrServiceClosed.
func (p *CommandPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	if p.socket != nil {
		p.socket.Close()
		p.socket = nil
		p.logger.Infof("Command publisher closed")
	}
}
