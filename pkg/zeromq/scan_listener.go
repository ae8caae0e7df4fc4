package zeromq

import (
	"fmt"
	"sync"
	"time"

	"github.com/open-teleop/safeteleop/domain/teleop"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/pebbe/zmq4"
)

const pollInterval = 250 * time.Millisecond

// ScanSink receives decoded range scans.
type ScanSink interface {
	UpdateScan(scan *teleop.RangeScan)
}

// ScanListener subscribes to the scan topic and forwards every decoded scan
// to its sink.
type ScanListener struct {
	socket   *zmq4.Socket
	poller   *zmq4.Poller
	sink     ScanSink
	topic    string
	retry    time.Duration
	now      func() time.Time
	logger   customlog.Logger
	received uint64
	mu       sync.Mutex
	started  bool
	stopped  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScanListener connects a SUB socket to address and subscribes to topic.
func NewScanListener(ctx *zmq4.Context, address, topic string, retry time.Duration, sink ScanSink, logger customlog.Logger) (*ScanListener, error) {
	socket, err := ctx.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}
	if err := socket.SetSubscribe(topic); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to subscribe to %q: %w", topic, err)
	}
	if err := socket.Connect(address); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	return &ScanListener{
		socket: socket,
		poller: poller,
		sink:   sink,
		topic:  topic,
		retry:  retry,
		now:    time.Now,
		logger: logger.WithField("component", "scan_listener"),
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins the receive loop. The socket is owned by the loop from here on.
// Start after Stop does nothing.
func (l *ScanListener) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return
	}
	l.started = true
	l.wg.Add(1)
	go l.receiveLoop()
	l.logger.Infof("Scan listener started (topic %q)", l.topic)
}

// Stop ends the receive loop and closes the socket. A listener that was never
// started closes its socket here, so the context can terminate.
func (l *ScanListener) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.stopCh)
		if !l.started {
			l.socket.Close()
		}
	}
	l.mu.Unlock()
	l.wg.Wait()
}

func (l *ScanListener) receiveLoop() {
	defer l.wg.Done()
	defer l.socket.Close()

	for {
		select {
		case <-l.stopCh:
			l.logger.Infof("Scan listener stopped after %d scans", l.received)
			return
		default:
		}

		sockets, err := l.poller.Poll(pollInterval)
		if err != nil {
			l.logger.Errorf("Error polling scan socket: %v", err)
			l.sleep()
			continue
		}
		if len(sockets) == 0 {
			continue
		}

		frames, err := l.socket.RecvMessageBytes(0)
		if err != nil {
			l.logger.Errorf("Error receiving scan: %v", err)
			l.sleep()
			continue
		}

		if err := l.handleFrames(frames); err != nil {
			l.logger.Warnf("Dropping scan: %v", err)
		}
	}
}

// handleFrames decodes a [topic, payload] message. A single frame is taken as
// a bare payload.
func (l *ScanListener) handleFrames(frames [][]byte) error {
	if len(frames) == 0 {
		return ErrInvalidMessage
	}
	payload := frames[len(frames)-1]

	scan, err := DecodeRangeScan(payload)
	if err != nil {
		return err
	}
	if scan.CapturedAt.IsZero() {
		scan.CapturedAt = l.now()
	}

	l.sink.UpdateScan(scan)
	l.received++
	if l.received == 1 {
		l.logger.Infof("First scan received (%d samples)", len(scan.Ranges))
	}
	return nil
}

func (l *ScanListener) sleep() {
	select {
	case <-l.stopCh:
	case <-time.After(l.retry):
	}
}
