package discovery

import (
	"fmt"
	"os"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
)

const (
	// ServiceType is the mDNS service type operators browse for.
	ServiceType = "_safeteleop._tcp"

	// ServiceDomain is the mDNS domain.
	ServiceDomain = "local."
)

// DiscoveryService advertises the HTTP control endpoint on the local network.
type DiscoveryService struct {
	mu           sync.Mutex
	server       *zeroconf.Server
	instanceName string
	port         int
	text         []string
	logger       customlog.Logger
}

// NewDiscoveryService prepares an advertisement for the given config.
func NewDiscoveryService(cfg *config.BootstrapConfig, logger customlog.Logger) *DiscoveryService {
	name := cfg.Discovery.InstanceName
	if name == "" {
		hostname, _ := os.Hostname()
		name = fmt.Sprintf("%s-safeteleop", hostname)
	}

	return &DiscoveryService{
		instanceName: name,
		port:         cfg.Server.HTTPPort,
		text:         txtRecords(cfg),
		logger:       logger,
	}
}

// txtRecords describes where the command and scan streams live.
func txtRecords(cfg *config.BootstrapConfig) []string {
	records := []string{
		"version=1.0",
		"api=/api/teleop",
		"ws=/ws/teleop",
		fmt.Sprintf("command_topic=%s", cfg.ZeroMQ.CommandTopic),
		fmt.Sprintf("scan_topic=%s", cfg.ZeroMQ.ScanTopic),
	}
	if cfg.ZeroMQ.OperatorBindAddress != "" {
		records = append(records, fmt.Sprintf("operator=%s", cfg.ZeroMQ.OperatorBindAddress))
	}
	return records
}

// Start registers the service. Calling Start twice is a no-op.
func (s *DiscoveryService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	server, err := zeroconf.Register(s.instanceName, ServiceType, ServiceDomain, s.port, s.text, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.server = server

	s.logger.Infof("Advertising %s.%s%s on port %d", s.instanceName, ServiceType, ServiceDomain, s.port)
	return nil
}

// Stop withdraws the advertisement.
func (s *DiscoveryService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return
	}
	s.server.Shutdown()
	s.server = nil
	s.logger.Infof("Discovery service stopped")
}

// InstanceName returns the advertised instance name.
func (s *DiscoveryService) InstanceName() string {
	return s.instanceName
}
