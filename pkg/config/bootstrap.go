package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BootstrapFileName is the file LoadBootstrapConfig looks for in the config directory.
const BootstrapFileName = "safeteleop.yaml"

// Transport defaults.
const (
	DefaultHTTPPort              = 8080
	DefaultCommandTopic          = "cmd_vel"
	DefaultScanTopic             = "scan"
	DefaultReconnectIntervalMs   = 100
	DefaultLoggingLevel          = "info"
	DefaultCommandPublishAddress = "tcp://*:5556"
)

// BootstrapConfig holds everything the safeteleop binary reads at startup.
type BootstrapConfig struct {
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	ZeroMQ    ZeroMQConfig    `yaml:"zeromq" json:"zeromq"`
	Safety    SafetyConfig    `yaml:"safety" json:"safety"`
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogPath string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	HTTPPort int `yaml:"http_port" json:"http_port"`
}

// ZeroMQConfig holds socket addresses and topics.
// OperatorBindAddress is optional; when empty the REP command socket is not opened.
type ZeroMQConfig struct {
	CommandPublishAddress string `yaml:"command_publish_address" json:"command_publish_address"`
	CommandTopic          string `yaml:"command_topic" json:"command_topic"`
	ScanSubscribeAddress  string `yaml:"scan_subscribe_address" json:"scan_subscribe_address"`
	ScanTopic             string `yaml:"scan_topic" json:"scan_topic"`
	OperatorBindAddress   string `yaml:"operator_bind_address" json:"operator_bind_address"`
	ReconnectIntervalMs   int    `yaml:"reconnect_interval_ms" json:"reconnect_interval_ms"`
}

// DiscoveryConfig controls mDNS advertisement of the HTTP endpoint.
// An empty InstanceName falls back to "<hostname>-safeteleop".
type DiscoveryConfig struct {
	Enabled      bool   `yaml:"enabled" json:"enabled"`
	InstanceName string `yaml:"instance_name,omitempty" json:"instance_name,omitempty"`
}

// DefaultBootstrapConfig returns a config with defaults for every optional field.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Logging: LoggingConfig{Level: DefaultLoggingLevel},
		Server:  ServerConfig{HTTPPort: DefaultHTTPPort},
		ZeroMQ: ZeroMQConfig{
			CommandPublishAddress: DefaultCommandPublishAddress,
			CommandTopic:          DefaultCommandTopic,
			ScanTopic:             DefaultScanTopic,
			ReconnectIntervalMs:   DefaultReconnectIntervalMs,
		},
		Safety: DefaultSafetyConfig(),
	}
}

// LoadBootstrapConfig loads configDir/safeteleop.yaml on top of the defaults
// and validates it.
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, BootstrapFileName)

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	bootstrapCfg := DefaultBootstrapConfig()
	if err := yaml.Unmarshal(data, &bootstrapCfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	if err := bootstrapCfg.Validate(); err != nil {
		return nil, err
	}
	return &bootstrapCfg, nil
}

// Validate checks required fields and value ranges.
func (c *BootstrapConfig) Validate() error {
	if c.ZeroMQ.CommandPublishAddress == "" {
		return fmt.Errorf("missing required field in bootstrap config: zeromq.command_publish_address")
	}
	if c.ZeroMQ.ScanSubscribeAddress == "" {
		return fmt.Errorf("missing required field in bootstrap config: zeromq.scan_subscribe_address")
	}
	if c.ZeroMQ.CommandTopic == "" {
		return fmt.Errorf("missing required field in bootstrap config: zeromq.command_topic")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid bootstrap config: server.http_port out of range: %d", c.Server.HTTPPort)
	}
	return c.Safety.Validate()
}
