package discovery

import (
	"strings"
	"testing"

	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/stretchr/testify/assert"
)

func TestInstanceName(t *testing.T) {
	cfg := config.DefaultBootstrapConfig()
	cfg.Discovery.InstanceName = "bench-robot"
	assert.Equal(t, "bench-robot", NewDiscoveryService(&cfg, customlog.NopLogger{}).InstanceName())

	cfg.Discovery.InstanceName = ""
	name := NewDiscoveryService(&cfg, customlog.NopLogger{}).InstanceName()
	assert.True(t, strings.HasSuffix(name, "-safeteleop"), name)
}

func TestTxtRecords(t *testing.T) {
	cfg := config.DefaultBootstrapConfig()

	records := txtRecords(&cfg)
	assert.Contains(t, records, "command_topic=cmd_vel")
	assert.Contains(t, records, "scan_topic=scan")
	for _, r := range records {
		assert.False(t, strings.HasPrefix(r, "operator="), "operator socket is disabled by default")
	}

	cfg.ZeroMQ.OperatorBindAddress = "tcp://*:5555"
	assert.Contains(t, txtRecords(&cfg), "operator=tcp://*:5555")
}

func TestStopWithoutStart(t *testing.T) {
	cfg := config.DefaultBootstrapConfig()
	s := NewDiscoveryService(&cfg, customlog.NopLogger{})
	assert.NotPanics(t, s.Stop)
}
