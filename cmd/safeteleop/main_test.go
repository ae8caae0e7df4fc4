package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/safeteleop/domain/diagnostic"
	"github.com/open-teleop/safeteleop/domain/teleop"
	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardPublisher struct{}

func (discardPublisher) PublishVelocity(teleop.VelocityCommand) error { return nil }

func TestAppRoutes(t *testing.T) {
	cfg := config.DefaultBootstrapConfig()
	sup := teleop.NewSupervisor(discardPublisher{}, teleop.Options{})
	app := newApp(&cfg, sup, diagnostic.NewDiagnosticService(), customlog.NopLogger{})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", fiber.StatusOK},
		{http.MethodGet, "/api/teleop/state", "", fiber.StatusOK},
		{http.MethodPost, "/api/teleop/command", `{"command":"stop"}`, fiber.StatusOK},
		{http.MethodGet, "/api/config/safety", "", fiber.StatusOK},
		{http.MethodGet, "/api/diagnostics", "", fiber.StatusOK},
		{http.MethodGet, "/ws/teleop", "", fiber.StatusUpgradeRequired},
		{http.MethodGet, "/missing", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSupervisorRunsAtFixedRate(t *testing.T) {
	dir := t.TempDir()
	// A leftover rate setting from an older config file has no effect.
	content := `
zeromq:
  scan_subscribe_address: "tcp://localhost:7777"
control:
  rate_hz: 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.BootstrapFileName), []byte(content), 0644))
	cfg, err := config.LoadBootstrapConfig(dir)
	require.NoError(t, err)

	sup := newSupervisor(cfg, discardPublisher{}, diagnostic.NewDiagnosticService(), customlog.NopLogger{})

	assert.Equal(t, teleop.DefaultControlPeriod, sup.Period())
	assert.Equal(t, teleop.LimitsFromConfig(cfg.Safety), sup.Limits())
}
