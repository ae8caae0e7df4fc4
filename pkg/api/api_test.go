package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/safeteleop/domain/teleop"
	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type stateBackend struct {
	state *teleop.VelocityState
}

func (b stateBackend) Commands() teleop.CommandAPI { return b.state }
func (b stateBackend) State() teleop.StateSnapshot { return b.state.Snapshot() }

func newBackend() stateBackend {
	return stateBackend{state: teleop.NewVelocityState(teleop.DefaultLimits(), nil, nil)}
}

func TestHandleControlMessage(t *testing.T) {
	backend := newBackend()

	reply := handleControlMessage(backend, "s1", []byte(`{"command":"linear_up"}`))
	assert.Equal(t, "ok", reply.Status)
	assert.Equal(t, "s1", reply.Session)

	reply = handleControlMessage(backend, "s1", []byte(`{"command":"backward"}`))
	require.NotNil(t, reply.State)
	assert.InDelta(t, -0.05, reply.State.TargetLinear, 1e-9)
	assert.Empty(t, reply.Error)
}

func TestHandleControlMessageRejects(t *testing.T) {
	backend := newBackend()

	reply := handleControlMessage(backend, "s1", []byte(`not json`))
	assert.Equal(t, "error", reply.Status)
	assert.Contains(t, reply.Error, "invalid control message")

	reply = handleControlMessage(backend, "s1", []byte(`{"command":"teleport"}`))
	assert.Equal(t, "error", reply.Status)
	assert.Nil(t, reply.State)
	assert.True(t, backend.State().LastCommandTime.IsZero())
}

func TestSafetyConfigRoute(t *testing.T) {
	cfg := config.DefaultSafetyConfig()
	cfg.MinSafetyDistance = 0.75

	app := fiber.New()
	RegisterConfigRoutes(app, cfg, customlog.NopLogger{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/config/safety", nil))
	require.NoError(t, err)
	var got config.SafetyConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, cfg, got)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/config/safety?format=yaml", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/x-yaml", resp.Header.Get(fiber.HeaderContentType))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var fromYAML config.SafetyConfig
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, 0.75, fromYAML.MinSafetyDistance)
}
