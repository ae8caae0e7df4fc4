package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/safeteleop/pkg/config"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"gopkg.in/yaml.v3"
)

// ConfigHandler serves the safety configuration the supervisor runs with.
// Limits are fixed for the life of the process, so the surface is read-only.
type ConfigHandler struct {
	safety config.SafetyConfig
	logger customlog.Logger
}

// NewConfigHandler creates a new handler for configuration endpoints.
func NewConfigHandler(safety config.SafetyConfig, logger customlog.Logger) *ConfigHandler {
	if logger == nil {
		panic("Logger cannot be nil in NewConfigHandler")
	}
	return &ConfigHandler{
		safety: safety,
		logger: logger,
	}
}

// RegisterConfigRoutes registers the configuration API endpoints.
func RegisterConfigRoutes(router fiber.Router, safety config.SafetyConfig, logger customlog.Logger) {
	h := NewConfigHandler(safety, logger)

	apiGroup := router.Group("/api/config")
	apiGroup.Get("/safety", h.handleGetSafetyConfig)

	logger.Infof("Registered configuration API endpoints under /api/config")
}

// handleGetSafetyConfig returns the safety limits as JSON, or as YAML with ?format=yaml.
func (h *ConfigHandler) handleGetSafetyConfig(c *fiber.Ctx) error {
	h.logger.Debugf("Handling GET request for /api/config/safety")

	if c.Query("format") != "yaml" {
		return c.JSON(h.safety)
	}

	yamlData, err := yaml.Marshal(h.safety)
	if err != nil {
		h.logger.Errorf("Failed to encode safety config as YAML: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode configuration",
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}
