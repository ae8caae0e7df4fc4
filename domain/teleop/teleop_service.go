package teleop

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// CommandRequest is the body accepted by CommandHandler.
type CommandRequest struct {
	Command string `json:"command"`
}

// TeleopService exposes the supervisor's operator surface over HTTP.
type TeleopService struct {
	supervisor *Supervisor
}

// NewTeleopService creates a new teleop service instance
func NewTeleopService(supervisor *Supervisor) *TeleopService {
	return &TeleopService{supervisor: supervisor}
}

// RegisterRoutes mounts the teleop endpoints on router.
func (s *TeleopService) RegisterRoutes(router fiber.Router) {
	router.Post("/command", s.CommandHandler)
	router.Get("/state", s.StateHandler)
	router.Get("/commands", s.CommandsHandler)
}

// CommandHandler applies one operator command and returns the resulting state.
func (s *TeleopService) CommandHandler(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := Dispatch(s.supervisor.Commands(), req.Command); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrUnknownCommand) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error":    err.Error(),
			"commands": CommandNames(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "command applied",
		"command": req.Command,
		"state":   s.supervisor.State(),
	})
}

// StateHandler returns the current velocity state.
func (s *TeleopService) StateHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state": s.supervisor.State(),
	})
}

// CommandsHandler lists the accepted command names.
func (s *TeleopService) CommandsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"commands": CommandNames(),
	})
}
