package controller

import (
	"prescription-chatbot-be/internal/dto"
	"prescription-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type SessionCounter interface {
	Active() int
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	sessions SessionCounter
}

func NewHealthController(sessions SessionCounter) IHealthController {
	return &healthController{sessions: sessions}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{Status: "ok"}
	if c.sessions != nil {
		res.ActiveSessions = c.sessions.Active()
	}
	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", res))
}
