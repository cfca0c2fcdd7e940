package server

import (
	"prescription-chatbot-be/internal/bootstrap"
	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // prescription photos
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Static side-effect files (audio, extracted and translated text)
	app.Static(container.Artifacts.URLPrefix, container.Artifacts.BaseDir)

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	if s.container.Logger != nil {
		s.container.Logger.Info("SERVER", "Listening", map[string]interface{}{"port": s.cfg.App.Port, "artifacts": s.container.Artifacts.BaseDir})
	}
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	if c.HealthController != nil {
		c.HealthController.RegisterRoutes(api)
	}
	c.ChatbotController.RegisterRoutes(api)
	c.PrescriptionController.RegisterRoutes(api)
}
