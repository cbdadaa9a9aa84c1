package api

import (
	"labelscan/docs"
	"labelscan/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(labelHandler *handlers.LabelHandler, uploadDir string, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	// Swagger - importing docs registers the documentation through init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Upload directory is served so the debug crop can be inspected
	if uploadDir != "" {
		appLogger.Info("Serving uploads", zap.String("path", uploadDir))
		app.Static("/uploads", uploadDir)
	}

	app.Get("/health", labelHandler.Health)
	app.Post("/process_label", labelHandler.ProcessLabel)

	return app
}
