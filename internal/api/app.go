package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"taskline/internal/middleware"
)

// NewApp builds the fiber application with the shared middleware stack and
// every route registered.
func NewApp(svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "taskline",
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	RegisterRoutes(app, svc)
	return app
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the same envelope the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  code,
	})
}
