package api

import (
	"github.com/gofiber/fiber/v2"

	"taskline/internal/api/handlers"
	"taskline/internal/middleware"
	"taskline/internal/service"
)

type Services struct {
	Credentials   *service.Credentials
	PersonalTasks *service.PersonalTasks
	Workspaces    *service.Workspaces
	SharedTasks   *service.SharedTasks
	Store         handlers.Pinger
}

func RegisterRoutes(app *fiber.App, svc Services) {
	auth := handlers.NewAuthHandler(svc.Credentials)
	personal := handlers.NewPersonalTaskHandler(svc.PersonalTasks)
	workspaces := handlers.NewWorkspaceHandler(svc.Workspaces)
	shared := handlers.NewSharedTaskHandler(svc.SharedTasks)
	useToken := middleware.UseToken(svc.Credentials)

	app.Get("/health", handlers.Health(svc.Store))

	// Users
	users := app.Group("/users")
	users.Post("/register", auth.Register)
	users.Post("/login", auth.Login)
	users.Get("/verify", useToken, auth.Verify)
	users.Post("/logout", useToken, auth.Logout)

	// Personal tasks
	personalRoutes := app.Group("/personaltasks", useToken)
	personalRoutes.Post("/:user_id", personal.Create)
	personalRoutes.Get("/:user_id", personal.List)
	personalRoutes.Put("/:user_id/:task_id", personal.Update)
	personalRoutes.Delete("/:user_id/:task_id", personal.Delete)
	personalRoutes.Post("/:user_id/:task_id/toggle", personal.Toggle)

	// Workspaces
	workspaceRoutes := app.Group("/workspaces", useToken)
	workspaceRoutes.Post("/", workspaces.Create)
	workspaceRoutes.Get("/", workspaces.List)
	workspaceRoutes.Delete("/:workspace_id", workspaces.Delete)
	workspaceRoutes.Post("/:workspace_id/members", workspaces.AddMember)
	workspaceRoutes.Delete("/:workspace_id/members/:membername", workspaces.RemoveMember)

	// Shared tasks
	sharedRoutes := app.Group("/sharedtasks", useToken)
	sharedRoutes.Post("/:workspace_id", shared.Create)
	sharedRoutes.Get("/:workspace_id", shared.List)
	sharedRoutes.Put("/:workspace_id/:task_id", shared.Update)
	sharedRoutes.Delete("/:workspace_id/:task_id", shared.Delete)
	sharedRoutes.Post("/:workspace_id/:task_id/toggle", shared.Toggle)
}
