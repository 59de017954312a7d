package handler

import (
	"github.com/gofiber/fiber/v2"

	"archiv/internal/logging"
	"archiv/internal/service"
)

// Deps are the collaborators the routes are bound to.
type Deps struct {
	Documents service.DocumentService
	Courses   CourseCatalog
	Info      ServerInfo
	Serve     ServeOptions
	Log       *logging.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Unmatched routes and methods fall through to ErrorHandler.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := orDiscard(d.Log)

	info := Info(d.Documents, d.Info, log)
	app.Get("/", info)
	app.Get("/api/info", info)

	app.Get("/health", HealthCheck(d.Documents))
	app.Get("/healthz", LivenessProbe())

	// The list route must be registered before the filename routes it would otherwise match.
	app.Get("/api/pdf/list", ListDocuments(d.Documents, log, d.Serve.Production))

	serve := ServeDocument(d.Documents, log, d.Serve)
	app.Get("/pdfs/:filename?", serve)
	app.Get("/api/pdf/:filename?", serve)

	if d.Courses != nil {
		app.Get("/api/courses", ListCourses(d.Courses))
		app.Get("/api/courses/:id", GetCourse(d.Courses))
	}
}
