package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/crest-online/crest-api/internal/config"
	"github.com/crest-online/crest-api/internal/handler"
	"github.com/crest-online/crest-api/internal/middleware"
	"github.com/crest-online/crest-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler          *handler.CourseHandler
	TeacherHandler         *handler.TeacherHandler
	EnrollmentHandler      *handler.EnrollmentHandler
	SessionHandler         *handler.SessionHandler
	AdminCourseHandler     *handler.AdminCourseHandler
	AdminTeacherHandler    *handler.AdminTeacherHandler
	AdminEnrollmentHandler *handler.AdminEnrollmentHandler
	AdminStatsHandler      *handler.AdminStatsHandler
	JWTMiddleware          fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public catalogue; the content endpoint inside checks enrollment itself.
	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)

		if deps.EnrollmentHandler != nil {
			// One submission at a time per user keeps double-click retries
			// from filing duplicate proofs.
			enroll := api.Group("/courses", jwtMiddleware,
				middleware.RateLimit("enroll", 5, time.Minute))
			deps.EnrollmentHandler.Register(enroll)
		}

		if deps.SessionHandler != nil {
			sessions := api.Group("/courses", jwtMiddleware)
			deps.SessionHandler.Register(sessions)
		}
	}

	if deps.TeacherHandler != nil {
		teachers := api.Group("/teachers")
		deps.TeacherHandler.Register(teachers)
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin"))
	if deps.AdminCourseHandler != nil {
		deps.AdminCourseHandler.Register(admin.Group("/courses"))
	}
	if deps.AdminTeacherHandler != nil {
		deps.AdminTeacherHandler.Register(admin.Group("/teachers"))
	}
	if deps.AdminEnrollmentHandler != nil {
		deps.AdminEnrollmentHandler.Register(admin.Group("/enrollments"))
	}
	if deps.AdminStatsHandler != nil {
		deps.AdminStatsHandler.Register(admin.Group("/stats"))
	}
}
