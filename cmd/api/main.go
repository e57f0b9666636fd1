package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/crest-online/crest-api/internal/config"
	"github.com/crest-online/crest-api/internal/database"
	"github.com/crest-online/crest-api/internal/handler"
	"github.com/crest-online/crest-api/internal/middleware"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/repository"
	"github.com/crest-online/crest-api/internal/router"
	"github.com/crest-online/crest-api/internal/service"
	cloud "github.com/crest-online/crest-api/pkg/cloudinary"
	"github.com/crest-online/crest-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, cfg.DatabaseMaxOpen, cfg.DatabaseMaxIdle)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Teacher{},
		&models.Course{},
		&models.CourseVideo{},
		&models.CoursePDF{},
		&models.CourseQuiz{},
		&models.Enrollment{},
		&models.LessonProgress{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName:  cfg.CloudinaryCloudName,
		APIKey:     cfg.CloudinaryAPIKey,
		APISecret:  cfg.CloudinaryAPISecret,
		BaseFolder: cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	mail := mailer.New(mailer.Config{
		APIKey:    cfg.SendGridAPIKey,
		FromName:  cfg.MailFromName,
		FromEmail: cfg.MailFromEmail,
		OpsEmail:  cfg.MailOpsEmail,
	}, logger)

	var events service.DecisionPublisher
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer conn.Close()
		events = conn
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	courseService := service.NewCourseService(courseRepo, enrollmentRepo, redisClient, cfg.ContentCacheTTL, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, uploader, mail, events, validate, logger)
	sessionService := service.NewSessionService(courseRepo, enrollmentRepo, progressRepo, logger)
	teacherService := service.NewTeacherService(teacherRepo, validate, logger)
	statsService := service.NewStatsService(statsRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:          handler.NewCourseHandler(courseService, logger),
		TeacherHandler:         handler.NewTeacherHandler(teacherService, logger),
		EnrollmentHandler:      handler.NewEnrollmentHandler(enrollmentService, logger),
		SessionHandler:         handler.NewSessionHandler(sessionService, logger),
		AdminCourseHandler:     handler.NewAdminCourseHandler(courseService, logger),
		AdminTeacherHandler:    handler.NewAdminTeacherHandler(teacherService, logger),
		AdminEnrollmentHandler: handler.NewAdminEnrollmentHandler(enrollmentService, logger),
		AdminStatsHandler:      handler.NewAdminStatsHandler(statsService, logger),
		JWTMiddleware:          middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
