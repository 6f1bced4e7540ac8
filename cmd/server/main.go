package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/application"
	"github.com/TixyFR/alymjr-portfolio-98/internal/config"
	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
	"github.com/TixyFR/alymjr-portfolio-98/internal/email"
	"github.com/TixyFR/alymjr-portfolio-98/internal/infrastructure/repository"
	"github.com/TixyFR/alymjr-portfolio-98/internal/infrastructure/store"
	handlers "github.com/TixyFR/alymjr-portfolio-98/internal/interfaces/http"
	services "github.com/TixyFR/alymjr-portfolio-98/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	var (
		contentStore domain.ContentStore
		db           *sql.DB
	)
	switch cfg.Store {
	case "memory":
		contentStore = store.NewMemoryStore()
	default:
		db, err = sql.Open("postgres", cfg.GetDBConnString())
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("ping database", zap.Error(err))
		}
		contentStore = store.NewPostgresStore(db, cfg.GetDBConnString())
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	// Content
	contentRepo := application.NewContentRepository(contentStore,
		application.WithLogger(logger),
	)
	defer contentRepo.Close()
	reorderer := application.NewReorderCoordinator(contentRepo)
	contentHandler := handlers.NewContentHandler(contentRepo, reorderer)
	liveHandler := handlers.NewLiveHandler(contentStore, logger)

	// Email client
	var mailer application.Mailer
	if cfg.SMTPHost != "" {
		client, err := email.NewClient(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.SMTPFromName,
			cfg.SMTPFromEmail,
			logger,
		)
		if err != nil {
			logger.Warn("email client initialization failed", zap.Error(err))
		} else {
			mailer = client
		}
	}

	// Contact (needs the database even in memory content mode)
	var contactHandler *handlers.ContactHandler
	if db != nil {
		contactRepo := repository.NewContactRepository(db)
		contactService := application.NewContactService(contactRepo, mailer, cfg.ContactEmail, logger)
		contactLimiter := application.NewRateLimiter(time.Minute, 5)
		defer contactLimiter.Stop()
		contactHandler = handlers.NewContactHandler(contactService, contactLimiter)
	}

	// Uploads
	var s3Handler *handlers.S3Handler
	if cfg.S3BucketName != "" {
		s3Service, err := services.NewS3Service(cfg.S3BucketName, cfg.S3Region)
		if err != nil {
			logger.Warn("S3 service initialization failed", zap.Error(err))
		} else {
			s3Handler = handlers.NewS3Handler(s3Service, logger)
		}
	}

	api := app.Group("/api")

	content := api.Group("/content")
	content.Get("/", contentHandler.GetContent)
	content.Post("/", contentHandler.AddContent)
	content.Post("/reorder", contentHandler.ReorderContent)
	content.Get("/live", liveHandler.Upgrade, liveHandler.Stream())
	content.Put("/:id", contentHandler.UpdateContent)
	content.Delete("/:id", contentHandler.DeleteContent)

	if contactHandler != nil {
		contact := api.Group("/contact")
		contact.Post("/", contactHandler.Create)
		contact.Get("/", contactHandler.List)
		contact.Patch("/:id/read", contactHandler.SetRead)
		contact.Delete("/:id", contactHandler.Delete)
	}

	if s3Handler != nil {
		api.Post("/upload/images", s3Handler.HandleUploadImage)
	}

	logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("store", cfg.Store))
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
