package main

import (
	"os"
	"time"

	"invoicedesk-backend/config"
	"invoicedesk-backend/controllers"
	"invoicedesk-backend/database"
	"invoicedesk-backend/logger"
	"invoicedesk-backend/mailer"
	"invoicedesk-backend/middlewares"
	"invoicedesk-backend/pdfgen"
	"invoicedesk-backend/routes"
	"invoicedesk-backend/store"
	"invoicedesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"
)

func main() {
	// ---- Config (missing mail credentials are fatal)
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't configured yet; write plainly and exit.
		os.Stderr.WriteString("startup: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("startup: " + err.Error() + "\n")
		os.Exit(1)
	}

	// ---- Storage location must exist before we accept requests
	if err := utils.EnsureDir(cfg.UploadDir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("could not create upload directory")
	}

	// ---- Database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// ---- Mail
	mail, err := mailer.New(cfg.EmailUser, cfg.EmailPass, cfg.SMTPHost)
	if err != nil {
		log.Fatal().Err(err).Msg("mail client setup failed")
	}

	// ---- Wiring
	renderer := &pdfgen.Renderer{Dir: cfg.UploadDir}
	invoices := store.New(database.DB, renderer, logger.WithComponent("store"))
	controllers.Setup(invoices, mail, cfg.UploadDir, logger.WithComponent("http"))

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 MiB if unset; uploads need headroom.
	bodyLimitBytes := utils.ParseIntDefault(os.Getenv("BODY_LIMIT_BYTES"), 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = utils.ParseIntDefault(os.Getenv("BODY_LIMIT_MB"), 10) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := utils.ParseIntDefault(os.Getenv("RATE_LIMIT_MAX"), 60)
	rlWindow := time.Duration(utils.ParseIntDefault(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 60)) * time.Second
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
	}))

	// ---- Routes
	routes.Register(app, cfg.UploadDir)

	// ---- Start
	log.Info().Str("port", cfg.Port).Msg("starting API server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
