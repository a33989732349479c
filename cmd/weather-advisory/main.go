package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-advisory/internal/advisory"
	httpapi "github.com/i474232898/weather-advisory/internal/api/http"
	"github.com/i474232898/weather-advisory/internal/config"
	"github.com/i474232898/weather-advisory/internal/registry"
	"github.com/i474232898/weather-advisory/internal/scheduler"
	"github.com/i474232898/weather-advisory/internal/upstream"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.OpenWeatherAPIKey == "" {
		// Startup-safe: requests degrade to an explicit error payload.
		log.Println("WARN: OPENWEATHER_API_KEY is not set; advisory requests will return an error payload")
	}

	// Location registry, loaded once and never mutated.
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		log.Fatalf("failed to load location registry: %v", err)
	}
	log.Printf("tracking %d locations", reg.Len())

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := upstream.NewClient(httpClient, cfg.OpenWeatherAPIKey)

	// Core service owning the result cache and rate-limit state.
	service := advisory.NewService(reg, client, advisory.Config{
		CacheTTL:      cfg.CacheTTL,
		RateLimit:     cfg.RateLimit,
		RateWindow:    cfg.RateWindow,
		FetchTimeout:  cfg.FetchTimeout,
		HasCredential: cfg.OpenWeatherAPIKey != "",
	})

	// Optional cache warmer.
	warmer := scheduler.New(cfg.WarmInterval, service)
	if err := warmer.Start(); err != nil {
		log.Fatalf("failed to start cache warmer: %v", err)
	}
	defer warmer.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-advisory",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-advisory",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
