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
	flag "github.com/spf13/pflag"

	httpapi "github.com/uavchum/uavchum/internal/api/http"
	"github.com/uavchum/uavchum/internal/config"
	"github.com/uavchum/uavchum/internal/flight"
	"github.com/uavchum/uavchum/internal/livefeed"
	"github.com/uavchum/uavchum/internal/registry"
	"github.com/uavchum/uavchum/internal/upstream"
)

func main() {
	port := flag.String("port", "", "listen port (overrides PORT)")
	country := flag.String("country", "", "OpenAIP country code (overrides OPENAIP_COUNTRY)")
	profiles := flag.String("profiles", "", "drone-class profiles YAML file (overrides PROFILES_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *country != "" {
		cfg.Country = *country
	}
	if *profiles != "" {
		cfg.ProfilesFile = *profiles
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Layer registry with the always-offered layers seeded.
	reg := registry.New()

	// Providers with resilience (backoff + circuit breaker).
	weatherProvider := upstream.NewOpenMeteoProvider(httpClient)
	airspace := upstream.NewAirspaceClient(httpClient, cfg.Country)
	traffic := upstream.NewADSBClient(httpClient)
	radar := upstream.NewRainViewerClient(httpClient)

	var lightning livefeed.LightningSource
	if cfg.LightningRelayURL != "" {
		lightning = upstream.NewBlitzClient(httpClient, cfg.LightningRelayURL)
	} else {
		log.Printf("INFO: LIGHTNING_RELAY_URL not set; lightning feed disabled")
	}

	// Live feed scheduler for the volatile layers.
	feed := livefeed.New(reg, traffic, lightning, radar, livefeed.Config{
		TrafficInterval:   cfg.TrafficInterval,
		LightningInterval: cfg.LightningInterval,
		RadarInterval:     cfg.RadarInterval,
		TrafficRadiusNM:   cfg.TrafficRadiusNM,
		LightningRadiusNM: cfg.LightningRadiusNM,
		FetchTimeout:      cfg.HTTPTimeout,
	})
	feed.StartRadar()
	defer feed.Shutdown()

	// Core service orchestrating the briefing cycle.
	service := flight.NewService(weatherProvider, airspace, reg, feed)

	app := fiber.New(fiber.Config{
		AppName:               "uavchum",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "uavchum",
		})
	})

	httpapi.RegisterRoutes(app, service, reg)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
