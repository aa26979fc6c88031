// Meetgreet is a Microsoft Teams bot daemon that greets meeting
// participants: it tracks membership from Bot Framework webhook events
// and synthesizes a personalized spoken greeting when someone new joins.
//
// Usage:
//
//	meetgreet [flags]
//	meetgreet --config /path/to/meetgreet.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nadzzz/meetgreet/internal/bot"
	"github.com/nadzzz/meetgreet/internal/botframework"
	"github.com/nadzzz/meetgreet/internal/config"
	"github.com/nadzzz/meetgreet/internal/dispatch"
	"github.com/nadzzz/meetgreet/internal/health"
	"github.com/nadzzz/meetgreet/internal/meeting"
	"github.com/nadzzz/meetgreet/internal/transport"
	grpctransport "github.com/nadzzz/meetgreet/internal/transport/grpc"
	httptransport "github.com/nadzzz/meetgreet/internal/transport/http"
	"github.com/nadzzz/meetgreet/internal/tts"
	openaitts "github.com/nadzzz/meetgreet/internal/tts/openai"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/meetgreet.local.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("meetgreet %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("meetgreet starting", "version", version, "bot", cfg.Bot.Name)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the TTS backend.
	var synthesizer tts.Synthesizer
	var cleaner *openaitts.Synthesizer
	if cfg.TTS.Enabled {
		switch cfg.TTS.Backend {
		case "openai":
			s, err := openaitts.New(cfg.TTS.OpenAI)
			if err != nil {
				slog.Error("failed to initialize TTS", "error", err)
				os.Exit(1)
			}
			synthesizer = s
			cleaner = s
			slog.Info("using OpenAI TTS", "model", cfg.TTS.OpenAI.Model)
		default:
			slog.Error("unknown tts backend", "backend", cfg.TTS.Backend)
			os.Exit(1)
		}
		defer synthesizer.Close()
	} else {
		slog.Info("TTS disabled — greetings will be delivered as text only")
	}

	// Core wiring: tracker, connector, dispatcher, bot.
	tracker := meeting.NewTracker()
	connector := botframework.NewConnector(cfg.Bot.AppID, cfg.Bot.AppPassword)
	dispatcher := dispatch.New(synthesizer, connector, tracker, cfg.Bot.DefaultLanguage)
	greeter := bot.New(cfg.Bot.Name, tracker, dispatcher, connector)

	// Initialize enabled serving surfaces.
	var transports []transport.Transport
	var grpcSurface *grpctransport.Transport

	if cfg.Transports.HTTP.Enabled {
		transports = append(transports,
			httptransport.New(cfg.Transports.HTTP.Port, cfg.Bot.Name, greeter, tracker, dispatcher))
	}
	if cfg.Transports.GRPC.Enabled {
		grpcSurface = grpctransport.New(cfg.Transports.GRPC.Port)
		transports = append(transports, grpcSurface)
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled — enable at least one in config")
		os.Exit(1)
	}

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort, tracker)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Periodic sweep of old audio artifacts.
	if cleaner != nil && cfg.TTS.Cleanup.Interval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.TTS.Cleanup.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := cleaner.CleanupArtifacts(cfg.TTS.Cleanup.MaxAge); err != nil {
						slog.Warn("artifact cleanup failed", "error", err)
					}
				}
			}
		}()
	}

	// Start all serving surfaces.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all surfaces are started.
	healthServer.SetReady(true)
	if grpcSurface != nil {
		grpcSurface.SetServing(true)
	}
	slog.Info("meetgreet ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	healthServer.SetReady(false)
	if grpcSurface != nil {
		grpcSurface.SetServing(false)
	}

	// Close all serving surfaces gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("meetgreet stopped")
}
