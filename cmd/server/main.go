package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advisordocs/reportgen/internal/api"
	"github.com/advisordocs/reportgen/internal/config"
	"github.com/advisordocs/reportgen/internal/extract"
	"github.com/advisordocs/reportgen/internal/pipeline"
	"github.com/advisordocs/reportgen/internal/schema"
	"github.com/advisordocs/reportgen/internal/template"
	"github.com/advisordocs/reportgen/internal/template/mapping"
	"github.com/advisordocs/reportgen/internal/transcribe"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load static assets up front so a bad deployment fails fast.
	fieldSchema, err := schema.Load(cfg.RulesPath, cfg.RulesSheet)
	if err != nil {
		log.Error("failed to load field rules", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}
	mapCfg, err := mapping.Load(cfg.MappingPath)
	if err != nil {
		log.Error("failed to load section mapping", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.TemplatePath); err != nil {
		log.Error("report template not found", "path", cfg.TemplatePath, "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	claude := extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	extractor := extract.NewExtractor(claude, fieldSchema, log)

	var transcriber *transcribe.Client
	if cfg.AssemblyAIAPIKey != "" {
		transcriber = transcribe.NewClient(cfg.AssemblyAIAPIKey)
	} else {
		log.Warn("ASSEMBLYAI_API_KEY not set, audio/video uploads disabled")
	}

	patcher := template.New(mapCfg, log,
		template.WithFont(cfg.FontName),
		template.WithStrict(cfg.StrictPlaceholders))

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, transcriber, extractor, patcher, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting requests before closing the job queue so a late
		// upload cannot hit a closed channel.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		claude.Close()
		if transcriber != nil {
			transcriber.Close()
		}
	}()

	log.Info("starting reportgen", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
