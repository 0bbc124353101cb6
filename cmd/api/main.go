package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ava_assistant/internal/assistant"
	apphttp "ava_assistant/internal/http"
	"ava_assistant/internal/http/router"
	"ava_assistant/internal/images"
	"ava_assistant/internal/maps"
	"ava_assistant/internal/speech"
	"ava_assistant/internal/ui"
	"ava_assistant/platform/config"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
	"ava_assistant/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	registry := metrics.New()

	// Shared validator instance for dependency injection
	val := validator.New()

	// Language backend handle, shared by every request
	if !cfg.IsLanguageBackendConfigured() {
		log.Warn("language backend credential not configured; answers will fail until it is set", "provider", cfg.GetLLMProvider())
	}
	llm := assistant.NewBackend(ctx, cfg)

	recognizer, err := speech.NewRecognizer(ctx, cfg)
	if err != nil {
		log.Warn("speech recognizer unavailable; voice input will fail", "recognizer", cfg.GetSpeechRecognizer(), "error", err)
		recognizer = speech.NewUnavailableRecognizer(cfg.GetSpeechRecognizer(), err)
	}
	if closer, ok := recognizer.(interface{ Close() error }); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	renderer, err := maps.NewRenderer(cfg.GetMapZoom())
	if err != nil {
		log.Error("failed to initialize map renderer", "error", err)
		panic("failed to initialize map renderer: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	assistantModule := assistant.NewModule(llm, val, log, registry)

	listener := speech.NewListener(
		speech.NewMicrophone(),
		recognizer,
		speech.DefaultDetectorConfig(cfg.GetListenTimeout(), cfg.GetPhraseTimeLimit()),
		log,
		registry,
	)
	speaker := speech.NewSpeaker(cfg.GetTTSCommand(), cfg.GetTTSVoice(), log, registry)
	speechModule := speech.NewModule(listener, speaker, val)

	geocoder := maps.NewNominatimGeocoder(cfg, log)
	mapsModule := maps.NewModule(geocoder, renderer, val, log, registry)

	imagesModule := images.NewModule(cfg.GetUploadMaxBytes(), log)

	pageHandler, err := ui.NewHandler(
		assistantModule.Service(),
		speechModule.Listener(),
		speechModule.Speaker(),
		mapsModule.Service(),
		imagesModule.Service(),
		log,
	)
	if err != nil {
		log.Error("failed to initialize page templates", "error", err)
		panic("failed to initialize page templates: " + err.Error())
	}
	uiModule := ui.NewModule(pageHandler)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: registry,
		Modules: []apphttp.Module{
			assistantModule,
			speechModule,
			mapsModule,
			imagesModule,
			uiModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
