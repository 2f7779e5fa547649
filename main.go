package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cinesage/api"
	"cinesage/config"
	"cinesage/handlers"
	"cinesage/services/catalog"
	"cinesage/services/generator"
	"cinesage/services/llm"
	"cinesage/services/metadata"
	"cinesage/services/suggester"
	"cinesage/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 cinesage Backend Starting...")

	// Best-effort .env loading so API keys can live next to the binary
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	configPath := os.Getenv("CINESAGE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.LLM.APIKey == "" {
		log.Printf("warning: no LLM API key configured; the AI tier will fall through to the local catalog")
	}

	// Construct the suggestion pipeline bottom-up: clients, tiers, orchestrator
	llmClient := llm.NewClient(settings.LLM.APIKey, llm.Options{
		Model:           settings.LLM.Model,
		Temperature:     settings.LLM.Temperature,
		TopP:            settings.LLM.TopP,
		TopK:            settings.LLM.TopK,
		MaxOutputTokens: settings.LLM.MaxOutputTokens,
		Timeout:         time.Duration(settings.LLM.TimeoutSeconds) * time.Second,
	}, nil)

	metadataClient := metadata.NewClient(settings.Metadata.BaseURL, settings.Metadata.APIKey,
		&http.Client{Timeout: time.Duration(settings.Metadata.TimeoutSeconds) * time.Second})

	generatorService := generator.NewService(llmClient, settings.Generator.Mode)
	catalogService := catalog.NewService(settings.Catalog.Seed)
	suggesterService := suggester.NewService(generatorService, catalogService, metadataClient, settings.Catalog.DesiredCount)

	slog.Info("suggestion pipeline ready",
		"generator_mode", settings.Generator.Mode,
		"model", settings.LLM.Model,
		"desired_count", settings.Catalog.DesiredCount,
	)

	// Construct router and register API routes
	var r *mux.Router = utils.NewRouter()
	suggestHandler := handlers.NewSuggestHandler(suggesterService, generatorService)
	api.Register(r, suggestHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for streaming responses
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
