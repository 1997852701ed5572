package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-library/internal/database"
	"video-library/internal/handlers"
	"video-library/internal/library"
	"video-library/internal/logging"
	"video-library/internal/memory"
	"video-library/internal/metrics"
	"video-library/internal/middleware"
	"video-library/internal/player"
	"video-library/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT before any significant allocation
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	ctx := context.Background()

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Keep connection-pool gauges fresh
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		for range ticker.C {
			db.UpdateDBMetrics()
		}
	}()

	// Initialize library and player
	lib := library.New(db)
	pl := player.New(config.PlayerBinary)
	startup.LogPlayerInit(config.PlayerBinary)
	startup.LogThumbnailInit(config.ThumbnailsEnabled)

	// Initialize handlers
	h := handlers.New(lib, db, pl, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply middleware: logging, then metrics, then compression
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(meteredHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on its own port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, pl)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Scanning and browsing
	api.HandleFunc("/scan", h.TriggerScan).Methods("POST")
	api.HandleFunc("/folder-tree", h.GetFolderTree).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	// Catalog
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/videos/by-path", h.GetVideoByPath).Methods("GET")
	api.HandleFunc("/videos/move", h.MoveVideo).Methods("POST")
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods("GET")
	api.HandleFunc("/videos/{id}", h.DeleteVideo).Methods("DELETE")
	api.HandleFunc("/videos/{id}/metadata", h.GetVideoWithMetadata).Methods("GET")
	api.HandleFunc("/videos/{id}/thumbnail", h.GetThumbnail).Methods("GET")

	// Per-video taxonomy associations
	api.HandleFunc("/videos/{id}/tags", h.GetVideoTags).Methods("GET")
	api.HandleFunc("/videos/{id}/tags", h.SetVideoTags).Methods("PUT")
	api.HandleFunc("/videos/{id}/participants", h.GetVideoParticipants).Methods("GET")
	api.HandleFunc("/videos/{id}/participants", h.SetVideoParticipants).Methods("PUT")
	api.HandleFunc("/videos/{id}/languages", h.GetVideoLanguages).Methods("GET")
	api.HandleFunc("/videos/{id}/languages", h.SetVideoLanguages).Methods("PUT")

	// Playback positions
	api.HandleFunc("/videos/{id}/position", h.GetPlaybackPosition).Methods("GET")
	api.HandleFunc("/videos/{id}/position", h.SavePlaybackPosition).Methods("PUT")

	// Scan roots
	api.HandleFunc("/roots", h.ListRoots).Methods("GET")
	api.HandleFunc("/roots", h.AddRoot).Methods("POST")
	api.HandleFunc("/roots/depth", h.SetRootDepth).Methods("PUT")
	api.HandleFunc("/roots", h.RemoveRoot).Methods("DELETE")

	// Taxonomy
	api.HandleFunc("/tags", h.ListTags).Methods("GET")
	api.HandleFunc("/tags", h.CreateTag).Methods("POST")
	api.HandleFunc("/tags/{id}", h.UpdateTag).Methods("PUT")
	api.HandleFunc("/tags/{id}", h.DeleteTag).Methods("DELETE")
	api.HandleFunc("/participants", h.ListParticipants).Methods("GET")
	api.HandleFunc("/participants", h.CreateParticipant).Methods("POST")
	api.HandleFunc("/participants/{id}", h.UpdateParticipant).Methods("PUT")
	api.HandleFunc("/participants/{id}", h.DeleteParticipant).Methods("DELETE")
	api.HandleFunc("/languages", h.ListLanguages).Methods("GET")
	api.HandleFunc("/languages", h.CreateLanguage).Methods("POST")
	api.HandleFunc("/languages/{id}", h.UpdateLanguage).Methods("PUT")
	api.HandleFunc("/languages/{id}", h.DeleteLanguage).Methods("DELETE")

	// Player control
	api.HandleFunc("/player/play", h.PlayVideo).Methods("POST")
	api.HandleFunc("/player/stop", h.StopPlayer).Methods("POST")
	api.HandleFunc("/player/status", h.GetPlayerStatus).Methods("GET")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, pl *player.Player) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping player")
	pl.Stop()
	startup.LogShutdownStepComplete("Player stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
