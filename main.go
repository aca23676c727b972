package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mp4-converter/internal/artifacts"
	"mp4-converter/internal/converter"
	"mp4-converter/internal/handlers"
	"mp4-converter/internal/jobs"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/memory"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/middleware"
	"mp4-converter/internal/startup"
	"mp4-converter/internal/transcoder"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 30 * time.Second
	metricsInterval   = 15 * time.Second
	readHeaderTimeout = 15 * time.Second
)

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	store, err := artifacts.New(config.ScratchDir)
	if err != nil {
		startup.LogFatal("Failed to initialize scratch storage: %v", err)
	}
	startup.LogSweep(store.Sweep())

	trans := transcoder.New(transcoder.Config{
		FFmpegPath:  config.FFmpegPath,
		FFprobePath: config.FFprobePath,
	}, store)
	startup.LogTranscoderInit(config.FFmpegPath, trans.Available())

	tracker := jobs.NewTracker()
	orch := converter.New(store, trans, tracker, converter.WithMaxConcurrent(config.MaxConcurrent))

	ready := func() error {
		if err := trans.Available(); err != nil {
			return err
		}
		return startup.CheckWriteAccess(store.Dir())
	}

	h := handlers.New(orch, tracker, ready, config)

	router := setupRouter(h, config)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	metrics.InitializeMetrics(startup.Version, startup.Commit, startup.GoVersion)
	collector := metrics.NewCollector(pipelineStats(tracker, store), metricsInterval)
	collector.Start()

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           withMiddleware(router, config),
		ReadHeaderTimeout: readHeaderTimeout,
		// Uploads and conversions run longer than any fixed body timeout;
		// delivery sets its own per-write deadlines.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsRouter := http.NewServeMux()
		metricsRouter.Handle("/metrics", h.MetricsHandler())
		metricsRouter.HandleFunc("/health", h.LivenessCheck)
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsRouter,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return serve(srv) })
	if metricsSrv != nil {
		g.Go(func() error { return serve(metricsSrv) })
	}
	g.Go(func() error {
		reason := "server error"
		select {
		case sig := <-sigChan:
			reason = sig.String()
		case <-ctx.Done():
		}
		shutdown(reason, trans, collector, srv, metricsSrv)
		return nil
	})

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := g.Wait(); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Upload routes stream video back and stay outside compression. Upload
	// answers wrong methods itself so the 405 body is JSON.
	r.HandleFunc("/upload", h.Upload)
	r.HandleFunc("/api/upload", h.Upload)
	r.HandleFunc("/api/convert", h.Upload)

	compressed := r.NewRoute().Subrouter()
	compressed.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	compressed.HandleFunc("/health", h.HealthCheck).Methods("GET")
	compressed.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	compressed.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	compressed.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	compressed.HandleFunc("/version", h.GetVersion).Methods("GET")
	compressed.HandleFunc("/progress/{jobId}", h.GetProgress).Methods("GET")
	compressed.HandleFunc("/api/progress/{jobId}", h.GetProgress).Methods("GET")

	if config.StaticEnabled {
		compressed.PathPrefix("/").Handler(http.FileServer(http.Dir(config.StaticDir)))
	}

	return r
}

// withMiddleware wraps the router, outermost first: CORS, logging, metrics.
// Compression is applied per route in setupRouter.
func withMiddleware(router http.Handler, config *startup.Config) http.Handler {
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	return middleware.CORS(middleware.DefaultCORSConfig())(handler)
}

// jobCounter and scratchSizer are the parts of the pipeline sampled for gauges
type jobCounter interface {
	Len() int
}

type scratchSizer interface {
	Live() int
	Size() (int64, error)
}

func pipelineStats(tracker jobCounter, store scratchSizer) metrics.StatsProvider {
	return metrics.StatsFunc(func() metrics.Stats {
		size, err := store.Size()
		if err != nil {
			logging.Debug("Failed to size scratch directory: %v", err)
		}
		return metrics.Stats{
			TrackedJobs:   tracker.Len(),
			LiveArtifacts: store.Live(),
			ScratchBytes:  size,
		}
	})
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func shutdown(reason string, trans *transcoder.Transcoder, collector *metrics.Collector, servers ...*http.Server) {
	startup.LogShutdownInitiated(reason)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Stopping active conversions")
	trans.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Shutting down HTTP servers")
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Server shutdown error on %s: %v", srv.Addr, err)
			continue
		}
		startup.LogShutdownStepComplete("HTTP server on " + srv.Addr + " stopped")
	}

	startup.LogShutdownComplete()
}
