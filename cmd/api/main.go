package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vinoventas/dashboard/internal/analytics"
	"github.com/vinoventas/dashboard/internal/api/handlers"
	"github.com/vinoventas/dashboard/internal/api/middleware"
	"github.com/vinoventas/dashboard/internal/assistant"
	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
	"github.com/vinoventas/dashboard/internal/export"
	"github.com/vinoventas/dashboard/internal/jobs"
	"github.com/vinoventas/dashboard/internal/jobs/inmemory"
	"github.com/vinoventas/dashboard/internal/logger"
	"github.com/vinoventas/dashboard/internal/store"
)

func main() {
	// Parse command-line flags
	var (
		port       = flag.String("port", "8080", "HTTP server port")
		dataPath   = flag.String("data", "ventas_data.json", "Path to the sales dataset JSON file")
		gcsURI     = flag.String("gcs-uri", os.Getenv("DATASET_GCS_URI"), "GCS URI of the dataset (overrides -data; or set DATASET_GCS_URI env)")
		bqProject  = flag.String("bq-project", os.Getenv("BQ_PROJECT"), "BigQuery project to load the dataset from (overrides -data and -gcs-uri)")
		bqDataset  = flag.String("bq-dataset", envOr("BQ_DATASET", "ventas"), "BigQuery dataset name")
		bqTable    = flag.String("bq-table", envOr("BQ_TABLE", "sales"), "BigQuery table name")
		exportsDir = flag.String("exports-dir", "exports", "Directory for generated Excel reports")
		model      = flag.String("model", assistant.DefaultModel, "Gemini model for the chat assistant")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Load the dataset once; every request serves from this snapshot.
	records, err := loadRecords(ctx, *bqProject, *bqDataset, *bqTable, *gcsURI, *dataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load sales dataset")
	}
	log.Info().Int("records", len(records)).Msg("Sales dataset loaded")

	if err := os.MkdirAll(*exportsDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *exportsDir).Msg("Failed to create exports directory")
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Export worker: renders the workbook for each enqueued job.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		exportJob, ok := job.(*jobs.ExportReportJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", exportJob.JobID).
			Str("output", exportJob.OutputPath).
			Msg("Processing export job")

		filtered := analytics.ApplyFilters(records, exportJob.Filter)
		if err := export.WriteFile(exportJob.OutputPath, filtered, exportJob.Filter); err != nil {
			log.Error().
				Err(err).
				Str("job_id", exportJob.JobID).
				Msg("Export failed")
			return err
		}

		log.Info().
			Str("job_id", exportJob.JobID).
			Int("records", len(filtered)).
			Msg("Export completed successfully")

		return nil
	}

	go func() {
		log.Info().Msg("Starting export worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Export worker stopped with error")
		}
	}()

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(records, log)
	chatHandler := handlers.NewChatHandler(records, assistant.New(*model), log)
	exportsHandler := handlers.NewExportsHandler(records, jobQueue, jobStore, *exportsDir, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/summary", getOnly(dashboardHandler.GetSummary))
	mux.HandleFunc("/api/aggregates", getOnly(dashboardHandler.GetAggregates))
	mux.HandleFunc("/api/filters", getOnly(dashboardHandler.GetFilters))
	mux.HandleFunc("/api/records", getOnly(dashboardHandler.GetRecords))

	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/exports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			exportsHandler.EnqueueExport(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", getOnly(exportsHandler.ListJobs))
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			exportsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight exports
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// loadRecords picks the dataset source: BigQuery, then GCS, then local file.
func loadRecords(ctx context.Context, bqProject, bqDataset, bqTable, gcsURI, dataPath string) ([]domain.SaleRecord, error) {
	if bqProject != "" {
		client, err := store.NewClient(ctx, bqProject, bqDataset, bqTable)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return client.ListAllSales(ctx)
	}
	if gcsURI != "" {
		return dataset.LoadGCS(ctx, gcsURI)
	}
	return dataset.LoadFile(dataPath)
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
