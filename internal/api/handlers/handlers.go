// Package handlers implements the dashboard HTTP API over the in-memory
// dataset: KPI summaries, rankings, period comparison, chat and exports.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinoventas/dashboard/internal/analytics"
	"github.com/vinoventas/dashboard/internal/api/middleware"
	"github.com/vinoventas/dashboard/internal/assistant"
	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
	"github.com/vinoventas/dashboard/internal/jobs"
)

const defaultRecordsLimit = 500

// Asker abstracts the chat assistant so handlers can be tested without a
// live model.
type Asker interface {
	Ask(ctx context.Context, filtered []domain.SaleRecord, vocab dataset.Vocabulary, filters domain.FilterConfig, question string) (*assistant.Reply, error)
}

// DashboardHandler serves the analytics endpoints. The dataset is loaded
// once at startup and treated as immutable.
type DashboardHandler struct {
	records []domain.SaleRecord
	vocab   dataset.Vocabulary
	log     zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(records []domain.SaleRecord, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		records: records,
		vocab:   dataset.ExtractVocabulary(records),
		log:     log,
	}
}

// filterFromQuery builds a filter from query parameters, leaving unset
// dimensions at their "all" sentinel.
func filterFromQuery(r *http.Request) domain.FilterConfig {
	q := r.URL.Query()
	f := domain.DefaultFilter()
	if v := q.Get("año"); v != "" {
		f.Year = v
	}
	if v := q.Get("mes"); v != "" {
		f.Month = v
	}
	if v := q.Get("vendedor"); v != "" {
		f.Salesperson = v
	}
	if v := q.Get("marca"); v != "" {
		f.Brand = v
	}
	if v := q.Get("producto"); v != "" {
		f.Product = v
	}
	return f
}

// validFilter rejects values outside the dataset vocabulary before any
// aggregation runs.
func (h *DashboardHandler) validFilter(w http.ResponseWriter, f domain.FilterConfig) bool {
	if !h.vocab.ValidFilter(f) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown filter value")
		return false
	}
	return true
}

// comparisonBlock is the comparison section of the summary response.
type comparisonBlock struct {
	Config       domain.ComparisonConfig      `json:"configuracion"`
	PriorSummary analytics.Summary            `json:"resumenAnterior"`
	Changes      map[string]*analytics.Change `json:"cambios"`
	Label        string                       `json:"etiqueta"`
}

// GetSummary handles GET /api/summary.
// The optional "comparacion" parameter activates period comparison.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if !h.validFilter(w, f) {
		return
	}

	filtered := analytics.ApplyFilters(h.records, f)
	summary := analytics.Summarize(filtered)

	resp := map[string]interface{}{
		"resumen": summary,
		"filtros": f,
	}

	if mode := r.URL.Query().Get("comparacion"); mode != "" {
		cfg := analytics.Activate(f, domain.ComparisonMode(mode))
		prior := analytics.Summarize(analytics.ApplyFilters(h.records, *cfg.ComparisonFilter))

		resp["comparacion"] = comparisonBlock{
			Config:       cfg,
			PriorSummary: prior,
			Changes: map[string]*analytics.Change{
				"ventasTotales":    analytics.ComputeChange(summary.TotalSales, prior.TotalSales),
				"unidadesVendidas": analytics.ComputeChange(summary.TotalUnits, prior.TotalUnits),
				"transacciones":    analytics.ComputeCountChange(summary.Transactions, prior.Transactions),
				"clientesUnicos":   analytics.ComputeCountChange(summary.UniqueCustomers, prior.UniqueCustomers),
				"ticketPromedio":   analytics.ComputeChange(summary.AverageTicket, prior.AverageTicket),
			},
			Label: analytics.ComparisonLabel(cfg, f),
		}
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// GetAggregates handles GET /api/aggregates.
// It returns every ranking the dashboard charts read from.
func (h *DashboardHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if !h.validFilter(w, f) {
		return
	}

	filtered := analytics.ApplyFilters(h.records, f)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"productos":        analytics.TopProducts(filtered, 10),
		"vendedores":       analytics.SalespersonRanking(filtered),
		"marcas":           analytics.TopBrands(filtered, 10),
		"ventasPorMes":     analytics.MonthlyTotals(filtered),
		"clientes":         analytics.TopCustomers(filtered, 15),
		"clientesPorMarca": analytics.TopBrandCustomers(filtered, 5, 3),
	})
}

// GetFilters handles GET /api/filters.
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"opciones":          h.vocab,
		"filtrosPorDefecto": domain.DefaultFilter(),
	})
}

// GetRecords handles GET /api/records.
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if !h.validFilter(w, f) {
		return
	}

	limit := defaultRecordsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	filtered := analytics.ApplyFilters(h.records, f)
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"registros": filtered,
		"total":     total,
	})
}

// ChatHandler serves the assistant endpoint.
type ChatHandler struct {
	records []domain.SaleRecord
	vocab   dataset.Vocabulary
	asker   Asker
	log     zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(records []domain.SaleRecord, asker Asker, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		records: records,
		vocab:   dataset.ExtractVocabulary(records),
		asker:   asker,
		log:     log,
	}
}

// Chat handles POST /api/chat.
// A model failure is not retried; the user gets a fallback message and
// simply asks again.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string               `json:"pregunta"`
		Filters  *domain.FilterConfig `json:"filtros"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "pregunta is required")
		return
	}

	f := domain.DefaultFilter()
	if req.Filters != nil {
		f = *req.Filters
	}
	if !h.vocab.ValidFilter(f) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown filter value")
		return
	}

	filtered := analytics.ApplyFilters(h.records, f)

	reply, err := h.asker.Ask(r.Context(), filtered, h.vocab, f, req.Question)
	if err != nil {
		h.log.Error().Err(err).Msg("Chat model call failed")
		middleware.WriteJSON(w, http.StatusOK, assistant.Reply{Message: assistant.FallbackMessage})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, reply)
}

// ExportsHandler enqueues report exports and reports job status.
type ExportsHandler struct {
	vocab      dataset.Vocabulary
	publisher  jobs.Publisher
	store      jobs.JobStore
	exportsDir string
	log        zerolog.Logger
}

// NewExportsHandler creates a new exports handler.
func NewExportsHandler(records []domain.SaleRecord, publisher jobs.Publisher, store jobs.JobStore, exportsDir string, log zerolog.Logger) *ExportsHandler {
	return &ExportsHandler{
		vocab:      dataset.ExtractVocabulary(records),
		publisher:  publisher,
		store:      store,
		exportsDir: exportsDir,
		log:        log,
	}
}

// EnqueueExport handles POST /api/exports.
func (h *ExportsHandler) EnqueueExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filters *domain.FilterConfig `json:"filtros"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f := domain.DefaultFilter()
	if req.Filters != nil {
		f = *req.Filters
	}
	if !h.vocab.ValidFilter(f) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown filter value")
		return
	}

	name := fmt.Sprintf("reporte-%s-%s.xlsx", time.Now().Format("20060102-150405"), uuid.New().String()[:8])
	job := &jobs.ExportReportJob{
		Filter:     f,
		OutputPath: filepath.Join(h.exportsDir, name),
	}

	if err := h.publisher.PublishExportReport(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue export job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue export job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("output", job.OutputPath).Msg("Export job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"output_path": job.OutputPath,
		"status":      string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{id}.
func (h *ExportsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs.
func (h *ExportsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
