// Package server exposes the amortization engine over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/schedule"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/export"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/output"
	"github.com/iwvelando/loan-schedule/pkg/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the schedule API, the
// exports and the Prometheus metrics.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	registry := prometheus.NewRegistry()
	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metrics:       newMetrics(registry),
	}

	mux := http.NewServeMux()

	// Schedule API endpoint (JSON loan parameters)
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	// Schedule API endpoint (YAML loan file upload)
	mux.HandleFunc("/api/schedule/upload", h.handleScheduleUpload)

	// Exports of the computed schedule
	mux.HandleFunc("/api/export/csv", h.handleExport(exportCSV))
	mux.HandleFunc("/api/export/xlsx", h.handleExport(exportXLSX))
	mux.HandleFunc("/api/export/pdf", h.handleExport(exportPDF))
	mux.HandleFunc("/api/export/chart", h.handleExport(exportChart))

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return h.withRequestID(h.withAccessLog(mux))
}

// scheduleRequest is the JSON body accepted by the schedule and export
// endpoints.
type scheduleRequest struct {
	Name       string         `json:"name,omitempty"`
	Principal  float64        `json:"principal"`
	AnnualRate float64        `json:"annualRate"`
	Years      float64        `json:"years"`
	StartDate  string         `json:"startDate"`
	Currency   string         `json:"currency,omitempty"`
	Events     []requestEvent `json:"events,omitempty"`
	// ChartImage is an optional PNG embedded in PDF exports.
	ChartImage []byte `json:"chartImage,omitempty"`
}

type requestEvent struct {
	Date    string   `json:"date"`
	Amount  float64  `json:"amount,omitempty"`
	NewRate *float64 `json:"newRate,omitempty"`
}

type scheduleResponse struct {
	Name     string             `json:"name,omitempty"`
	Currency string             `json:"currency"`
	Rows     []loans.PeriodRow  `json:"rows"`
	Summary  report.Summary     `json:"summary"`
	Chart    report.ChartSeries `json:"chart"`
	CSV      string             `json:"csv"`
	Warnings []string           `json:"warnings,omitempty"`
	Duration string             `json:"duration"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	result, ok := h.compute(w, r, req, op)
	if !ok {
		return
	}
	h.respondSchedule(w, r, result, start, op)
}

func (h *handler) handleScheduleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			requestLogger(r, h.logger).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := schedule.Compute(requestLogger(r, h.logger), cfg)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, validationMessage(err), op)
		return
	}
	h.metrics.schedules.Inc()
	h.respondSchedule(w, r, result, start, op)
}

func (h *handler) respondSchedule(w http.ResponseWriter, r *http.Request, result *schedule.Result, start time.Time, op string) {
	csv, err := output.CsvString(result.Rows)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := scheduleResponse{
		Name:     result.Name,
		Currency: result.Currency,
		Rows:     result.Rows,
		Summary:  result.Summary,
		Chart:    result.Chart,
		CSV:      csv,
		Warnings: result.Warnings,
		Duration: elapsed.String(),
	}

	requestLogger(r, h.logger).Info("schedule computed",
		zap.String("op", op),
		zap.Int("rows", len(response.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

type exportKind int

const (
	exportCSV exportKind = iota
	exportXLSX
	exportPDF
	exportChart
)

func (k exportKind) String() string {
	switch k {
	case exportCSV:
		return "csv"
	case exportXLSX:
		return "xlsx"
	case exportPDF:
		return "pdf"
	case exportChart:
		return "chart"
	}
	return "unknown"
}

func (h *handler) handleExport(kind exportKind) http.HandlerFunc {
	op := "server.handleExport." + kind.String()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		req, ok := h.decodeRequest(w, r, op)
		if !ok {
			return
		}
		result, ok := h.compute(w, r, req, op)
		if !ok {
			return
		}

		var (
			buf         bytes.Buffer
			err         error
			contentType string
			filename    string
		)
		params := export.ParamsFromResult(result)
		switch kind {
		case exportCSV:
			err = output.CsvFormat(&buf, result.Rows)
			contentType, filename = "text/csv; charset=utf-8", "Loan_Amortization.csv"
		case exportXLSX:
			err = export.WriteXLSX(&buf, result.Rows, params)
			contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Loan_Amortization.xlsx"
		case exportPDF:
			err = export.WritePDF(&buf, result.Rows, params, req.ChartImage)
			contentType, filename = "application/pdf", "Loan_Amortization_Report.pdf"
		case exportChart:
			err = export.RenderChart(&buf, result.Chart)
			contentType, filename = "text/html; charset=utf-8", "Loan_Amortization_Chart.html"
		}
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, report.ErrEmptySchedule) {
				status = http.StatusBadRequest
			}
			h.respondError(w, r, status, fmt.Sprintf("export failed: %v", err), op)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			requestLogger(r, h.logger).Error("failed to write export", zap.String("op", op), zap.Error(err))
		}
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, op string) (*scheduleRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}

	var req scheduleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}
	return &req, true
}

func (h *handler) compute(w http.ResponseWriter, r *http.Request, req *scheduleRequest, op string) (*schedule.Result, bool) {
	input, scheduleEvents, err := req.toEngineInput()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, validationMessage(err), op)
		return nil, false
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	result, err := schedule.Run(requestLogger(r, h.logger), input, scheduleEvents, currency)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, validationMessage(err), op)
		return nil, false
	}
	result.Name = req.Name
	h.metrics.schedules.Inc()
	return result, true
}

// toEngineInput parses the request dates, collecting every malformed date.
func (req *scheduleRequest) toEngineInput() (loans.LoanInput, []loans.ScheduleEvent, error) {
	var errs error
	start, err := datetime.ParseDate(req.StartDate)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("start date: %w", err))
	}

	scheduleEvents := make([]loans.ScheduleEvent, 0, len(req.Events))
	for i, event := range req.Events {
		d, err := datetime.ParseDate(event.Date)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("event %d: %w", i+1, err))
			continue
		}
		scheduleEvents = append(scheduleEvents, loans.ScheduleEvent{Date: d, Amount: event.Amount, NewRate: event.NewRate})
	}
	if errs != nil {
		return loans.LoanInput{}, nil, errs
	}

	return loans.LoanInput{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRate,
		DurationYears:     req.Years,
		StartDate:         start,
	}, scheduleEvents, nil
}

func validationMessage(err error) string {
	errs := multierr.Errors(err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	requestLogger(r, h.logger).Error("schedule request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
