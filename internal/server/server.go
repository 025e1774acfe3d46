package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/artifact"
	"github.com/iwvelando/loan-report/internal/csvcodec"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/internal/report"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type contextKey int

const requestIDKey contextKey = iota

// Options wires the handler to its collaborators. Zero values select defaults.
type Options struct {
	MaxUploadSize  int64
	Version        string
	Store          artifact.Store
	Renderer       *report.Renderer
	Appraisal      appraisal.Options
	AllowedOrigins []string
	Limiter        *RateLimiter
	Now            func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         artifact.Store
	renderer      *report.Renderer
	codec         *csvcodec.Codec
	appraisal     appraisal.Options
	now           func() time.Time
}

type importResponse struct {
	Project        project.ProjectData `json:"project"`
	ImportedFields int                 `json:"importedFields"`
	UnknownHeaders []string            `json:"unknownHeaders,omitempty"`
	HeaderFallback bool                `json:"headerFallback,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
}

type appraisalResponse struct {
	Results  appraisal.CalculatedResults `json:"results"`
	Verdict  string                      `json:"verdict"`
	Rating   string                      `json:"dscrRating"`
	Warnings []string                    `json:"warnings,omitempty"`
}

type reportRequest struct {
	Project project.ProjectData          `json:"project"`
	Results *appraisal.CalculatedResults `json:"results,omitempty"`
}

type reportResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// CSV, appraisal and report API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	store := opts.Store
	if store == nil {
		store = artifact.NewMemoryStore(constants.DefaultArtifactTTL, constants.DefaultMaxArtifacts)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = report.NewRenderer(logger, report.Config{})
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	appraisalOpts := opts.Appraisal
	appraisalOpts.Logger = logger

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		store:         store,
		renderer:      renderer,
		codec:         csvcodec.New(logger),
		appraisal:     appraisalOpts,
		now:           now,
	}

	mux := http.NewServeMux()

	// CSV round trip for the form
	mux.HandleFunc("/api/csv/export", h.handleCSVExport)
	mux.HandleFunc("/api/csv/import", h.handleCSVImport)

	// Appraisal and report generation
	mux.HandleFunc("/api/appraisal", h.handleAppraisal)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/artifacts/{id}", h.handleArtifact)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	var root http.Handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
	}).Handler(mux)

	if opts.Limiter != nil {
		root = RateLimitMiddleware(opts.Limiter, root)
	}
	return h.requestID(root)
}

// requestID tags each request with a uuid, echoes it in the response and
// logs the completed request.
func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		h.logger.Debug("request served",
			zap.String("op", "server.requestID"),
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (h *handler) handleCSVExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCSVExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var p project.ProjectData
	if !h.decodeJSON(w, r, &p, op) {
		return
	}

	var exported artifact.Artifact
	collect := artifact.EmitterFunc(func(_ context.Context, a artifact.Artifact) error {
		exported = a
		return nil
	})
	if _, err := h.codec.Export(r.Context(), p, collect, h.now()); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeArtifact(w, exported)
}

func (h *handler) handleCSVImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCSVImport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing CSV file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	if err := csvcodec.ValidateFile(header.Filename, header.Size); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	p, result, err := h.codec.Import(r.Context(), file)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, csvcodec.ErrUnreadable) {
			status = http.StatusInternalServerError
		}
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, importResponse{
		Project:        p,
		ImportedFields: result.ImportedFields,
		UnknownHeaders: result.UnknownHeaders,
		HeaderFallback: result.HeaderFallback,
		Warnings:       appraisal.Warnings(p),
	})
}

func (h *handler) handleAppraisal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAppraisal"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var p project.ProjectData
	if !h.decodeJSON(w, r, &p, op) {
		return
	}

	results, err := appraisal.Compute(p, h.appraisal)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, appraisalResponse{
		Results:  results,
		Verdict:  results.Verdict().String(),
		Rating:   appraisal.RateDSCR(results.DSCRCalculation.Average).String(),
		Warnings: appraisal.Warnings(p),
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req reportRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	var results appraisal.CalculatedResults
	if req.Results != nil {
		results = *req.Results
	} else {
		computed, err := appraisal.Compute(req.Project, h.appraisal)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
		results = computed
	}

	emitter := &artifact.StoreEmitter{Store: h.store}
	a, err := h.renderer.Generate(r.Context(), req.Project, results, emitter)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	id := emitter.LastID()
	h.writeJSON(w, http.StatusCreated, reportResponse{
		ID:       id,
		Filename: a.Name,
		URL:      "/api/artifacts/" + id,
	})
}

func (h *handler) handleArtifact(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleArtifact"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	a, err := h.store.Load(r.Context(), r.PathValue("id"))
	if errors.Is(err, artifact.ErrNotFound) {
		h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeArtifact(w, a)
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

// decodeJSON reads a size-capped JSON body into dst, answering the request
// itself when that fails.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", requestIDFrom(r.Context())),
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

func (h *handler) writeArtifact(w http.ResponseWriter, a artifact.Artifact) {
	w.Header().Set("Content-Type", a.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		h.logger.Error("failed to write artifact",
			zap.String("op", "server.writeArtifact"),
			zap.String("name", a.Name),
			zap.Error(err),
		)
	}
}
