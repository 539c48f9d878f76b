// Package server exposes the planning engine as a JSON API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/session"
	"github.com/iwvelando/macro-planner/internal/suggest"
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/output"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options tunes the handler.
type Options struct {
	MaxBodySize    int64
	Version        string
	AllowedOrigins []string
}

type handler struct {
	logger      *zap.Logger
	store       *session.Store
	maxBodySize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the planning API.
func NewHandler(logger *zap.Logger, store *session.Store, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handler{logger: logger, store: store, maxBodySize: maxBodySize, version: trimmedVersion, now: time.Now}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/estimate", h.handleEstimate).Methods(http.MethodPost)

	api.HandleFunc("/sessions", h.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/split", h.handleSplit).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/meals/{mealId}/calories", h.handleAdjustCalories).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/meals/{mealId}/macros/{macro}", h.handleAdjustMacro).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/settings", h.handleSettings).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/report", h.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/suggestions", h.handleSuggest).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/prescriptions/{mealId}/foods/{foodId}", h.handleChangeQuantity).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/export", h.handleExport).Methods(http.MethodGet)

	r.Use(h.loggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (h *handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := h.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request served",
			zap.String("op", "server.loggingMiddleware"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type estimateResponse struct {
	Profile  nutrition.PatientProfile    `json:"profile"`
	Estimate nutrition.EstimateBreakdown `json:"estimate"`
	Report   string                      `json:"report"`
}

type valueRequest struct {
	Value *int `json:"value"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type settingsRequest struct {
	AutoRedistribute *bool `json:"autoRedistribute"`
}

type adjustmentResponse struct {
	Session    session.Session      `json:"session"`
	Adjustment nutrition.Adjustment `json:"adjustment"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"
	var profile nutrition.PatientProfile
	if !h.decode(w, r, &profile, op) {
		return
	}
	normalized, err := profile.Normalize()
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	breakdown, err := nutrition.Breakdown(normalized)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, estimateResponse{
		Profile:  normalized,
		Estimate: breakdown,
		Report:   output.MacroReport(normalized, breakdown),
	})
}

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateSession"
	var profile nutrition.PatientProfile
	if !h.decode(w, r, &profile, op) {
		return
	}
	s, err := h.store.Create(profile)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, s)
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSession"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	s, err := h.store.Get(id)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteSession"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSplit(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSplit"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	// Fields left out of the body keep their defaults.
	opts := nutrition.DefaultSplitOptions()
	if !h.decodeOptional(w, r, &opts, op) {
		return
	}
	s, err := h.store.Split(id, opts)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleAdjustCalories(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdjustCalories"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	var req valueRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Value == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing value", op)
		return
	}
	s, adj, err := h.store.AdjustCalories(id, mux.Vars(r)["mealId"], *req.Value)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, adjustmentResponse{Session: s, Adjustment: adj})
}

func (h *handler) handleAdjustMacro(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdjustMacro"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	macro, err := nutrition.ParseMacro(mux.Vars(r)["macro"])
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	var req valueRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Value == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing value", op)
		return
	}
	s, adj, err := h.store.AdjustMacro(id, mux.Vars(r)["mealId"], macro, *req.Value)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, adjustmentResponse{Session: s, Adjustment: adj})
}

func (h *handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSettings"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	var req settingsRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.AutoRedistribute == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing autoRedistribute", op)
		return
	}
	s, err := h.store.SetAutoRedistribute(id, *req.AutoRedistribute)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	mode, err := nutrition.ParseReportMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	opts := nutrition.DefaultReportOptions()
	opts.Mode = mode
	report, err := h.store.Report(id, opts)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSuggest"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	s, err := h.store.Suggest(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleChangeQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChangeQuantity"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	var req quantityRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Quantity == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing quantity", op)
		return
	}
	vars := mux.Vars(r)
	s, err := h.store.ChangeQuantity(id, vars["mealId"], vars["foodId"], *req.Quantity)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	id, ok := h.sessionID(w, r, op)
	if !ok {
		return
	}
	s, err := h.store.Get(id)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}

	plan := output.Plan{
		Profile:       s.Profile,
		Estimate:      s.Estimate,
		Meals:         s.Meals,
		Adjustments:   s.History,
		Report:        nutrition.Report(s.Meals, s.Budget, nutrition.DefaultReportOptions()),
		Prescriptions: s.Prescriptions,
	}
	var buf bytes.Buffer
	if err := output.WriteYAML(&buf, output.NewSavedPlan(plan, h.now())); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"plan-%s.yaml\"", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) sessionID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid session id: %v", err), op)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into v, answering the request itself on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	return h.decodeBody(w, r, v, op, false)
}

// decodeOptional is decode but accepts an empty body, leaving v as it was.
func (h *handler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	return h.decodeBody(w, r, v, op, true)
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, op string, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// statusFor maps an engine or store error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, nutrition.ErrMealNotFound),
		errors.Is(err, suggest.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, session.ErrSuggestionsDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, nutrition.ErrInvalidShareSum),
		errors.Is(err, nutrition.ErrDivisionByZero),
		errors.Is(err, nutrition.ErrInvalidMealCount),
		errors.Is(err, nutrition.ErrUnknownMacro),
		errors.Is(err, nutrition.ErrNegativeValue),
		errors.Is(err, nutrition.ErrUnknownSex),
		errors.Is(err, nutrition.ErrUnknownActivityLevel),
		errors.Is(err, nutrition.ErrUnknownGoal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *handler) respondDomainError(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Info("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// NewStore builds the session store the server runs on from its config.
func NewStore(logger *zap.Logger, cfg *Config) *session.Store {
	opts := nutrition.EngineOptions{
		AutoRedistribute: cfg.Adjustments.AutoRedistribute,
		CalorieFloor:     cfg.Adjustments.CalorieFloor,
	}
	var provider suggest.Provider
	if cfg.Suggestions.Enabled {
		provider = suggest.NewMockProvider(logger, cfg.Suggestions.Seed, cfg.Suggestions.MaxFoods)
	}
	return session.NewStore(logger, opts, provider)
}
