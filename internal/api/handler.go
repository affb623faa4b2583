package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kartoza/mof-predictor/internal/config"
	"github.com/kartoza/mof-predictor/internal/history"
	"github.com/kartoza/mof-predictor/internal/httputil"
	"github.com/kartoza/mof-predictor/internal/models"
	"github.com/kartoza/mof-predictor/internal/predictor"
)

// maxUploadMemory is how much of a multipart body is held in memory before
// spilling to disk
const maxUploadMemory = 32 << 20

// HistoryReader lists stored predictions
type HistoryReader interface {
	List(limit int) ([]*models.PredictionRecord, error)
	Get(id string) (*models.PredictionRecord, error)
}

// Handler provides HTTP API endpoints
type Handler struct {
	service *predictor.Service
	history HistoryReader
	cfg     config.Config
}

// NewHandler creates a new API handler. hist may be nil.
func NewHandler(service *predictor.Service, hist HistoryReader, cfg config.Config) *Handler {
	return &Handler{
		service: service,
		history: hist,
		cfg:     cfg,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Liveness, health and info
	r.HandleFunc("/", h.handleRoot).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Prediction
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")

	// History
	r.HandleFunc("/predictions", h.handleListPredictions).Methods("GET")
	r.HandleFunc("/predictions/{id}", h.handleGetPrediction).Methods("GET")
}

// handleRoot is the liveness probe
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.StatusResponse{
		Message: "MOF Property Prediction API",
		Status:  "running",
	})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":         h.cfg.Version,
		"features":        predictor.FeatureNames,
		"history_enabled": h.history != nil,
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}

// handlePredict accepts a CIF upload and Miller indices and returns the
// predicted Young's modulus with ranked feature attributions
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	miller, err := parseMillerIndices(r)
	if err != nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res := h.service.Predict(header.Filename, file, miller)
	if !res.OK() {
		if res.Status >= http.StatusInternalServerError {
			log.Printf("Prediction for %q failed: %s", header.Filename, res.Message)
		}
		httputil.RespondError(w, res.Status, res.Message)
		return
	}

	httputil.RespondJSON(w, res.Status, res.Response)
}

// handleListPredictions returns recent predictions, newest first
func (h *Handler) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if h.history == nil {
		httputil.RespondJSON(w, http.StatusOK, []*models.PredictionRecord{})
		return
	}

	records, err := h.history.List(limit)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, records)
}

// handleGetPrediction returns a single stored prediction
func (h *Handler) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		httputil.RespondError(w, http.StatusNotFound, "prediction history is disabled")
		return
	}

	id := mux.Vars(r)["id"]
	rec, err := h.history.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// parseMillerIndices reads the millerH, millerK and millerL form fields
func parseMillerIndices(r *http.Request) (models.MillerIndices, error) {
	var m models.MillerIndices
	fields := []struct {
		name string
		dst  *int
	}{
		{"millerH", &m.H},
		{"millerK", &m.K},
		{"millerL", &m.L},
	}

	var missing, invalid []string
	for _, f := range fields {
		raw, ok := r.MultipartForm.Value[f.name]
		if !ok || len(raw) == 0 {
			missing = append(missing, f.name)
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw[0]))
		if err != nil {
			invalid = append(invalid, f.name)
			continue
		}
		*f.dst = v
	}

	switch {
	case len(missing) > 0:
		return m, fmt.Errorf("%s is required", strings.Join(missing, ", "))
	case len(invalid) > 0:
		return m, fmt.Errorf("%s must be an integer", strings.Join(invalid, ", "))
	}
	return m, nil
}
