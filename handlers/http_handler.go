// Package handlers provides HTTP request handlers for the prescribing reference API.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/empirical-rx/brands"
	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/dosage"
	"github.com/giygas/empirical-rx/export"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/logging"
	"github.com/giygas/empirical-rx/metrics"
	"github.com/go-chi/chi/v5"
)

// maxLinkTextLength bounds the text accepted by /links
const maxLinkTextLength = 500

// Options carries the configuration the handlers need
type Options struct {
	AdminEnabled  bool
	DrugSearchURL string
}

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store         interfaces.CatalogStore
	validator     interfaces.InputValidator
	healthChecker interfaces.HealthChecker
	opts          Options
	startTime     time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	store interfaces.CatalogStore,
	validator interfaces.InputValidator,
	healthChecker interfaces.HealthChecker,
	opts Options,
) interfaces.HTTPHandler {
	if opts.DrugSearchURL == "" {
		opts.DrugSearchURL = brands.DefaultSearchURL
	}
	return &HTTPHandlerImpl{
		store:         store,
		validator:     validator,
		healthChecker: healthChecker,
		opts:          opts,
		startTime:     time.Now(),
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// SearchConditions returns the conditions whose name starts with ?q=, in catalog
// order. An empty query lists every condition; no match is an empty array.
func (h *HTTPHandlerImpl) SearchConditions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	if err := h.validator.ValidateQuery(query); err != nil {
		logging.Warn("Unusual user input", "q", query, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := h.store.LookupByPrefix(query)
	results := make([]ConditionResponse, 0, len(entries))
	for _, e := range entries {
		results = append(results, newConditionResponse(h.opts.DrugSearchURL, e))
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// GetCondition returns a single condition by exact (normalized) name
func (h *HTTPHandlerImpl) GetCondition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	if err := h.validator.ValidateQuery(name); err != nil || strings.TrimSpace(name) == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid condition name")
		return
	}

	record, ok := h.store.Get(name)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Condition not found")
		return
	}

	entry := entities.Entry{Name: catalog.Normalize(name), Record: record}
	h.RespondWithJSON(w, http.StatusOK, newConditionResponse(h.opts.DrugSearchURL, entry))
}

// addConditionRequest is the JSON body of POST /conditions
type addConditionRequest struct {
	Name       string   `json:"name"`
	FirstLine  string   `json:"firstLine"`
	Management []string `json:"management"`
	Symptoms   []string `json:"symptoms"`
	Labs       []string `json:"labs"`
}

// AddCondition inserts a new condition. Accepts a JSON body or form fields where
// management, symptoms and labs are newline-separated blocks.
func (h *HTTPHandlerImpl) AddCondition(w http.ResponseWriter, r *http.Request) {
	if !h.opts.AdminEnabled {
		h.RespondWithError(w, http.StatusForbidden, "Admin mode is disabled")
		return
	}

	name, input, err := h.decodeConditionInput(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.ValidateRecordInput(name, input); err != nil {
		logging.Warn("Rejected condition input", "name", name, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Insert(r.Context(), name, input); err != nil {
		switch {
		case errors.Is(err, catalog.ErrValidation):
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalog.ErrConflict):
			h.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			logging.Error("Failed to add condition", "name", name, "error", err)
			h.RespondWithError(w, http.StatusInternalServerError, "Failed to save condition")
		}
		return
	}

	key := catalog.Normalize(name)
	record, _ := h.store.Get(key)

	w.Header().Set("Location", "/conditions/"+url.PathEscape(key))
	h.RespondWithJSON(w, http.StatusCreated, newConditionResponse(h.opts.DrugSearchURL, entities.Entry{Name: key, Record: record}))
}

func (h *HTTPHandlerImpl) decodeConditionInput(r *http.Request) (string, entities.RecordInput, error) {
	if isJSON(r) {
		var req addConditionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", entities.RecordInput{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req.Name, entities.RecordInput{
			FirstLine:  req.FirstLine,
			Management: req.Management,
			Symptoms:   req.Symptoms,
			Labs:       req.Labs,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", entities.RecordInput{}, fmt.Errorf("invalid form body: %w", err)
	}
	name, input := catalog.ParseForm(
		r.PostFormValue("name"),
		r.PostFormValue("firstLine"),
		r.PostFormValue("management"),
		r.PostFormValue("symptoms"),
		r.PostFormValue("labs"),
	)
	return name, input, nil
}

// doseRequest is the JSON body of POST /dose
type doseRequest struct {
	Mode        string   `json:"mode"`
	WeightKg    *float64 `json:"weight_kg"`
	HeightCm    *float64 `json:"height_cm"`
	AdultDoseMg *float64 `json:"adult_dose_mg"`
}

// CalculateDose scales a reference adult dose. Inputs the formula can't use give
// 422 with a null result rather than a number.
func (h *HTTPHandlerImpl) CalculateDose(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDoseRequest(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, ok := dosage.Compute(req)
	if !ok {
		metrics.DoseCalculations.WithLabelValues(req.Mode.String(), "no_result").Inc()
		h.RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"mode":   req.Mode.String(),
			"result": nil,
		})
		return
	}

	metrics.DoseCalculations.WithLabelValues(req.Mode.String(), "ok").Inc()

	response := DoseResponse{Mode: result.Mode.String(), DoseMg: result.String()}
	if result.Mode == dosage.PediatricBSA {
		bsa := result.BSA
		response.BSA = &bsa
	}
	h.RespondWithJSON(w, http.StatusOK, response)
}

// decodeDoseRequest reads JSON numbers or raw form strings. Missing or unparseable
// numbers become zero so Compute reports no result for them.
func decodeDoseRequest(r *http.Request) (dosage.Request, error) {
	if isJSON(r) {
		var body doseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return dosage.Request{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		mode, err := dosage.ParseMode(body.Mode)
		if err != nil {
			return dosage.Request{}, err
		}
		return dosage.Request{
			Mode:                 mode,
			WeightKg:             deref(body.WeightKg),
			HeightCm:             deref(body.HeightCm),
			ReferenceAdultDoseMg: deref(body.AdultDoseMg),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return dosage.Request{}, fmt.Errorf("invalid form body: %w", err)
	}
	modeValue := r.PostFormValue("mode")
	mode, err := dosage.ParseMode(modeValue)
	if err != nil {
		return dosage.Request{}, err
	}
	req, ok := dosage.ParseRequest(modeValue, r.PostFormValue("weight"), r.PostFormValue("height"), r.PostFormValue("adult_dose"))
	if !ok {
		return dosage.Request{Mode: mode}, nil
	}
	return req, nil
}

// ExportCSV serves the catalog as a CSV attachment
func (h *HTTPHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "text/csv; charset=utf-8", "prescriptions.csv", export.WriteCSV)
}

// ExportJSON serves the catalog rows as a JSON attachment
func (h *HTTPHandlerImpl) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "application/json; charset=utf-8", "prescriptions.json", export.WriteJSON)
}

func (h *HTTPHandlerImpl) serveExport(
	w http.ResponseWriter,
	r *http.Request,
	contentType, filename string,
	write func(w io.Writer, entries []entities.Entry) error,
) {
	etag := `"` + h.store.Revision() + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, h.store.Entries()); err != nil {
		logging.Error("Failed to render export", "file", filename, "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("ETag", etag)
	if modified := h.store.LastModified(); !modified.IsZero() {
		w.Header().Set("Last-Modified", modified.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// BrandLinks returns drug-information links for the brands named in ?text=
func (h *HTTPHandlerImpl) BrandLinks(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing text")
		return
	}
	if utf8.RuneCountInString(text) > maxLinkTextLength {
		h.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Text too long: maximum %d characters", maxLinkTextLength))
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"text":  text,
		"links": brands.Links(h.opts.DrugSearchURL, text),
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	// Get memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)
	status, data, httpStatus := h.healthChecker.HealthCheck(r.Context())

	response := HealthResponse{
		Status:        status,
		Uptime:        formatUptimeHuman(uptime),
		UptimeSeconds: uptime.Seconds(),
		Data:          data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
