package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/config"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/enrich"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/importer"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"correlations": s.deps.Correlations.Len(),
		"requests":     s.deps.Tracker.Len(),
	})
}

// handlePhoneWebhook always answers 200 so Apollo never retries a delivery.
func (s *Server) handlePhoneWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		zap.L().Warn("webhook: read body", zap.Error(err))
		writeJSON(w, http.StatusOK, errorBody{Success: false, Error: "Failed to read webhook body"})
		return
	}

	out := s.deps.Reconciler.HandleBody(r.Context(), body)
	writeJSON(w, http.StatusOK, out.Response())
}

func (s *Server) handleGetPhoneNumbers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "identifier")
	entry, ok := s.deps.Correlations.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "No phone numbers found for this identifier")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"identifier":    id,
		"phone_numbers": entry.PhoneNumbers,
	})
}

type enrichSingleRequest struct {
	keyed
	model.EnrichParams
	UserID         string `json:"user_id"`
	ContactID      string `json:"contact_id"`
	WaitForWebhook bool   `json:"wait_for_webhook"`
}

func (s *Server) handleEnrichSingle(w http.ResponseWriter, r *http.Request) {
	var req enrichSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := s.providerFor(req.key())
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API key is required")
		return
	}

	res := s.orchestrator(p).EnrichPerson(r.Context(), req.EnrichParams, enrich.Options{
		UserID:         req.UserID,
		ContactID:      req.ContactID,
		WaitForWebhook: req.WaitForWebhook,
		WebhookWait:    s.deps.Enrich.WebhookWait,
	})
	if res.Person == nil {
		writeJSON(w, http.StatusOK, errorBody{Success: false, Error: "No matching person found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}

type enrichBatchRequest struct {
	keyed
	UserID      string               `json:"user_id"`
	People      []model.EnrichParams `json:"people"`
	ContactIDs  map[string]string    `json:"contact_ids"`
	Concurrency int                  `json:"concurrency"`
}

type batchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

func (s *Server) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	var req enrichBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.People) == 0 {
		writeError(w, http.StatusBadRequest, "people is required")
		return
	}
	p := s.providerFor(req.key())
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API key is required")
		return
	}

	items := s.orchestrator(p).EnrichPeopleParallel(r.Context(), req.People, enrich.ParallelOptions{
		UserID:      req.UserID,
		ContactIDs:  req.ContactIDs,
		Concurrency: req.Concurrency,
	})

	sum := batchSummary{Total: len(items)}
	for _, it := range items {
		if it.Enriched.Person != nil {
			sum.Successful++
		} else {
			sum.Failed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": items, "summary": sum})
}

func (s *Server) handleUploadAndEnrich(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	key := r.FormValue("api_key")
	if key == "" {
		key = r.FormValue("apiKey")
	}
	p := s.providerFor(key)
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API key is required")
		return
	}

	format, err := importer.DetectFormat(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only Excel (.xlsx) and CSV files are allowed.")
		return
	}
	rows, err := importer.ReadRows(file, format)
	if err != nil {
		zap.L().Warn("upload: parse file", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, "Could not parse uploaded file")
		return
	}
	people := importer.MapRows(rows)
	if len(people) == 0 {
		writeError(w, http.StatusBadRequest, "No data found in the uploaded file")
		return
	}

	zap.L().Info("upload: processing file",
		zap.String("file", header.Filename),
		zap.Int("rows", len(people)),
	)

	rep := importer.BuildReport(p.BatchEnrich(r.Context(), people))

	zap.L().Info("upload: enrichment complete",
		zap.String("run_id", rep.RunID),
		zap.Int("total", rep.Summary.Total),
		zap.Int("success", rep.Summary.Successful),
		zap.Int("failures", rep.Summary.Failed),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"run_id":  rep.RunID,
		"results": rep.Results,
		"summary": rep.Summary,
	})
}

type enrichPhonesRequest struct {
	keyed
	UserID        string   `json:"user_id"`
	ContactIDs    []string `json:"contact_ids"`
	ContactIDsAlt []string `json:"contactIds"`
}

func (s *Server) handleEnrichContactPhones(w http.ResponseWriter, r *http.Request) {
	var req enrichPhonesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids := req.ContactIDs
	if len(ids) == 0 {
		ids = req.ContactIDsAlt
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "contactIds array is required")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if s.deps.Contacts == nil {
		writeError(w, http.StatusInternalServerError, "Contact store is not configured")
		return
	}
	p := s.providerFor(req.key())
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API not configured. Please configure Apollo integration first.")
		return
	}

	zap.L().Info("contacts: enriching phone numbers", zap.String("user_id", req.UserID), zap.Int("contacts", len(ids)))

	sum := s.orchestrator(p).EnrichContactPhones(r.Context(), s.deps.Contacts, req.UserID, ids)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("Triggered phone number enrichment for %d contacts", sum.EnrichedCount),
		"enrichedCount": sum.EnrichedCount,
		"results":       sum.Results,
		"errors":        sum.Errors,
	})
}

type findEmailRequest struct {
	keyed
	model.EnrichParams
}

func (s *Server) handleFindEmail(w http.ResponseWriter, r *http.Request) {
	var req findEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params := req.EnrichParams.Normalize()
	if !params.HasFullName() {
		writeError(w, http.StatusBadRequest, "First name and last name are required for email finding")
		return
	}
	p := s.providerFor(req.key())
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API key is required")
		return
	}

	email, confidence := p.FindEmail(r.Context(), params)
	if email == "" {
		writeJSON(w, http.StatusOK, errorBody{Success: false, Error: "No email found with Email Finder API"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"email": email, "confidence": confidence},
	})
}

func (s *Server) handleValidateKey(w http.ResponseWriter, r *http.Request) {
	var req keyed
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := s.providerFor(req.key())
	if p == nil {
		writeError(w, http.StatusBadRequest, "API key is required")
		return
	}

	if k := req.key(); k != "" {
		zap.L().Info("validate: api key validation attempt",
			zap.String("key_prefix", config.KeyPrefix(k)),
			zap.Int("key_length", len(k)),
		)
	}

	status, err := p.ValidateKey(r.Context())
	if err != nil {
		zap.L().Error("validate: api key validation error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Failed to validate API key",
			Message: err.Error(),
		})
		return
	}

	msg := "API key is valid and active"
	if !status.Valid {
		msg = "API key is invalid, inactive, or lacks required permissions"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"valid":        status.Valid,
		"phone_access": status.PhoneAccess,
		"message":      msg,
	})
}

func (s *Server) handleOrganization(w http.ResponseWriter, r *http.Request) {
	domain := strings.TrimSpace(chi.URLParam(r, "domain"))
	key := r.URL.Query().Get("api_key")
	if key == "" {
		key = r.URL.Query().Get("apiKey")
	}
	p := s.providerFor(key)
	if p == nil {
		writeError(w, http.StatusBadRequest, "Apollo API key is required")
		return
	}

	org, err := p.GetOrganization(r.Context(), domain)
	if err != nil {
		zap.L().Error("organization lookup failed", zap.String("domain", domain), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to lookup organization")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": org})
}
