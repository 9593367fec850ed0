package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/usecase/workshop"
)

const (
	dateLayout   = "2006-01-02"
	maxBodyBytes = 1 << 20
)

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: decode request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func (h *handler) handleRegisterJob(w http.ResponseWriter, r *http.Request) {
	var req registerJobRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	job, err := h.svc.RegisterJob(r.Context(), workshop.RegisterJobInput{
		JobID:                   req.JobID,
		Title:                   req.Title,
		CustomerName:            req.CustomerName,
		Priority:                req.Priority,
		TechnicianID:            req.TechnicianID,
		EstimatedCompletionDate: req.EstimatedCompletionDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobResponse(job))
}

func (h *handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *handler) handleRegisterTechnician(w http.ResponseWriter, r *http.Request) {
	var req registerTechnicianRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.RegisterTechnician(r.Context(), req.TechnicianID, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *handler) handleIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	status, err := h.svc.CreateIntakeStatus(r.Context(), workshop.IntakeInput{
		JobID:         chi.URLParam(r, "jobID"),
		InitialStatus: domain.Status(req.InitialStatus),
		Actor:         req.Actor,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStatusResponse(status))
}

func (h *handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.GetStatus(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(status))
}

func (h *handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.GetHistory(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryResponse(entries))
}

func (h *handler) handleAllowedTransitions(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	allowed, err := h.svc.AllowedTransitions(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := allowedTransitionsResponse{JobID: jobID, Allowed: make([]string, 0, len(allowed))}
	for _, s := range allowed {
		out.Allowed = append(out.Allowed, string(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) handleRecordTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	status, err := h.svc.RecordTransition(r.Context(), workshop.TransitionInput{
		JobID:    chi.URLParam(r, "jobID"),
		ToStatus: domain.Status(req.ToStatus),
		Actor:    req.Actor,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(status))
}

func (h *handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	job, err := h.svc.ClaimJob(r.Context(), workshop.ClaimInput{
		JobID:        chi.URLParam(r, "jobID"),
		TechnicianID: req.TechnicianID,
		Notes:        req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	job, err := h.svc.ReleaseJob(r.Context(), workshop.ReleaseInput{
		JobID: chi.URLParam(r, "jobID"),
		Actor: req.Actor,
		Notes: req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

// handleQueue accepts comma separated priority and status filters plus limit.
func (h *handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	filter, err := parseQueueFilter(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	seq, err := h.svc.Queue(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]queueEntryResponse, 0)
	for entry := range seq {
		out = append(out, toQueueEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseQueueFilter(r *http.Request) (workshop.QueueFilter, error) {
	q := r.URL.Query()
	var filter workshop.QueueFilter

	for _, raw := range splitList(q.Get("priority")) {
		p, err := domain.ParsePriority(raw)
		if err != nil {
			return workshop.QueueFilter{}, err
		}
		filter.Priorities = append(filter.Priorities, p)
	}
	for _, raw := range splitList(q.Get("status")) {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return workshop.QueueFilter{}, err
		}
		filter.Statuses = append(filter.Statuses, s)
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return workshop.QueueFilter{}, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidInput)
		}
		filter.Limit = limit
	}
	return filter, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	window, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	metrics, err := h.svc.GetMetrics(r.Context(), window)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMetricsResponse(metrics))
}

func parseDateRange(from string, to string) (domain.DateRange, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(from))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: from must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(to))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: to must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return domain.DateRange{From: start, To: end}, nil
}

func (h *handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

func (h *handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.SettingsUpdate
	if err := decodeBody(w, r, &update); err != nil {
		writeServiceError(w, r, err)
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
