package handlers

import (
	"context"
	"dispatch-conflict-service/internal/api/dto"
	"dispatch-conflict-service/internal/domain"
	"dispatch-conflict-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ConflictChecker is the service surface the conflict endpoints depend on.
type ConflictChecker interface {
	DayConflicts(ctx context.Context, date domain.Date) ([]domain.Conflict, error)
	RefreshDay(ctx context.Context, date domain.Date) ([]domain.Conflict, error)
	AssignmentConflicts(ctx context.Context, date domain.Date, id domain.AssignmentID) ([]domain.Conflict, error)
	PreviewConflicts(ctx context.Context, date domain.Date, candidate domain.PendingAssignment, pending []domain.PendingAssignment) ([]domain.Conflict, error)
}

type ConflictHandler struct {
	Service ConflictChecker
}

// Day returns the conflict report for every persisted assignment on ?date=.
func (h *ConflictHandler) Day(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	conflicts, err := h.Service.DayConflicts(r.Context(), date)
	if err != nil {
		h.fail(w, r, "day conflicts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toListResponse(date, conflicts))
}

// Refresh drops the cached report for ?date= and recomputes it.
func (h *ConflictHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	conflicts, err := h.Service.RefreshDay(r.Context(), date)
	if err != nil {
		h.fail(w, r, "refresh conflicts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toListResponse(date, conflicts))
}

// Assignment re-checks one persisted assignment against the rest of ?date=.
func (h *ConflictHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "assignment id is required")
		return
	}

	conflicts, err := h.Service.AssignmentConflicts(r.Context(), date, domain.AssignmentID(id))
	if err != nil {
		h.fail(w, r, "assignment conflicts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toListResponse(date, conflicts))
}

// Preview checks a hypothetical candidate against the saved schedule and the other
// pending assignments in the request body.
func (h *ConflictHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	candidate, err := toAssignment(req.Candidate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "candidate: "+err.Error())
		return
	}

	pending := make([]domain.PendingAssignment, 0, len(req.Pending))
	for i, p := range req.Pending {
		a, err := toAssignment(p)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("pending[%d]: %s", i, err))
			return
		}
		pending = append(pending, a)
	}

	conflicts, err := h.Service.PreviewConflicts(r.Context(), date, candidate, pending)
	if err != nil {
		h.fail(w, r, "preview conflicts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toListResponse(date, conflicts))
}

func (h *ConflictHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrAssignmentNotFound):
		writeError(w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, domain.ErrInvalidDate):
		writeError(w, r, http.StatusBadRequest, "invalid date")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(op + " failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func queryDate(w http.ResponseWriter, r *http.Request) (domain.Date, bool) {
	raw := r.URL.Query().Get("date")
	if strings.TrimSpace(raw) == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return domain.Date{}, false
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return domain.Date{}, false
	}
	return date, true
}

// toAssignment parses a request body assignment into domain values.
func toAssignment(req dto.AssignmentRequest) (domain.Assignment, error) {
	a := domain.Assignment{
		ID:          domain.AssignmentID(strings.TrimSpace(req.AssignmentID)),
		TruckID:     domain.TruckID(strings.TrimSpace(req.TruckID)),
		DriverID:    domain.WorkerID(strings.TrimSpace(req.DriverID)),
		ProjectID:   domain.ProjectID(strings.TrimSpace(req.ProjectID)),
		Status:      domain.StatusScheduled,
		Customer:    req.Customer,
		Description: req.Description,
		Location:    req.Location,
	}

	if strings.TrimSpace(req.Date) != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return domain.Assignment{}, errors.New("date must be YYYY-MM-DD")
		}
		a.Date = d
	}

	t, err := domain.ParseTimeOfDay(req.Time)
	if err != nil {
		return domain.Assignment{}, errors.New("time must be HH:MM")
	}
	a.Time = t

	if strings.TrimSpace(req.Status) != "" {
		st, err := domain.ParseStatus(req.Status)
		if err != nil {
			return domain.Assignment{}, fmt.Errorf("unknown status %q", req.Status)
		}
		a.Status = st
	}

	for _, h := range req.HelperIDs {
		if h = strings.TrimSpace(h); h != "" {
			a.HelperIDs = append(a.HelperIDs, domain.WorkerID(h))
		}
	}

	return a, nil
}

func toListResponse(date domain.Date, conflicts []domain.Conflict) dto.ConflictListResponse {
	res := dto.ConflictListResponse{
		Date:      date.String(),
		Conflicts: make([]dto.ConflictResponse, 0, len(conflicts)),
	}
	for _, c := range conflicts {
		res.Conflicts = append(res.Conflicts, dto.ConflictResponse{
			Kind:         c.Kind.String(),
			Severity:     c.Severity.String(),
			Message:      c.Message,
			AssignmentID: string(c.AssignmentID),
			TruckID:      string(c.TruckID),
			WorkerID:     string(c.WorkerID),
		})
	}

	sum := services.Summarize(conflicts)
	res.Summary = dto.SummaryResponse{
		Total:    sum.Total,
		Critical: sum.Critical,
		Warning:  sum.Warning,
		ByKind:   make(map[string]int, len(sum.ByKind)),
	}
	for k, n := range sum.ByKind {
		res.Summary.ByKind[k.String()] = n
	}

	return res
}
