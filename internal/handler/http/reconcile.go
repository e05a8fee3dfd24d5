package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReconcileHandler interface {
	GetDay(w http.ResponseWriter, r *http.Request)
	Overwrite(w http.ResponseWriter, r *http.Request)
	FixIn(w http.ResponseWriter, r *http.Request)
}

type reconcileHandlerImpl struct {
	reconcileService reconcile.Service
	loc              *time.Location
}

func NewReconcileHandler(reconcileService reconcile.Service, loc *time.Location) ReconcileHandler {
	return &reconcileHandlerImpl{
		reconcileService: reconcileService,
		loc:              loc,
	}
}

// GetDay implements ReconcileHandler.
func (h *reconcileHandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	result, err := h.reconcileService.GetReconciledDay(r.Context(), chi.URLParam(r, "studentID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Overwrite implements ReconcileHandler.
func (h *reconcileHandlerImpl) Overwrite(w http.ResponseWriter, r *http.Request) {
	var req attendance.OverwriteRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.StudentID = chi.URLParam(r, "studentID")
	req.Date = chi.URLParam(r, "date")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reconcileService.Overwrite(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Times corrected", result)
}

// FixIn implements ReconcileHandler.
func (h *reconcileHandlerImpl) FixIn(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	rec, err := h.reconcileService.FixIn(r.Context(), chi.URLParam(r, "studentID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-in synthesized from report", rec)
}
