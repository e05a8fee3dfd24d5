package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/notify"
	"github.com/edubase/academy-backend-go/internal/domain/report"
	"github.com/edubase/academy-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Save(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SendOne(w http.ResponseWriter, r *http.Request)
	SendSelected(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
	dispatcher    notify.Service
	loc           *time.Location
}

func NewReportHandler(reportService report.Service, dispatcher notify.Service, loc *time.Location) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		dispatcher:    dispatcher,
		loc:           loc,
	}
}

// Save implements ReportHandler.
func (h *reportHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req report.SaveRequest

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

	result, err := h.reportService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report saved", result)
}

// Get implements ReportHandler.
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	date, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "date"), h.loc)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	result, err := h.reportService.Get(r.Context(), chi.URLParam(r, "studentID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SendOne implements ReportHandler.
func (h *reportHandlerImpl) SendOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.dispatcher.SendOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SendSelected implements ReportHandler.
func (h *reportHandlerImpl) SendSelected(w http.ResponseWriter, r *http.Request) {
	var req notify.SendSelectedRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.dispatcher.SendSelected(r.Context(), req.ReportIDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
