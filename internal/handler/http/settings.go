package http

import (
	"encoding/json"
	"net/http"

	"github.com/edubase/academy-backend-go/internal/domain/settings"
	"github.com/edubase/academy-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler interface {
	ListSweeps(w http.ResponseWriter, r *http.Request)
	UpdateSweep(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.Service
}

func NewSettingsHandler(settingsService settings.Service) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// ListSweeps implements SettingsHandler.
func (h *settingsHandlerImpl) ListSweeps(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.ListSweeps(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSweep implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateSweep(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSweepRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.Name = settings.SweepName(chi.URLParam(r, "name"))

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.settingsService.UpdateSweep(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sweep settings updated", result)
}
