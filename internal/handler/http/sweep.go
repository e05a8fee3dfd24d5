package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/settings"
	"github.com/edubase/academy-backend-go/internal/handler/http/response"
	"github.com/edubase/academy-backend-go/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

type SweepHandler interface {
	RunNow(w http.ResponseWriter, r *http.Request)
}

type sweepHandlerImpl struct {
	runner *cron.Runner
}

func NewSweepHandler(runner *cron.Runner) SweepHandler {
	return &sweepHandlerImpl{runner: runner}
}

type runNowRequest struct {
	AsOf   *string `json:"as_of"`
	DryRun *bool   `json:"dry_run"`
}

// RunNow implements SweepHandler. It triggers one sweep pass through the
// same code path a scheduled tick uses, with optional as-of and dry-run
// overrides.
func (h *sweepHandlerImpl) RunNow(w http.ResponseWriter, r *http.Request) {
	var req runNowRequest

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	var asOf *time.Time
	if req.AsOf != nil {
		t, err := time.Parse(time.RFC3339, *req.AsOf)
		if err != nil {
			response.BadRequest(w, "as_of must be an RFC 3339 timestamp", nil)
			return
		}
		asOf = &t
	}

	name := settings.SweepName(chi.URLParam(r, "name"))

	result, err := h.runner.RunNow(r.Context(), name, asOf, req.DryRun)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sweep executed", result)
}
