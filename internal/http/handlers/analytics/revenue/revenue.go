// Package revenue serves the monthly revenue chart of the dashboard.
package revenue

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/room-management/internal/http/response"
	"github.com/magabrotheeeer/room-management/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Window(preset, from, to string) (time.Time, time.Time, error)
	Revenue(ctx context.Context, from, to time.Time) (*models.RevenueReport, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Revenue chart
// @Description Sums the monthly rent of every agreement active in each month of the window.
// @Description Either a preset (1m, 3m, 6m, 12m counted from the current month) or both bounds are accepted.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Param preset query string false "1m, 3m, 6m or 12m"
// @Param from query string false "First month, MM/YYYY"
// @Param to query string false "Last month, MM/YYYY"
// @Success 200 {object} response.Response{data=models.RevenueReport}
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 422 {object} response.ErrorResponse "Bad window"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /analytics/revenue [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.revenue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	from, to, err := h.service.Window(q.Get("preset"), q.Get("from"), q.Get("to"))
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	report, err := h.service.Revenue(r.Context(), from, to)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(report))
}
