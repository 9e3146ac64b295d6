// Package occupancy serves the vacant/occupied split of the dashboard.
package occupancy

import (
	"context"
	"log/slog"
	"net/http"

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
	Occupancy(ctx context.Context) (*models.OccupancySplit, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Occupancy split
// @Description Counts rooms by their occupied flag.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.OccupancySplit}
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /analytics/occupancy [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.occupancy"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	split, err := h.service.Occupancy(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(split))
}
