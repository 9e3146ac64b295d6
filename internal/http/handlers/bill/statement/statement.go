// Package statement serves the printable statement of one billing month.
package statement

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/room-management/internal/http/response"
	"github.com/magabrotheeeer/room-management/internal/lib/month"
	"github.com/magabrotheeeer/room-management/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Statement(ctx context.Context, label string) (*models.MonthlyStatement, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Monthly statement
// @Description Lists every bill of a month with its charges and the grand total. Defaults to the current month.
// @Tags Bills
// @Produce  json
// @Security BearerAuth
// @Param month query string false "Month in format MM/YYYY"
// @Success 200 {object} response.Response{data=models.MonthlyStatement}
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 422 {object} response.ErrorResponse "Bad month"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /bills/statement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bill.statement"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	label := r.URL.Query().Get("month")
	if label == "" {
		label = month.Format(time.Now())
	}

	st, err := h.service.Statement(r.Context(), label)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("statement built", slog.String("month", st.Month), slog.Int("lines", len(st.Lines)))
	render.JSON(w, r, response.StatusOKWithData(st))
}
