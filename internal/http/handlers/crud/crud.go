// Package crud serves the five record endpoints every managed collection
// shares: create, list, read, update and remove. Each collection mounts its
// own Handler over the matching service.
package crud

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/room-management/internal/http/request"
	"github.com/magabrotheeeer/room-management/internal/http/response"
)

// Service is the record API of one collection. Req is the create/update
// payload and E the stored (or enriched) record.
type Service[Req, E any] interface {
	Create(ctx context.Context, req Req) (*E, error)
	Update(ctx context.Context, id string, req Req) (*E, error)
	Get(ctx context.Context, id string) (*E, error)
	List(ctx context.Context) ([]E, error)
	Remove(ctx context.Context, code string) error
}

// Handler exposes a Service over HTTP.
type Handler[Req, E any] struct {
	log      *slog.Logger
	service  Service[Req, E]
	validate *validator.Validate
	name     string
}

// New creates a Handler. name labels the collection in logs, e.g. "rooms".
func New[Req, E any](log *slog.Logger, name string, service Service[Req, E]) *Handler[Req, E] {
	return &Handler[Req, E]{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
		name:     name,
	}
}

// Routes mounts the handler:
//
//	POST   /      create
//	GET    /      list
//	GET    /{id}  read by id
//	PUT    /{id}  update by id
//	DELETE /{id}  remove; the segment is the record code
func (h *Handler[Req, E]) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Read)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Remove)
}

func (h *Handler[Req, E]) logger(r *http.Request, action string) *slog.Logger {
	return h.log.With(
		slog.String("op", "handlers."+h.name+"."+action),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler[Req, E]) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "create")

	var req Req
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("record created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(created))
}

func (h *Handler[Req, E]) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "list")

	list, err := h.service.List(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if list == nil {
		list = []E{}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": list,
		"count": len(list),
	}))
}

func (h *Handler[Req, E]) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "read")

	id, ok := idParam(w, r)
	if !ok {
		log.Info("bad id in url", slog.String("id", chi.URLParam(r, "id")))
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(rec))
}

func (h *Handler[Req, E]) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "update")

	id, ok := idParam(w, r)
	if !ok {
		log.Info("bad id in url", slog.String("id", chi.URLParam(r, "id")))
		return
	}

	var req Req
	if !request.Bind(w, r, log, h.validate, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("record updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(updated))
}

func (h *Handler[Req, E]) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "remove")

	code, ok := pathParam(w, r)
	if !ok {
		log.Info("empty code in url")
		return
	}

	if err := h.service.Remove(r.Context(), code); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("record removed", slog.String("code", code))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": code,
	}))
}

func pathParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, "id"))
	if v == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing path parameter"))
		return "", false
	}
	return v, true
}

// idParam is pathParam restricted to record ids, which are UUIDs.
func idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	v, ok := pathParam(w, r)
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return "", false
	}
	return v, true
}
