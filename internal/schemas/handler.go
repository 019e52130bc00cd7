package schemas

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/pkg/handlers"
	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/routes"
)

// Handler serves the schema HTTP surface.
type Handler struct {
	system     System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a schema Handler.
func NewHandler(system System, logger *slog.Logger, pageCfg pagination.Config) *Handler {
	return &Handler{
		system:     system,
		logger:     logger.With("handler", "schemas"),
		pagination: pageCfg,
	}
}

// Routes returns the schema route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/schemas",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodPost, Pattern: "", Handler: h.Create},
			{Method: http.MethodPut, Pattern: "/{id}", Handler: h.Update},
			{Method: http.MethodDelete, Pattern: "/{id}", Handler: h.Remove},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.system.List(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema id: %w", err))
		return
	}

	schema, err := h.system.Get(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, schema)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var schema Schema
	if err := json.NewDecoder(r.Body).Decode(&schema); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema payload: %w", err))
		return
	}

	created, err := h.system.Create(r.Context(), &schema)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema id: %w", err))
		return
	}

	var schema Schema
	if err := json.NewDecoder(r.Body).Decode(&schema); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema payload: %w", err))
		return
	}
	schema.ID = id

	updated, err := h.system.Update(r.Context(), &schema)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema id: %w", err))
		return
	}

	if err := h.system.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
