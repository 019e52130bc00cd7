package runs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/scrivener/internal/extraction"
	"github.com/JaimeStill/scrivener/pkg/handlers"
	"github.com/JaimeStill/scrivener/pkg/pagination"
	"github.com/JaimeStill/scrivener/pkg/routes"
	"github.com/JaimeStill/scrivener/pkg/storage"
)

// Handler serves the run HTTP surface.
type Handler struct {
	system        System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a run Handler.
func NewHandler(system System, logger *slog.Logger, pageCfg pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		system:        system,
		logger:        logger.With("handler", "runs"),
		pagination:    pageCfg,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the run route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodGet, Pattern: "/{id}/output", Handler: h.Output},
			{Method: http.MethodGet, Pattern: "/{id}/audit", Handler: h.Audit},
			{Method: http.MethodPost, Pattern: "", Handler: h.Execute},
			{Method: http.MethodDelete, Pattern: "/{id}", Handler: h.Remove},
		},
	}
}

// Execute accepts a multipart run submission: schema_id, template_id, and an
// ordered files field. The pipeline runs synchronously; the response is the
// persisted run with its diagnostics.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	schemaID, err := uuid.Parse(r.FormValue("schema_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid schema_id: %w", err))
		return
	}

	templateID, err := uuid.Parse(r.FormValue("template_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid template_id: %w", err))
		return
	}

	files := r.MultipartForm.File["files"]
	documents := make([]extraction.RawDocument, 0, len(files))

	for i, header := range files {
		file, err := header.Open()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("open %s: %w", header.Filename, err))
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("read %s: %w", header.Filename, err))
			return
		}

		documents = append(documents, extraction.RawDocument{
			ID:          fmt.Sprintf("%02d-%s", i+1, header.Filename),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	run, err := h.system.Execute(r.Context(), schemaID, templateID, documents)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, run)
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
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	run, err := h.system.Get(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

func (h *Handler) Output(w http.ResponseWriter, r *http.Request) {
	h.streamArtifact(w, r, h.system.Output, "filled-form.docx")
}

func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	h.streamArtifact(w, r, h.system.Audit, "audit.xlsx")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	if err := h.system.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) streamArtifact(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, *Run, error),
	filename string,
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return
	}

	result, _, err := fetch(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	if result.ContentType != "" {
		w.Header().Set("Content-Type", result.ContentType)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	io.Copy(w, result.Body)
}
