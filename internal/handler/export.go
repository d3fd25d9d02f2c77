package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"draftdeck/internal/domain/services"
	"draftdeck/internal/httputil"
)

// ExportHandler handles document download requests
type ExportHandler struct {
	exportService services.ExportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService services.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportDocument renders the document in the requested format and streams
// it back as an attachment. The format comes from the "format" query
// parameter.
func (h *ExportHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		httputil.RespondError(w, http.StatusBadRequest, "format query parameter is required")
		return
	}

	userID := httputil.GetUserID(r)

	result, err := h.exportService.Export(r.Context(), documentID, userID, format)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Bytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Bytes)
}
