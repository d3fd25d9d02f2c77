package handler

import (
	"log/slog"
	"net/http"

	"draftdeck/internal/domain/models"
	"draftdeck/internal/domain/services"
	"draftdeck/internal/httputil"
)

// SectionHandler handles HTTP requests for section operations
type SectionHandler struct {
	sectionService services.SectionService
	logger         *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sectionService services.SectionService, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		logger:         logger,
	}
}

// updateSectionPayload is the PATCH wire format. OptionalString distinguishes
// an absent field from an explicit null or empty string.
type updateSectionPayload struct {
	Heading httputil.OptionalString `json:"heading"`
	Content httputil.OptionalString `json:"content"`
}

// RefineSection rewrites the section's text per the client's prompt
func (h *SectionHandler) RefineSection(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	var req services.RefineSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	resp, err := h.sectionService.Refine(r.Context(), sectionID, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// RegenerateSection produces fresh content for the section
func (h *SectionHandler) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	resp, err := h.sectionService.Regenerate(r.Context(), sectionID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// UpdateSection is the autosave PATCH endpoint; absent fields are left
// unchanged
func (h *SectionHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	var payload updateSectionPayload
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := services.UpdateSectionRequest{}
	if payload.Heading.Present {
		if payload.Heading.Value == nil {
			httputil.RespondError(w, http.StatusBadRequest, "heading cannot be null")
			return
		}
		req.Heading = payload.Heading.Value
	}
	if payload.Content.Present {
		// An explicit null clears the content
		content := ""
		if payload.Content.Value != nil {
			content = *payload.Content.Value
		}
		req.Content = &content
	}

	userID := httputil.GetUserID(r)

	section, err := h.sectionService.UpdateSection(r.Context(), sectionID, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// SetFeedback records the latest-wins like/dislike signal
func (h *SectionHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	var req services.SetFeedbackRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	section, err := h.sectionService.SetFeedback(r.Context(), sectionID, userID, req.Liked)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// AddComment appends a comment to the section
func (h *SectionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	var req services.AddCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := httputil.GetUserID(r)

	comment, err := h.sectionService.AddComment(r.Context(), sectionID, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	// Wrapped so the "comment" key holds the created row, not the text field
	httputil.RespondJSON(w, http.StatusCreated, map[string]*models.Comment{"comment": comment})
}
