package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/models"
	"draftdeck/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSectionService records the last request it saw and returns canned
// responses.
type stubSectionService struct {
	lastUpdate *services.UpdateSectionRequest
	refineErr  error
	section    models.Section
}

func (s *stubSectionService) Refine(ctx context.Context, sectionID, ownerID string, req *services.RefineSectionRequest) (*services.RefineSectionResponse, error) {
	if s.refineErr != nil {
		return nil, s.refineErr
	}
	return &services.RefineSectionResponse{
		RevisedText: "revised",
		Refinements: []models.Refinement{{ID: "ref-1", SectionID: sectionID, Prompt: req.Prompt, RevisedText: "revised"}},
	}, nil
}

func (s *stubSectionService) Regenerate(ctx context.Context, sectionID, ownerID string) (*services.RegenerateSectionResponse, error) {
	return &services.RegenerateSectionResponse{Text: "fresh"}, nil
}

func (s *stubSectionService) UpdateSection(ctx context.Context, sectionID, ownerID string, req *services.UpdateSectionRequest) (*models.Section, error) {
	s.lastUpdate = req
	updated := s.section
	updated.ID = sectionID
	if req.Heading != nil {
		updated.Heading = *req.Heading
	}
	if req.Content != nil {
		updated.Content = *req.Content
	}
	return &updated, nil
}

func (s *stubSectionService) SetFeedback(ctx context.Context, sectionID, ownerID string, liked bool) (*models.Section, error) {
	updated := s.section
	updated.ID = sectionID
	updated.LastFeedback = &liked
	return &updated, nil
}

func (s *stubSectionService) AddComment(ctx context.Context, sectionID, ownerID string, req *services.AddCommentRequest) (*models.Comment, error) {
	return &models.Comment{ID: "com-1", SectionID: sectionID, Body: req.Comment}, nil
}

func newSectionMux(svc services.SectionService) *http.ServeMux {
	h := NewSectionHandler(svc, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/sections/{id}", h.UpdateSection)
	mux.HandleFunc("POST /api/sections/{id}/refine", h.RefineSection)
	mux.HandleFunc("POST /api/sections/{id}/feedback", h.SetFeedback)
	mux.HandleFunc("POST /api/sections/{id}/comment", h.AddComment)
	return mux
}

func TestUpdateSection_PartialPatch(t *testing.T) {
	stub := &stubSectionService{section: models.Section{Heading: "Old", Content: "old text"}}
	mux := newSectionMux(stub)

	// Only content present: heading must not be touched
	req := httptest.NewRequest("PATCH", "/api/sections/sec-1", strings.NewReader(`{"content":"new text"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastUpdate.Heading != nil {
		t.Error("absent heading field reached the service as a change")
	}
	if stub.lastUpdate.Content == nil || *stub.lastUpdate.Content != "new text" {
		t.Error("content change did not reach the service")
	}
}

func TestUpdateSection_NullContent(t *testing.T) {
	stub := &stubSectionService{section: models.Section{Content: "old text"}}
	mux := newSectionMux(stub)

	// Explicit null clears the content
	req := httptest.NewRequest("PATCH", "/api/sections/sec-1", strings.NewReader(`{"content":null}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stub.lastUpdate.Content == nil || *stub.lastUpdate.Content != "" {
		t.Error("explicit null should clear the content")
	}
}

func TestUpdateSection_NullHeadingRejected(t *testing.T) {
	mux := newSectionMux(&stubSectionService{})

	req := httptest.NewRequest("PATCH", "/api/sections/sec-1", strings.NewReader(`{"heading":null}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRefineSection_ProviderFailureStatus(t *testing.T) {
	stub := &stubSectionService{
		refineErr: &domain.RefinementError{Message: "refinement failed: provider unavailable"},
	}
	mux := newSectionMux(stub)

	req := httptest.NewRequest("POST", "/api/sections/sec-1/refine", strings.NewReader(`{"prompt":"shorter"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}

	var problem struct {
		Status int    `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if problem.Status != http.StatusBadGateway {
		t.Errorf("problem status = %d", problem.Status)
	}
	if !strings.Contains(problem.Detail, "refinement failed") {
		t.Errorf("problem detail = %q", problem.Detail)
	}
}

func TestRefineSection_InvalidJSON(t *testing.T) {
	mux := newSectionMux(&stubSectionService{})

	req := httptest.NewRequest("POST", "/api/sections/sec-1/refine", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetFeedback(t *testing.T) {
	mux := newSectionMux(&stubSectionService{})

	req := httptest.NewRequest("POST", "/api/sections/sec-1/feedback", strings.NewReader(`{"liked":true}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var section models.Section
	if err := json.Unmarshal(rec.Body.Bytes(), &section); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if section.LastFeedback == nil || !*section.LastFeedback {
		t.Error("expected last_feedback true in response")
	}
}

func TestAddComment(t *testing.T) {
	mux := newSectionMux(&stubSectionService{})

	req := httptest.NewRequest("POST", "/api/sections/sec-1/comment", strings.NewReader(`{"comment":"looks good"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	// The created row is wrapped; "comment" at the top level is the object,
	// while the object's own "comment" key carries the text.
	var resp struct {
		Comment *models.Comment `json:"comment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Comment == nil {
		t.Fatal("expected comment object in response envelope")
	}
	if resp.Comment.ID != "com-1" {
		t.Errorf("comment ID = %q", resp.Comment.ID)
	}
	if resp.Comment.Body != "looks good" {
		t.Errorf("comment body = %q", resp.Comment.Body)
	}
}
