package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/services"
	"draftdeck/internal/prompts"
)

// sectionFixture wires both services over a shared store and generates one
// two-page document so section operations have something to act on.
type sectionFixture struct {
	docSvc     services.DocumentService
	sectionSvc services.SectionService
	provider   *mockProvider
	docID      string
	sectionIDs []string
}

func newSectionFixture(t *testing.T) *sectionFixture {
	t.Helper()

	store := newMemStore()
	provider := &mockProvider{}

	registry, err := prompts.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	docRepo := &mockDocumentRepo{store: store}
	sectionRepo := &mockSectionRepo{store: store}
	txManager := &mockTxManager{}
	logger := newTestLogger()

	f := &sectionFixture{
		docSvc:     NewDocumentService(docRepo, sectionRepo, provider, registry, txManager, logger),
		sectionSvc: NewSectionService(sectionRepo, docRepo, provider, registry, txManager, logger),
		provider:   provider,
	}

	f.docID = createTestDocument(t, f.docSvc, "user-1", "Guide")
	doc, err := f.docSvc.GenerateDocument(context.Background(), f.docID, "user-1", &services.GenerateDocumentRequest{
		Prompt: "platform onboarding",
		Theme:  "friendly",
		Pages:  2,
	})
	if err != nil {
		t.Fatalf("GenerateDocument failed: %v", err)
	}
	for _, section := range doc.Sections {
		f.sectionIDs = append(f.sectionIDs, section.ID)
	}

	return f
}

func TestRefine(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	resp, err := f.sectionSvc.Refine(ctx, sectionID, "user-1", &services.RefineSectionRequest{
		Prompt: "make it shorter",
	})
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if resp.RevisedText == "" {
		t.Error("expected revised text")
	}
	if len(resp.Refinements) != 1 {
		t.Fatalf("expected 1 refinement, got %d", len(resp.Refinements))
	}
	if resp.Refinements[0].Prompt != "make it shorter" {
		t.Errorf("refinement prompt = %q", resp.Refinements[0].Prompt)
	}
	if resp.Refinements[0].RevisedText != resp.RevisedText {
		t.Error("history row and response text diverge")
	}

	// The section's current content is the accepted rewrite
	doc, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Sections[0].Content != resp.RevisedText {
		t.Error("section content was not overwritten with the revision")
	}
}

func TestRefine_HistoryAppendOnly(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	instructions := []string{"expand the intro", "add an example", "tighten it up"}
	for _, p := range instructions {
		if _, err := f.sectionSvc.Refine(ctx, sectionID, "user-1", &services.RefineSectionRequest{Prompt: p}); err != nil {
			t.Fatalf("Refine(%q) failed: %v", p, err)
		}
	}

	doc, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}

	refs := doc.Sections[0].Refinements
	if len(refs) != len(instructions) {
		t.Fatalf("expected %d refinements, got %d", len(instructions), len(refs))
	}
	for i, p := range instructions {
		if refs[i].Prompt != p {
			t.Errorf("refinement %d prompt = %q, want %q (history must keep insertion order)", i, refs[i].Prompt, p)
		}
	}
}

func TestRefine_EmptyPrompt(t *testing.T) {
	f := newSectionFixture(t)
	before := f.provider.callCount()

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := f.sectionSvc.Refine(context.Background(), f.sectionIDs[0], "user-1", &services.RefineSectionRequest{
			Prompt: prompt,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Refine(%q): expected validation error, got %v", prompt, err)
		}
	}

	if f.provider.callCount() != before {
		t.Error("provider was called for empty prompts")
	}
}

func TestRefine_ProviderFailure(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	docBefore, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	contentBefore := docBefore.Sections[0].Content

	f.provider.failAt = f.provider.callCount() + 1
	_, err = f.sectionSvc.Refine(ctx, sectionID, "user-1", &services.RefineSectionRequest{
		Prompt: "make it shorter",
	})

	var refErr *domain.RefinementError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected RefinementError, got %v", err)
	}

	// Nothing persisted: content unchanged, history empty
	docAfter, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if docAfter.Sections[0].Content != contentBefore {
		t.Error("section content changed after a failed refinement")
	}
	if len(docAfter.Sections[0].Refinements) != 0 {
		t.Error("refinement history grew after a failed refinement")
	}
}

func TestRefine_ClientTextWins(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()

	clientText := "client-side unsaved draft"
	var seenPrompt string
	f.provider.respond = func(call int, prompt string) string {
		seenPrompt = prompt
		return "revised"
	}

	_, err := f.sectionSvc.Refine(ctx, f.sectionIDs[0], "user-1", &services.RefineSectionRequest{
		Prompt:      "fix grammar",
		CurrentText: &clientText,
	})
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}

	if !strings.Contains(seenPrompt, clientText) {
		t.Errorf("provider prompt should carry the client's text, got %q", seenPrompt)
	}
}

func TestRegenerate(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[1]

	resp, err := f.sectionSvc.Regenerate(ctx, sectionID, "user-1")
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if resp.Text == "" {
		t.Error("expected regenerated text")
	}
	if len(resp.Refinements) != 1 {
		t.Errorf("regeneration must land in the history, got %d rows", len(resp.Refinements))
	}

	doc, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Sections[1].Content != resp.Text {
		t.Error("section content was not overwritten with the regenerated text")
	}
}

func TestUpdateSection(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	heading := "New Heading"
	content := "manually edited text"
	section, err := f.sectionSvc.UpdateSection(ctx, sectionID, "user-1", &services.UpdateSectionRequest{
		Heading: &heading,
		Content: &content,
	})
	if err != nil {
		t.Fatalf("UpdateSection failed: %v", err)
	}
	if section.Heading != heading || section.Content != content {
		t.Errorf("update not applied: heading=%q content=%q", section.Heading, section.Content)
	}

	// Nil fields stay untouched
	onlyContent := "second edit"
	section, err = f.sectionSvc.UpdateSection(ctx, sectionID, "user-1", &services.UpdateSectionRequest{
		Content: &onlyContent,
	})
	if err != nil {
		t.Fatalf("UpdateSection failed: %v", err)
	}
	if section.Heading != heading {
		t.Errorf("heading changed on content-only update: %q", section.Heading)
	}
	if section.Content != onlyContent {
		t.Errorf("content = %q", section.Content)
	}

	// Manual edits never touch the refinement history
	doc, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if len(doc.Sections[0].Refinements) != 0 {
		t.Error("manual update wrote to the refinement history")
	}
}

func TestUpdateSection_EmptyHeading(t *testing.T) {
	f := newSectionFixture(t)

	empty := "   "
	_, err := f.sectionSvc.UpdateSection(context.Background(), f.sectionIDs[0], "user-1", &services.UpdateSectionRequest{
		Heading: &empty,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for blank heading, got %v", err)
	}
}

func TestSetFeedback(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	section, err := f.sectionSvc.SetFeedback(ctx, sectionID, "user-1", true)
	if err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}
	if section.LastFeedback == nil || *section.LastFeedback != true {
		t.Error("expected last_feedback true")
	}

	// Latest wins: a dislike overwrites the like
	section, err = f.sectionSvc.SetFeedback(ctx, sectionID, "user-1", false)
	if err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}
	if section.LastFeedback == nil || *section.LastFeedback != false {
		t.Error("expected last_feedback false after overwrite")
	}

	// Repeating the same value is idempotent
	section, err = f.sectionSvc.SetFeedback(ctx, sectionID, "user-1", false)
	if err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}
	if section.LastFeedback == nil || *section.LastFeedback != false {
		t.Error("expected last_feedback to stay false")
	}
}

func TestAddComment(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	first, err := f.sectionSvc.AddComment(ctx, sectionID, "user-1", &services.AddCommentRequest{
		Comment: "needs a stronger opening",
	})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if first.ID == "" {
		t.Error("expected generated comment ID")
	}

	if _, err := f.sectionSvc.AddComment(ctx, sectionID, "user-1", &services.AddCommentRequest{
		Comment: "second thought: keep it",
	}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	doc, err := f.docSvc.GetDocument(ctx, f.docID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	comments := doc.Sections[0].Comments
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Body != "needs a stronger opening" {
		t.Errorf("comments out of order: %q first", comments[0].Body)
	}
}

func TestAddComment_Validation(t *testing.T) {
	f := newSectionFixture(t)

	_, err := f.sectionSvc.AddComment(context.Background(), f.sectionIDs[0], "user-1", &services.AddCommentRequest{
		Comment: "   ",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for blank comment, got %v", err)
	}
}

func TestSectionOps_WrongOwner(t *testing.T) {
	f := newSectionFixture(t)
	ctx := context.Background()
	sectionID := f.sectionIDs[0]

	if _, err := f.sectionSvc.Refine(ctx, sectionID, "intruder", &services.RefineSectionRequest{Prompt: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Refine: expected not found for wrong owner, got %v", err)
	}
	if _, err := f.sectionSvc.Regenerate(ctx, sectionID, "intruder"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Regenerate: expected not found for wrong owner, got %v", err)
	}
	if _, err := f.sectionSvc.SetFeedback(ctx, sectionID, "intruder", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetFeedback: expected not found for wrong owner, got %v", err)
	}
}
