package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/models"
	"draftdeck/internal/domain/repositories"
	domainllm "draftdeck/internal/domain/services/llm"
)

// memStore is a shared in-memory backing store for the repository mocks so
// document and section state stay consistent within one test.
type memStore struct {
	mu          sync.Mutex
	nextID      int
	documents   map[string]*models.Document
	sections    map[string]*models.Section
	refinements map[string][]models.Refinement
	comments    map[string][]models.Comment
}

func newMemStore() *memStore {
	return &memStore{
		documents:   make(map[string]*models.Document),
		sections:    make(map[string]*models.Section),
		refinements: make(map[string][]models.Refinement),
		comments:    make(map[string][]models.Comment),
	}
}

func (s *memStore) newID(kind string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", kind, s.nextID)
}

// mockDocumentRepo implements repositories.DocumentRepository over memStore.
type mockDocumentRepo struct {
	store *memStore
}

func (r *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc.ID = r.store.newID("doc")
	doc.CreatedAt = time.Now()
	stored := *doc
	r.store.documents[doc.ID] = &stored
	return nil
}

func (r *mockDocumentRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, ok := r.store.documents[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	copied := *doc
	copied.Sections = nil
	return &copied, nil
}

func (r *mockDocumentRepo) List(ctx context.Context, ownerID string) ([]models.DocumentSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summaries := []models.DocumentSummary{}
	for _, doc := range r.store.documents {
		if doc.OwnerID != ownerID {
			continue
		}
		summaries = append(summaries, models.DocumentSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			PageCount: doc.PageCount,
			CreatedAt: doc.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *mockDocumentRepo) UpdateGenerationParams(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.documents[doc.ID]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	stored.Prompt = doc.Prompt
	stored.Theme = doc.Theme
	stored.PageCount = doc.PageCount
	return nil
}

func (r *mockDocumentRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, ok := r.store.documents[id]
	if !ok || doc.OwnerID != ownerID {
		return &domain.NotFoundError{Message: "document not found"}
	}
	delete(r.store.documents, id)
	for sid, section := range r.store.sections {
		if section.DocumentID == id {
			delete(r.store.sections, sid)
			delete(r.store.refinements, sid)
			delete(r.store.comments, sid)
		}
	}
	return nil
}

// mockSectionRepo implements repositories.SectionRepository over memStore.
type mockSectionRepo struct {
	store *memStore
}

func (r *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.sections {
		if existing.DocumentID == section.DocumentID && existing.Position == section.Position {
			return &domain.ValidationError{Message: "duplicate position"}
		}
	}

	section.ID = r.store.newID("sec")
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt
	stored := *section
	r.store.sections[section.ID] = &stored
	return nil
}

func (r *mockSectionRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Section, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	section, ok := r.store.sections[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "section not found"}
	}
	doc, ok := r.store.documents[section.DocumentID]
	if !ok || doc.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: "section not found"}
	}
	copied := *section
	return &copied, nil
}

func (r *mockSectionRepo) ListByDocument(ctx context.Context, documentID string) ([]models.Section, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sections := []models.Section{}
	for _, section := range r.store.sections {
		if section.DocumentID == documentID {
			sections = append(sections, *section)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Position < sections[j].Position
	})
	return sections, nil
}

func (r *mockSectionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for sid, section := range r.store.sections {
		if section.DocumentID == documentID {
			delete(r.store.sections, sid)
			delete(r.store.refinements, sid)
			delete(r.store.comments, sid)
		}
	}
	return nil
}

func (r *mockSectionRepo) Update(ctx context.Context, section *models.Section) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sections[section.ID]
	if !ok {
		return &domain.NotFoundError{Message: "section not found"}
	}
	stored.Heading = section.Heading
	stored.SectionType = section.SectionType
	stored.Content = section.Content
	stored.UpdatedAt = time.Now()
	section.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *mockSectionRepo) UpdateContent(ctx context.Context, id, content string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sections[id]
	if !ok {
		return &domain.NotFoundError{Message: "section not found"}
	}
	stored.Content = content
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *mockSectionRepo) SetFeedback(ctx context.Context, id string, liked bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sections[id]
	if !ok {
		return &domain.NotFoundError{Message: "section not found"}
	}
	stored.LastFeedback = &liked
	return nil
}

func (r *mockSectionRepo) AppendRefinement(ctx context.Context, ref *models.Refinement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sections[ref.SectionID]; !ok {
		return &domain.NotFoundError{Message: "section not found"}
	}
	ref.ID = r.store.newID("ref")
	ref.CreatedAt = time.Now()
	r.store.refinements[ref.SectionID] = append(r.store.refinements[ref.SectionID], *ref)
	return nil
}

func (r *mockSectionRepo) ListRefinements(ctx context.Context, sectionID string) ([]models.Refinement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	refs := append([]models.Refinement{}, r.store.refinements[sectionID]...)
	return refs, nil
}

func (r *mockSectionRepo) AppendComment(ctx context.Context, comment *models.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sections[comment.SectionID]; !ok {
		return &domain.NotFoundError{Message: "section not found"}
	}
	comment.ID = r.store.newID("com")
	comment.CreatedAt = time.Now()
	r.store.comments[comment.SectionID] = append(r.store.comments[comment.SectionID], *comment)
	return nil
}

func (r *mockSectionRepo) ListComments(ctx context.Context, sectionID string) ([]models.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	comments := append([]models.Comment{}, r.store.comments[sectionID]...)
	return comments, nil
}

// mockTxManager runs the function directly; the mocks have no transactions.
type mockTxManager struct{}

func (m *mockTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// mockProvider is a scripted text provider. failAt makes the Nth call fail
// (1-based, 0 disables).
type mockProvider struct {
	mu      sync.Mutex
	calls   int
	failAt  int
	respond func(call int, prompt string) string
	prompts []string
}

func (p *mockProvider) Name() string { return "mock" }

func (p *mockProvider) GenerateText(ctx context.Context, req *domainllm.GenerateRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.prompts = append(p.prompts, req.Prompt)
	if p.failAt > 0 && p.calls == p.failAt {
		return "", fmt.Errorf("provider unavailable")
	}
	if p.respond != nil {
		return p.respond(p.calls, req.Prompt), nil
	}
	return fmt.Sprintf("generated text %d", p.calls), nil
}

func (p *mockProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
