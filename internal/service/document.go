package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"draftdeck/internal/config"
	"draftdeck/internal/domain"
	"draftdeck/internal/domain/models"
	"draftdeck/internal/domain/repositories"
	"draftdeck/internal/domain/services"
	domainllm "draftdeck/internal/domain/services/llm"
	"draftdeck/internal/prompts"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo     repositories.DocumentRepository
	sectionRepo repositories.SectionRepository
	provider    domainllm.Provider
	prompts     *prompts.Registry
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	sectionRepo repositories.SectionRepository,
	provider domainllm.Provider,
	promptRegistry *prompts.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		sectionRepo: sectionRepo,
		provider:    provider,
		prompts:     promptRegistry,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateDocument creates a new document with no sections
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		OwnerID: req.OwnerID,
		Title:   strings.TrimSpace(req.Title),
	}
	if doc.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"owner_id", doc.OwnerID,
	)

	return doc, nil
}

// GenerateDocument generates one section per page via the text provider.
//
// Validation happens before any provider call. Each page is committed as it
// succeeds; there is deliberately no transaction around the whole sequence,
// so a mid-sequence provider failure leaves the earlier pages persisted and
// visible to the caller.
func (s *documentService) GenerateDocument(ctx context.Context, id, ownerID string, req *services.GenerateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Prompt, validation.Required, validation.Length(1, config.MaxPromptLength)),
		validation.Field(&req.Pages, validation.Required, validation.Min(1), validation.Max(config.MaxPages)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	// Record the parameters and clear any previous generation. The delete
	// runs in its own transaction with no provider call inside it.
	doc.Prompt = strings.TrimSpace(req.Prompt)
	doc.Theme = strings.TrimSpace(req.Theme)
	doc.PageCount = req.Pages
	if err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.sectionRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		return s.docRepo.UpdateGenerationParams(txCtx, doc)
	}); err != nil {
		return nil, err
	}

	system := s.prompts.GenerationSystem()
	for i := 0; i < req.Pages; i++ {
		heading := s.prompts.Heading(i, req.Pages)

		instruction, err := s.prompts.RenderPage(prompts.PageData{
			Topic:   doc.Prompt,
			Theme:   doc.Theme,
			Heading: heading,
			Page:    i + 1,
			Pages:   req.Pages,
		})
		if err != nil {
			return nil, &domain.GenerationError{
				Message: fmt.Sprintf("failed to build instruction for page %d", i+1),
				Cause:   err,
			}
		}

		content, err := s.provider.GenerateText(ctx, &domainllm.GenerateRequest{
			System: system,
			Prompt: instruction,
		})
		if err != nil {
			s.logger.Error("generation failed mid-sequence",
				"document_id", doc.ID,
				"page", i+1,
				"pages_written", i,
				"error", err,
			)
			return nil, &domain.GenerationError{
				Message: fmt.Sprintf("content generation failed on page %d of %d: %v", i+1, req.Pages, err),
				Cause:   err,
			}
		}

		section := &models.Section{
			DocumentID:  doc.ID,
			Position:    i,
			Heading:     heading,
			SectionType: models.SectionTypeText,
			Content:     content,
		}
		if err := s.sectionRepo.Create(ctx, section); err != nil {
			return nil, err
		}
	}

	sections, err := s.sectionRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Sections = sections

	s.logger.Info("document generated",
		"id", doc.ID,
		"pages", req.Pages,
		"owner_id", ownerID,
	)

	return doc, nil
}

// GetDocument retrieves a document with its ordered sections, each carrying
// its refinement history and comments
func (s *documentService) GetDocument(ctx context.Context, id, ownerID string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	for i := range sections {
		refs, err := s.sectionRepo.ListRefinements(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		comments, err := s.sectionRepo.ListComments(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		sections[i].Refinements = refs
		sections[i].Comments = comments
	}
	doc.Sections = sections

	return doc, nil
}

// ListDocuments retrieves document summaries for an owner, newest first
func (s *documentService) ListDocuments(ctx context.Context, ownerID string) ([]models.DocumentSummary, error) {
	return s.docRepo.List(ctx, ownerID)
}

// DeleteDocument deletes a document and everything it owns
func (s *documentService) DeleteDocument(ctx context.Context, id, ownerID string) error {
	if err := s.docRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "owner_id", ownerID)
	return nil
}
