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

// sectionService implements the SectionService interface.
//
// Refine and Regenerate share one write path: call the provider, then in a
// single transaction append the refinement row and overwrite the section's
// content. There is no isolation across the read-provider-write sequence;
// two concurrent refinements on the same section race and the last write
// wins. That is the documented contract, not an oversight.
type sectionService struct {
	sectionRepo repositories.SectionRepository
	docRepo     repositories.DocumentRepository
	provider    domainllm.Provider
	prompts     *prompts.Registry
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewSectionService creates a new section service
func NewSectionService(
	sectionRepo repositories.SectionRepository,
	docRepo repositories.DocumentRepository,
	provider domainllm.Provider,
	promptRegistry *prompts.Registry,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.SectionService {
	return &sectionService{
		sectionRepo: sectionRepo,
		docRepo:     docRepo,
		provider:    provider,
		prompts:     promptRegistry,
		txManager:   txManager,
		logger:      logger,
	}
}

// Refine applies a refinement prompt to the section's text
func (s *sectionService) Refine(ctx context.Context, sectionID, ownerID string, req *services.RefineSectionRequest) (*services.RefineSectionResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: enter a refinement prompt", domain.ErrValidation)
	}
	if err := validation.Validate(req.Prompt, validation.Length(1, config.MaxPromptLength)); err != nil {
		return nil, fmt.Errorf("%w: prompt %v", domain.ErrValidation, err)
	}

	section, err := s.sectionRepo.GetByID(ctx, sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	// The client's view of the text wins over the stored text: it may carry
	// unsaved local edits, and the client decides the refinement input.
	currentText := section.Content
	if req.CurrentText != nil {
		currentText = *req.CurrentText
	}

	prompt := strings.TrimSpace(req.Prompt)
	revised, err := s.callProvider(ctx, s.prompts.RefinementSystem(), prompts.RefineData{
		Prompt: prompt,
		Text:   currentText,
	})
	if err != nil {
		// Nothing was persisted; the section is untouched and the caller
		// decides whether to retry.
		return nil, &domain.RefinementError{
			Message: fmt.Sprintf("refinement failed: %v", err),
			Cause:   err,
		}
	}

	if err := s.acceptRevision(ctx, section.ID, prompt, revised); err != nil {
		return nil, err
	}

	refs, err := s.sectionRepo.ListRefinements(ctx, section.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("section refined",
		"section_id", section.ID,
		"document_id", section.DocumentID,
		"history_len", len(refs),
	)

	return &services.RefineSectionResponse{
		RevisedText: revised,
		Refinements: refs,
	}, nil
}

// Regenerate produces fresh content for the section's heading under the
// document's topic. The instruction is implicit; it still lands in the same
// refinement history.
func (s *sectionService) Regenerate(ctx context.Context, sectionID, ownerID string) (*services.RegenerateSectionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, section.DocumentID, ownerID)
	if err != nil {
		return nil, err
	}

	instruction, err := s.prompts.RenderRegenerate(prompts.PageData{
		Topic:   doc.Prompt,
		Theme:   doc.Theme,
		Heading: section.Heading,
	})
	if err != nil {
		return nil, &domain.RefinementError{
			Message: "failed to build regeneration instruction",
			Cause:   err,
		}
	}

	text, err := s.provider.GenerateText(ctx, &domainllm.GenerateRequest{
		System: s.prompts.GenerationSystem(),
		Prompt: instruction,
	})
	if err != nil {
		return nil, &domain.RefinementError{
			Message: fmt.Sprintf("regeneration failed: %v", err),
			Cause:   err,
		}
	}

	if err := s.acceptRevision(ctx, section.ID, instruction, text); err != nil {
		return nil, err
	}

	refs, err := s.sectionRepo.ListRefinements(ctx, section.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("section regenerated",
		"section_id", section.ID,
		"document_id", section.DocumentID,
	)

	return &services.RegenerateSectionResponse{
		Text:        text,
		Refinements: refs,
	}, nil
}

// UpdateSection is the autosave path; nil fields are left unchanged and the
// refinement history is never touched here.
func (s *sectionService) UpdateSection(ctx context.Context, sectionID, ownerID string, req *services.UpdateSectionRequest) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Heading != nil {
		heading := strings.TrimSpace(*req.Heading)
		if err := validation.Validate(heading, validation.Required, validation.Length(1, config.MaxHeadingLength)); err != nil {
			return nil, fmt.Errorf("%w: heading %v", domain.ErrValidation, err)
		}
		section.Heading = heading
	}
	if req.Content != nil {
		section.Content = *req.Content
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	return section, nil
}

// SetFeedback idempotently overwrites the latest feedback value
func (s *sectionService) SetFeedback(ctx context.Context, sectionID, ownerID string, liked bool) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.sectionRepo.SetFeedback(ctx, section.ID, liked); err != nil {
		return nil, err
	}

	section.LastFeedback = &liked
	return section, nil
}

// AddComment appends a comment and returns the created row
func (s *sectionService) AddComment(ctx context.Context, sectionID, ownerID string, req *services.AddCommentRequest) (*models.Comment, error) {
	body := strings.TrimSpace(req.Comment)
	if err := validation.Validate(body, validation.Required, validation.Length(1, config.MaxCommentLength)); err != nil {
		return nil, fmt.Errorf("%w: comment %v", domain.ErrValidation, err)
	}

	section, err := s.sectionRepo.GetByID(ctx, sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		SectionID: section.ID,
		Body:      body,
	}
	if err := s.sectionRepo.AppendComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// callProvider renders the refinement instruction and performs the call.
func (s *sectionService) callProvider(ctx context.Context, system string, data prompts.RefineData) (string, error) {
	instruction, err := s.prompts.RenderRefine(data)
	if err != nil {
		return "", err
	}

	return s.provider.GenerateText(ctx, &domainllm.GenerateRequest{
		System: system,
		Prompt: instruction,
	})
}

// acceptRevision persists an accepted rewrite: the history row and the
// content overwrite land in one transaction so they never diverge.
func (s *sectionService) acceptRevision(ctx context.Context, sectionID, prompt, revised string) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		ref := &models.Refinement{
			SectionID:   sectionID,
			Prompt:      prompt,
			RevisedText: revised,
		}
		if err := s.sectionRepo.AppendRefinement(txCtx, ref); err != nil {
			return err
		}
		return s.sectionRepo.UpdateContent(txCtx, sectionID, revised)
	})
}
