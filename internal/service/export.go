package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/repositories"
	"draftdeck/internal/domain/services"
	"draftdeck/internal/export"
)

// exportService implements the ExportService interface
type exportService struct {
	docRepo     repositories.DocumentRepository
	sectionRepo repositories.SectionRepository
	renderers   *export.Registry
	logger      *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	docRepo repositories.DocumentRepository,
	sectionRepo repositories.SectionRepository,
	renderers *export.Registry,
	logger *slog.Logger,
) services.ExportService {
	return &exportService{
		docRepo:     docRepo,
		sectionRepo: sectionRepo,
		renderers:   renderers,
		logger:      logger,
	}
}

// Export renders the document in the requested format. The format is checked
// before any database work so unknown formats fail fast.
func (s *exportService) Export(ctx context.Context, documentID, ownerID, format string) (*services.ExportResult, error) {
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("%v (supported: %s)", err, strings.Join(s.renderers.Formats(), ", ")),
		}
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	sections, err := s.sectionRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Sections = sections

	data, err := renderer.Render(doc)
	if err != nil {
		return nil, &domain.ExportError{
			Message: fmt.Sprintf("failed to render %s export", format),
			Cause:   err,
		}
	}

	filename := fmt.Sprintf("%s-%s.%s",
		slugify(doc.Title),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		renderer.Extension(),
	)

	s.logger.Info("document exported",
		"document_id", doc.ID,
		"format", format,
		"bytes", len(data),
	)

	return &services.ExportResult{
		Bytes:       data,
		ContentType: renderer.ContentType(),
		Filename:    filename,
	}, nil
}

// Formats returns the supported export format names.
func (s *exportService) Formats() []string {
	return s.renderers.Formats()
}

// slugify lowercases the title and collapses anything that is not a letter
// or digit into single hyphens. Empty results fall back to "document".
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "document"
	}
	if len(slug) > 48 {
		slug = strings.Trim(slug[:48], "-")
	}
	return slug
}
