package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/models"
	"draftdeck/internal/domain/repositories"
)

// PostgresSectionRepository implements the SectionRepository interface.
// Sections are always reached through their owning document, so reads join
// against the documents table for owner scoping.
type PostgresSectionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(config *RepositoryConfig) repositories.SectionRepository {
	return &PostgresSectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new section
func (r *PostgresSectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, position, heading, section_type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		section.DocumentID,
		section.Position,
		section.Heading,
		section.SectionType,
		section.Content,
	).Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("position %d already taken in document %s: %w",
				section.Position, section.DocumentID, domain.ErrValidation)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", section.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create section: %w", err)
	}

	return nil
}

// GetByID retrieves a section, scoped to the document owner
func (r *PostgresSectionRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Section, error) {
	query := fmt.Sprintf(`
		SELECT s.id, s.document_id, s.position, s.heading, s.section_type,
		       s.content, s.last_feedback, s.created_at, s.updated_at
		FROM %s s
		JOIN %s d ON d.id = s.document_id
		WHERE s.id = $1 AND d.owner_id = $2
	`, r.tables.Sections, r.tables.Documents)

	var section models.Section
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&section.ID,
		&section.DocumentID,
		&section.Position,
		&section.Heading,
		&section.SectionType,
		&section.Content,
		&section.LastFeedback,
		&section.CreatedAt,
		&section.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get section: %w", err)
	}

	return &section, nil
}

// ListByDocument returns all sections of a document ordered by position
func (r *PostgresSectionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Section, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, position, heading, section_type,
		       content, last_feedback, created_at, updated_at
		FROM %s
		WHERE document_id = $1
		ORDER BY position ASC
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		err := rows.Scan(
			&s.ID,
			&s.DocumentID,
			&s.Position,
			&s.Heading,
			&s.SectionType,
			&s.Content,
			&s.LastFeedback,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}

	if sections == nil {
		sections = []models.Section{}
	}

	return sections, nil
}

// DeleteByDocument removes all sections of a document
func (r *PostgresSectionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}

	return nil
}

// Update persists heading, section type, content and updated_at
func (r *PostgresSectionRepository) Update(ctx context.Context, section *models.Section) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET heading = $1, section_type = $2, content = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		section.Heading,
		section.SectionType,
		section.Content,
		section.ID,
	).Scan(&section.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("section %s: %w", section.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update section: %w", err)
	}

	return nil
}

// UpdateContent overwrites the section's current text only
func (r *PostgresSectionRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, content, id)
	if err != nil {
		return fmt.Errorf("update section content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetFeedback overwrites the latest feedback value
func (r *PostgresSectionRepository) SetFeedback(ctx context.Context, id string, liked bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET last_feedback = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Sections)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, liked, id)
	if err != nil {
		return fmt.Errorf("set section feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AppendRefinement inserts an immutable refinement row
func (r *PostgresSectionRepository) AppendRefinement(ctx context.Context, ref *models.Refinement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, prompt, revised_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Refinements)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		ref.SectionID,
		ref.Prompt,
		ref.RevisedText,
	).Scan(&ref.ID, &ref.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("section %s: %w", ref.SectionID, domain.ErrNotFound)
		}
		return fmt.Errorf("append refinement: %w", err)
	}

	return nil
}

// ListRefinements returns the full history in chronological order. The id
// tiebreaker keeps the order stable for rows created in the same
// millisecond.
func (r *PostgresSectionRepository) ListRefinements(ctx context.Context, sectionID string) ([]models.Refinement, error) {
	query := fmt.Sprintf(`
		SELECT id, section_id, prompt, revised_text, created_at
		FROM %s
		WHERE section_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Refinements)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list refinements: %w", err)
	}
	defer rows.Close()

	var refs []models.Refinement
	for rows.Next() {
		var ref models.Refinement
		if err := rows.Scan(&ref.ID, &ref.SectionID, &ref.Prompt, &ref.RevisedText, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refinement: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refinements: %w", err)
	}

	if refs == nil {
		refs = []models.Refinement{}
	}

	return refs, nil
}

// AppendComment inserts an immutable comment row
func (r *PostgresSectionRepository) AppendComment(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, body)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.SectionID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("section %s: %w", comment.SectionID, domain.ErrNotFound)
		}
		return fmt.Errorf("append comment: %w", err)
	}

	return nil
}

// ListComments returns all comments in chronological order
func (r *PostgresSectionRepository) ListComments(ctx context.Context, sectionID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, section_id, body, created_at
		FROM %s
		WHERE section_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.SectionID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	return comments, nil
}
