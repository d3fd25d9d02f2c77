package models

import (
	"time"
)

// Document is a user-owned container of ordered sections representing one
// exportable report or deck. Generation parameters are stored on the row so
// sections can be regenerated later with the same topic and tone.
type Document struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Prompt    string    `json:"prompt,omitempty" db:"prompt"`
	Theme     string    `json:"theme,omitempty" db:"theme"`
	PageCount int       `json:"page_count" db:"page_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Sections are ordered by position. Populated on detail reads only.
	Sections []Section `json:"sections,omitempty"`
}

// DocumentSummary is the listing shape: no sections, no generation output.
type DocumentSummary struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	PageCount int       `json:"page_count" db:"page_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Section is one page/slide-equivalent unit of content within a document.
// Content always holds the latest accepted text; the refinement history
// records how it got there.
type Section struct {
	ID           string    `json:"id" db:"id"`
	DocumentID   string    `json:"document_id" db:"document_id"`
	Position     int       `json:"position" db:"position"`
	Heading      string    `json:"heading" db:"heading"`
	SectionType  string    `json:"section_type" db:"section_type"`
	Content      string    `json:"content" db:"content"`
	LastFeedback *bool     `json:"last_feedback" db:"last_feedback"` // nil = no feedback yet
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Populated on document detail reads.
	Refinements []Refinement `json:"refinements,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
}

// SectionTypeText is the default section type tag.
const SectionTypeText = "text"

// Refinement is one accepted AI-assisted rewrite of a section's text,
// together with the prompt that produced it. Rows are append-only and
// immutable; insertion order is chronological order.
type Refinement struct {
	ID          string    `json:"id" db:"id"`
	SectionID   string    `json:"section_id" db:"section_id"`
	Prompt      string    `json:"prompt" db:"prompt"`
	RevisedText string    `json:"revised_text" db:"revised_text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Comment is a free-text annotation on a section. Append-only.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	SectionID string    `json:"section_id" db:"section_id"`
	Body      string    `json:"comment" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
