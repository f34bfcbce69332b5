package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/clauselens/clauselens/internal/scoring"
)

// Status describes where an analysis job is in its lifecycle.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrNotFound is returned when no job exists for a document ID.
var ErrNotFound = errors.New("document not found")

// Clause is one scored text block of a completed analysis.
type Clause struct {
	Index       int                  `json:"index"`
	Text        string               `json:"text"`
	Score       float64              `json:"score"`
	Category    scoring.RiskCategory `json:"category"`
	Type        string               `json:"type"`
	Explanation string               `json:"explanation,omitempty"`
}

// Analysis is the stored state of one document job. While the job is
// processing only the identity and status fields are populated.
type Analysis struct {
	DocumentID  string     `json:"documentId"`
	Status      Status     `json:"status"`
	Filename    string     `json:"filename,omitempty"`
	Error       string     `json:"error,omitempty"`
	FullText    string     `json:"fullText,omitempty"`
	Clauses     []Clause   `json:"analysis,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Store tracks job status and holds completed analyses.
type Store interface {
	// Put writes or replaces the analysis for its document ID.
	Put(ctx context.Context, analysis *Analysis) error
	// Get returns the analysis for a document ID, or ErrNotFound.
	Get(ctx context.Context, documentID string) (*Analysis, error)
	// Close releases backend resources.
	Close() error
}
