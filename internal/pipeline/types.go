package pipeline

import "time"

// Config holds pipeline configuration.
type Config struct {
	// Workers is the number of concurrent analysis workers.
	Workers int
	// QueueSize bounds the number of submitted-but-unprocessed documents.
	QueueSize int
	// MinClauseWords is the caller-side policy for skipping short blocks.
	MinClauseWords int
	// MaxClauseChars re-splits oversized paragraphs during segmentation.
	MaxClauseChars int
}

// Request is one document submitted for analysis.
type Request struct {
	DocumentID  string
	Filename    string
	ContentType string
	Data        []byte
	SubmittedAt time.Time
}

// Stats tracks pipeline counters since start.
type Stats struct {
	DocumentsSubmitted int64
	DocumentsCompleted int64
	DocumentsFailed    int64
	ClausesScored      int64
	ClausesFlagged     int64
	StartTime          time.Time
}
