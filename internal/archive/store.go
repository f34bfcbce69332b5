// Package archive provides the optional PostgreSQL archive of scored
// clauses, used for downstream reporting. The service runs fine without it.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/jobs"
)

const schema = `
CREATE TABLE IF NOT EXISTS clause_records (
    id           BIGSERIAL PRIMARY KEY,
    document_id  TEXT NOT NULL,
    clause_index INTEGER NOT NULL,
    clause_text  TEXT NOT NULL,
    score        DOUBLE PRECISION NOT NULL,
    category     TEXT NOT NULL,
    clause_type  TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (document_id, clause_index)
);
CREATE INDEX IF NOT EXISTS idx_clause_records_document ON clause_records (document_id);
CREATE INDEX IF NOT EXISTS idx_clause_records_category ON clause_records (category);
`

// Config contains database configuration
type Config struct {
	DatabaseURL  string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// Store archives completed clause records in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore connects to the database and ensures the schema exists.
func NewStore(config Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnLifetime)

	store := &Store{db: db, logger: logger}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive: %w", err)
	}

	logger.Info("Clause archive initialized",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns))

	return store, nil
}

func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ArchiveAnalysis inserts all clause records of a completed analysis.
// Re-archiving the same document replaces its rows.
func (s *Store) ArchiveAnalysis(ctx context.Context, analysis *jobs.Analysis) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM clause_records WHERE document_id = $1`, analysis.DocumentID); err != nil {
		return fmt.Errorf("failed to clear previous records: %w", err)
	}

	const insert = `
		INSERT INTO clause_records (document_id, clause_index, clause_text, score, category, clause_type)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, clause := range analysis.Clauses {
		if _, err := tx.ExecContext(ctx, insert,
			analysis.DocumentID, clause.Index, clause.Text,
			clause.Score, string(clause.Category), clause.Type); err != nil {
			return fmt.Errorf("failed to insert clause %d: %w", clause.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive: %w", err)
	}

	s.logger.Debug("Analysis archived",
		zap.String("document_id", analysis.DocumentID),
		zap.Int("clauses", len(analysis.Clauses)))

	return nil
}

// CategoryCounts returns the number of archived clauses per risk category.
func (s *Store) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT category, COUNT(*) FROM clause_records GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	return counts, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// maskDatabaseURL masks credentials in a database URL for logging
func maskDatabaseURL(url string) string {
	if idx := strings.Index(url, "@"); idx > 0 {
		if start := strings.Index(url, "://"); start > 0 && start+3 < idx {
			return url[:start+3] + "***@" + url[idx+1:]
		}
	}
	return url
}
