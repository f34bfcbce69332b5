// Package pipeline runs document analysis jobs: extract text, split it into
// clause blocks, score each block, and store the result.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/jobs"
	"github.com/clauselens/clauselens/internal/logger"
	"github.com/clauselens/clauselens/internal/scoring"
	"github.com/clauselens/clauselens/internal/segment"
	"github.com/clauselens/clauselens/internal/websocket"
)

// ErrQueueFull is returned by Submit when the pipeline is saturated.
var ErrQueueFull = fmt.Errorf("analysis queue is full")

// systemStatusInterval is how often the dashboard feed gets a system_status
// snapshot.
const systemStatusInterval = 30 * time.Second

// Archiver receives completed analyses. The Postgres archive implements it;
// a nil Archiver disables archiving.
type Archiver interface {
	ArchiveAnalysis(ctx context.Context, analysis *jobs.Analysis) error
}

// Pipeline owns the analysis worker pool.
type Pipeline struct {
	config    Config
	scorer    *scoring.Scorer
	extractor extract.Extractor
	store     jobs.Store
	archiver  Archiver
	hub       *websocket.Hub
	logger    *logger.Logger

	queue  chan Request
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	submitted int64
	completed int64
	failed    int64
	scored    int64
	flagged   int64
	startTime time.Time
}

// New creates a pipeline. The hub and archiver may be nil.
func New(cfg Config, scorer *scoring.Scorer, extractor extract.Extractor, store jobs.Store, archiver Archiver, hub *websocket.Hub, log *logger.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		config:    cfg,
		scorer:    scorer,
		extractor: extractor,
		store:     store,
		archiver:  archiver,
		hub:       hub,
		logger:    log,
		queue:     make(chan Request, cfg.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Start launches the worker pool.
func (p *Pipeline) Start() {
	p.logger.Info("Starting analysis pipeline",
		zap.Int("workers", p.config.Workers),
		zap.Int("queue_size", p.config.QueueSize),
		zap.Int("min_clause_words", p.config.MinClauseWords),
	)

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	if p.hub != nil {
		go p.systemStatusLoop()
	}
}

// systemStatusLoop feeds the dashboard a periodic snapshot of pipeline and
// hub counters. It exits when the pipeline context is released by Stop.
func (p *Pipeline) systemStatusLoop() {
	ticker := time.NewTicker(systemStatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.broadcast(p.systemStatusEvent())
		}
	}
}

func (p *Pipeline) systemStatusEvent() websocket.Event {
	stats := p.GetStats()
	return websocket.Event{
		Type:      websocket.EventTypeSystemStatus,
		Timestamp: time.Now(),
		Data: websocket.SystemStatusEvent{
			Status:           "healthy",
			Uptime:           time.Since(stats.StartTime).Round(time.Second).String(),
			TotalDocuments:   stats.DocumentsCompleted,
			TotalClauses:     stats.ClausesScored,
			ConnectedClients: int(p.hub.GetStats().ActiveConnections),
		},
	}
}

// Stop drains queued work, waits for the workers, then releases the
// pipeline context.
func (p *Pipeline) Stop() {
	close(p.queue)
	p.wg.Wait()
	p.cancel()
	p.logger.Info("Analysis pipeline stopped")
}

// Submit records the job as processing and enqueues it. Returns ErrQueueFull
// when the queue is saturated; the job is then marked failed.
func (p *Pipeline) Submit(ctx context.Context, req Request) error {
	req.SubmittedAt = time.Now()

	if err := p.store.Put(ctx, &jobs.Analysis{
		DocumentID: req.DocumentID,
		Status:     jobs.StatusProcessing,
		Filename:   req.Filename,
		CreatedAt:  req.SubmittedAt,
	}); err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}

	select {
	case p.queue <- req:
		atomic.AddInt64(&p.submitted, 1)
		return nil
	default:
		p.failJob(ctx, req.DocumentID, req.Filename, ErrQueueFull)
		return ErrQueueFull
	}
}

func (p *Pipeline) worker(id int) {
	defer p.wg.Done()

	log := &logger.Logger{Logger: p.logger.With(zap.Int("worker", id))}
	for req := range p.queue {
		p.process(log, req)
	}
}

func (p *Pipeline) process(log *logger.Logger, req Request) {
	start := time.Now()
	log = log.WithDocumentID(req.DocumentID)
	log.Info("Analyzing document", zap.String("filename", req.Filename))

	text, err := p.extractor.Extract(p.ctx, req.Data, req.ContentType)
	if err != nil {
		log.Error("Text extraction failed", zap.Error(err))
		p.failJob(context.Background(), req.DocumentID, req.Filename, err)
		return
	}

	blocks := segment.Split(text, segment.Options{MaxBlockChars: p.config.MaxClauseChars})

	clauses := make([]jobs.Clause, 0, len(blocks))
	flagged := 0
	for _, block := range blocks {
		// Short blocks are noise (page numbers, headers); skipping them is
		// upload-pipeline policy, not a scorer concern.
		if segment.WordCount(block) < p.config.MinClauseWords {
			continue
		}

		result := p.scorer.Evaluate(block)
		atomic.AddInt64(&p.scored, 1)

		clauseType, explanation := annotate(block, result.Category)
		clause := jobs.Clause{
			Index:       len(clauses),
			Text:        block,
			Score:       result.Score,
			Category:    result.Category,
			Type:        clauseType,
			Explanation: explanation,
		}
		clauses = append(clauses, clause)

		if result.Category == scoring.RiskRed || result.Category == scoring.RiskYellow {
			flagged++
			atomic.AddInt64(&p.flagged, 1)
			p.broadcast(websocket.Event{
				Type:       websocket.EventTypeClauseFlagged,
				Timestamp:  time.Now(),
				DocumentID: req.DocumentID,
				Data: websocket.ClauseFlaggedEvent{
					DocumentID:  req.DocumentID,
					ClauseIndex: clause.Index,
					Score:       clause.Score,
					Category:    clause.Category,
					ClauseType:  clause.Type,
					Excerpt:     excerpt(block, 120),
				},
			})
		}
	}

	now := time.Now()
	analysis := &jobs.Analysis{
		DocumentID:  req.DocumentID,
		Status:      jobs.StatusCompleted,
		Filename:    req.Filename,
		FullText:    text,
		Clauses:     clauses,
		CreatedAt:   req.SubmittedAt,
		CompletedAt: &now,
	}

	if err := p.store.Put(context.Background(), analysis); err != nil {
		log.Error("Failed to store analysis", zap.Error(err))
		atomic.AddInt64(&p.failed, 1)
		return
	}

	if p.archiver != nil {
		if err := p.archiver.ArchiveAnalysis(context.Background(), analysis); err != nil {
			// Archiving is best-effort; the job still completes.
			log.Warn("Failed to archive analysis", zap.Error(err))
		}
	}

	atomic.AddInt64(&p.completed, 1)
	duration := time.Since(start)
	log.Info("Analysis completed",
		zap.Int("clauses", len(clauses)),
		zap.Int("flagged", flagged),
		zap.Duration("duration", duration),
	)

	p.broadcast(websocket.Event{
		Type:       websocket.EventTypeAnalysisStatus,
		Timestamp:  now,
		DocumentID: req.DocumentID,
		Data: websocket.AnalysisStatusEvent{
			DocumentID:   req.DocumentID,
			Status:       string(jobs.StatusCompleted),
			ClauseCount:  len(clauses),
			FlaggedCount: flagged,
			DurationMS:   float64(duration.Nanoseconds()) / 1e6,
		},
	})
}

func (p *Pipeline) failJob(ctx context.Context, documentID, filename string, cause error) {
	atomic.AddInt64(&p.failed, 1)

	if err := p.store.Put(ctx, &jobs.Analysis{
		DocumentID: documentID,
		Status:     jobs.StatusFailed,
		Filename:   filename,
		Error:      cause.Error(),
		CreatedAt:  time.Now(),
	}); err != nil {
		p.logger.Error("Failed to record job failure",
			zap.String("document_id", documentID),
			zap.Error(err),
		)
	}

	p.broadcast(websocket.Event{
		Type:       websocket.EventTypeAnalysisStatus,
		Timestamp:  time.Now(),
		DocumentID: documentID,
		Data: websocket.AnalysisStatusEvent{
			DocumentID: documentID,
			Status:     string(jobs.StatusFailed),
			Error:      cause.Error(),
		},
	})
}

func (p *Pipeline) broadcast(event websocket.Event) {
	if p.hub != nil {
		p.hub.BroadcastEvent(event)
	}
}

// GetStats returns a snapshot of pipeline counters.
func (p *Pipeline) GetStats() Stats {
	return Stats{
		DocumentsSubmitted: atomic.LoadInt64(&p.submitted),
		DocumentsCompleted: atomic.LoadInt64(&p.completed),
		DocumentsFailed:    atomic.LoadInt64(&p.failed),
		ClausesScored:      atomic.LoadInt64(&p.scored),
		ClausesFlagged:     atomic.LoadInt64(&p.flagged),
		StartTime:          p.startTime,
	}
}

// excerpt truncates a clause for event payloads. The cut lands on a rune
// boundary so the payload stays valid UTF-8.
func excerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
