// The corpus tool scores a directory of clause text files and writes a
// labeled Parquet dataset for offline review of the rule set.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/dataset"
	"github.com/clauselens/clauselens/internal/logger"
	"github.com/clauselens/clauselens/internal/scoring"
	"github.com/clauselens/clauselens/internal/segment"
)

func main() {
	var (
		inputDir  = flag.String("input", "", "Directory of .txt clause files")
		output    = flag.String("output", "clauses.parquet", "Output Parquet file")
		minWords  = flag.Int("min-words", 5, "Skip blocks shorter than this many words")
		maxChars  = flag.Int("max-chars", 2000, "Re-split blocks longer than this many characters")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		batchSize = flag.Int("batch-size", 500, "Records per Parquet write")
	)
	flag.Parse()

	if *inputDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s --input <dir> [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input contracts/ --output corpus.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input contracts/ --min-words 3\n", os.Args[0])
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	scorer, err := scoring.NewScorer(log.WithComponent("scoring"))
	if err != nil {
		log.Fatal("Failed to initialize phrase scorer", zap.Error(err))
	}

	writer, err := dataset.NewWriter(*output)
	if err != nil {
		log.Fatal("Failed to create dataset writer", zap.Error(err))
	}

	var batch []dataset.ClauseRecord
	files := 0
	skipped := 0

	err = filepath.WalkDir(*inputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".txt") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files++

		blocks := segment.Split(string(data), segment.Options{MaxBlockChars: *maxChars})
		for _, block := range blocks {
			if segment.WordCount(block) < *minWords {
				skipped++
				continue
			}

			result := scorer.Evaluate(block)
			batch = append(batch, dataset.ClauseRecord{
				Text:      block,
				Score:     result.Score,
				Category:  string(result.Category),
				Formality: result.IsFormality,
				Source:    filepath.Base(path),
			})

			if len(batch) >= *batchSize {
				if err := writer.Write(batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		return nil
	})
	if err != nil {
		writer.Close()
		log.Fatal("Corpus processing failed", zap.Error(err))
	}

	if len(batch) > 0 {
		if err := writer.Write(batch); err != nil {
			writer.Close()
			log.Fatal("Failed to write final batch", zap.Error(err))
		}
	}

	if err := writer.Close(); err != nil {
		log.Fatal("Failed to finalize dataset", zap.Error(err))
	}

	log.Info("Corpus export complete",
		zap.Int("files", files),
		zap.Int64("records", writer.Count()),
		zap.Int("skipped_short_blocks", skipped),
		zap.String("output", *output),
	)
}
