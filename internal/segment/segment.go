// Package segment splits extracted document text into clause-like blocks.
// A block is the unit the scorer sees; segmentation itself carries no legal
// judgement and holds no state.
package segment

import (
	"strings"
)

// Options controls block splitting.
type Options struct {
	// MaxBlockChars caps block length; longer paragraphs are re-split on
	// sentence boundaries. Zero disables the cap.
	MaxBlockChars int
}

// Split breaks text into clause blocks. Paragraphs separated by blank lines
// become blocks; paragraphs longer than MaxBlockChars are split further on
// sentence terminators. Whitespace-only blocks are dropped.
func Split(text string, opts Options) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	for _, paragraph := range strings.Split(normalized, "\n\n") {
		paragraph = strings.TrimSpace(collapseWhitespace(paragraph))
		if paragraph == "" {
			continue
		}

		if opts.MaxBlockChars > 0 && len(paragraph) > opts.MaxBlockChars {
			blocks = append(blocks, splitSentences(paragraph, opts.MaxBlockChars)...)
			continue
		}
		blocks = append(blocks, paragraph)
	}

	return blocks
}

// WordCount counts whitespace-separated tokens in a block. The pipeline uses
// it to skip blocks too short to score meaningfully.
func WordCount(block string) int {
	return len(strings.Fields(block))
}

// splitSentences greedily packs sentences into blocks of at most maxChars.
// A sentence that alone exceeds maxChars becomes its own block.
func splitSentences(paragraph string, maxChars int) []string {
	sentences := cutAfterAny(paragraph, ".;!?")

	var blocks []string
	var current strings.Builder
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxChars {
			blocks = append(blocks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		blocks = append(blocks, current.String())
	}

	return blocks
}

// cutAfterAny splits s into segments, each ending just after one of the
// terminator bytes.
func cutAfterAny(s string, terminators string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(terminators, s[i]) >= 0 {
			parts = append(parts, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// collapseWhitespace folds runs of spaces and single newlines into one
// space. OCR output carries line breaks mid-sentence; blocks read better
// without them.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
