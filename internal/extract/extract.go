// Package extract turns uploaded document bytes into plain text. OCR for
// scanned documents is an external collaborator; this package only defines
// the seam and the built-in plain-text path.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extractor converts raw document bytes into text ready for segmentation.
type Extractor interface {
	// Extract returns the document text. ContentType is the value reported
	// at upload time (e.g. "text/plain", "application/pdf").
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
	// Supports reports whether this extractor handles the content type.
	Supports(contentType string) bool
}

// PlainText handles UTF-8 text uploads. It tolerates OCR artifacts: invalid
// byte sequences and control characters are stripped rather than failing
// the document.
type PlainText struct{}

// NewPlainText returns the built-in text extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Supports reports true for text content types.
func (p *PlainText) Supports(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case "text/plain", "text/markdown", "":
		return true
	default:
		return false
	}
}

// Extract normalizes the bytes into clean UTF-8 text.
func (p *PlainText) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if !p.Supports(contentType) {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	var b strings.Builder
	b.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]

		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}

	return b.String(), nil
}
