package extract

import (
	"context"
	"strings"
	"testing"
)

func TestPlainTextSupports(t *testing.T) {
	extractor := NewPlainText()

	supported := []string{"text/plain", "text/plain; charset=utf-8", "TEXT/PLAIN", "text/markdown", ""}
	for _, ct := range supported {
		if !extractor.Supports(ct) {
			t.Errorf("Supports(%q) = false, want true", ct)
		}
	}

	unsupported := []string{"application/pdf", "image/png", "application/octet-stream"}
	for _, ct := range unsupported {
		if extractor.Supports(ct) {
			t.Errorf("Supports(%q) = true, want false", ct)
		}
	}
}

func TestPlainTextExtract(t *testing.T) {
	extractor := NewPlainText()
	ctx := context.Background()

	t.Run("PassesThroughCleanText", func(t *testing.T) {
		input := "The tenant shall pay rent.\n\nSecond clause."
		got, err := extractor.Extract(ctx, []byte(input), "text/plain")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if got != input {
			t.Errorf("Extract = %q, want %q", got, input)
		}
	})

	t.Run("StripsInvalidUTF8", func(t *testing.T) {
		input := append([]byte("valid "), 0xff, 0xfe)
		input = append(input, []byte("text")...)
		got, err := extractor.Extract(ctx, input, "text/plain")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if got != "valid text" {
			t.Errorf("Extract = %q, want %q", got, "valid text")
		}
	})

	t.Run("StripsControlCharacters", func(t *testing.T) {
		input := "clause\x00 with\x07 artifacts\n\ttab and newline kept"
		got, err := extractor.Extract(ctx, []byte(input), "text/plain")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if strings.ContainsAny(got, "\x00\x07") {
			t.Errorf("control characters survived: %q", got)
		}
		if !strings.Contains(got, "\n\ttab and newline kept") {
			t.Errorf("newline or tab stripped: %q", got)
		}
	})

	t.Run("RejectsUnsupportedType", func(t *testing.T) {
		if _, err := extractor.Extract(ctx, []byte("%PDF-1.4"), "application/pdf"); err == nil {
			t.Error("Extract accepted application/pdf, want error")
		}
	})
}
