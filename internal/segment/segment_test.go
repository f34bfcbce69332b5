package segment

import (
	"strings"
	"testing"
)

func TestSplitParagraphs(t *testing.T) {
	text := "First clause about rent.\n\nSecond clause about deposits.\n\n\n\nThird clause."
	blocks := Split(text, Options{})

	if len(blocks) != 3 {
		t.Fatalf("Split returned %d blocks, want 3: %q", len(blocks), blocks)
	}
	if blocks[0] != "First clause about rent." {
		t.Errorf("first block = %q", blocks[0])
	}
	if blocks[2] != "Third clause." {
		t.Errorf("third block = %q", blocks[2])
	}
}

func TestSplitCollapsesLineBreaks(t *testing.T) {
	// OCR output breaks lines mid-sentence.
	text := "The tenant shall pay\nrent on the first day\nof every month."
	blocks := Split(text, Options{})

	if len(blocks) != 1 {
		t.Fatalf("Split returned %d blocks, want 1", len(blocks))
	}
	if blocks[0] != "The tenant shall pay rent on the first day of every month." {
		t.Errorf("block = %q", blocks[0])
	}
}

func TestSplitEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\n", "\r\n\r\n"} {
		if blocks := Split(text, Options{}); len(blocks) != 0 {
			t.Errorf("Split(%q) = %q, want no blocks", text, blocks)
		}
	}
}

func TestSplitWindowsLineEndings(t *testing.T) {
	text := "First clause.\r\n\r\nSecond clause."
	blocks := Split(text, Options{})
	if len(blocks) != 2 {
		t.Fatalf("Split returned %d blocks, want 2: %q", len(blocks), blocks)
	}
}

func TestSplitLongParagraph(t *testing.T) {
	sentence := "The tenant shall pay rent within seven days. "
	paragraph := strings.TrimSpace(strings.Repeat(sentence, 10))

	blocks := Split(paragraph, Options{MaxBlockChars: 100})
	if len(blocks) < 2 {
		t.Fatalf("long paragraph was not re-split: %d blocks", len(blocks))
	}
	for _, block := range blocks {
		if len(block) > 100+len(sentence) {
			t.Errorf("block exceeds cap by more than one sentence: %d chars", len(block))
		}
	}

	// No text is lost to re-splitting.
	joined := strings.Join(blocks, " ")
	if strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(paragraph, " ", "") {
		t.Error("re-split blocks do not reassemble into the original paragraph")
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"the tenant shall pay rent", 5},
		{"  spaced   out   words  ", 3},
	}
	for _, tc := range cases {
		if got := WordCount(tc.text); got != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}
