package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/clauselens/clauselens/internal/logger"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := NewScorer(logger.Nop())
	if err != nil {
		t.Fatalf("Failed to create scorer: %v", err)
	}
	return scorer
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreEmptyInput(t *testing.T) {
	scorer := newTestScorer(t)

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := scorer.Score(input); got != 0.0 {
			t.Errorf("Score(%q) = %v, want 0.0", input, got)
		}
	}
}

func TestScoreNoMatches(t *testing.T) {
	scorer := newTestScorer(t)

	inputs := []string{
		"The quick brown fox jumps over the lazy dog",
		"これは日本語のテキストです",
		"12345 67890 !!! ???",
		strings.Repeat("x", 10000),
	}
	for _, input := range inputs {
		if got := scorer.Score(input); got != 0.0 {
			t.Errorf("Score(%q) = %v, want 0.0 for non-matching text", input, got)
		}
	}
}

func TestScoreBounded(t *testing.T) {
	scorer := newTestScorer(t)

	inputs := []string{
		"pay interest breach of contract immediately shall penalty of fine of",
		strings.Repeat("pay interest breach of contract immediately shall ", 500),
		"NOT WITHOUT PAY \"quoted\" breach of contract due within 5 days must forthwith",
		"no no no no pay",
	}
	for _, input := range inputs {
		got := scorer.Score(input)
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score out of bounds for %q: %v", input, got)
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	scorer := newTestScorer(t)

	input := "The tenant shall pay rent due within 30 days"
	first := scorer.Score(input)
	second := scorer.Score(input)
	if first != second {
		t.Errorf("Score not idempotent: %v vs %v", first, second)
	}
}

func TestScoreSingleCategory(t *testing.T) {
	scorer := newTestScorer(t)

	// "must" is the only rule hit: base 0.65, no modifiers, no bonus.
	got := scorer.Score("Each party must maintain complete records")
	if !almostEqual(got, 0.65) {
		t.Errorf("Score = %v, want 0.65", got)
	}
}

func TestScoreCrossCategoryBonus(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("TwoCategories", func(t *testing.T) {
		// obligation ("must", 0.65) + payment ("pay", 0.78):
		// base 0.78 + 0.1 cross-category = 0.88.
		got := scorer.Score("Tenant must pay rent")
		if !almostEqual(got, 0.88) {
			t.Errorf("Score = %v, want 0.88", got)
		}
	})

	t.Run("AllSubstantiveCategoriesClamp", func(t *testing.T) {
		// consequence 0.80 base, four distinct categories (+0.3),
		// consequence+payment (+0.05), obligation+time (+0.03):
		// 1.18 pre-clamp, clamps to 1.0.
		got := scorer.Score("In case of default, payment shall be made immediately with interest")
		if !almostEqual(got, 1.0) {
			t.Errorf("Score = %v, want 1.0 (clamped)", got)
		}
	})

	t.Run("PairwiseBonusesStack", func(t *testing.T) {
		// consequence ("penalty of", 0.74) + payment ("interest", 0.75):
		// base 0.75 + 0.1 + 0.05 = 0.90. The pairwise term stacks on top
		// of the general cross-category term.
		got := scorer.Score("A penalty of two percent interest applies")
		if !almostEqual(got, 0.90) {
			t.Errorf("Score = %v, want 0.90", got)
		}
	})
}

func TestScoreNegationSuppression(t *testing.T) {
	scorer := newTestScorer(t)

	negated := scorer.Score("The tenant shall not be required to pay a security deposit")
	plain := scorer.Score("The tenant shall be required to pay a security deposit")

	// Identical rule hits either way; only the negation modifier differs.
	if !almostEqual(plain-negated, 0.15) {
		t.Errorf("negation delta = %v, want 0.15 (negated=%v, plain=%v)", plain-negated, negated, plain)
	}
	if !almostEqual(negated, 0.73) {
		t.Errorf("negated score = %v, want 0.73", negated)
	}
}

func TestScoreEmphasisBoost(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("AllCapsToken", func(t *testing.T) {
		emphasized := scorer.Score("Payment is due within 30 days, TIME IS OF THE ESSENCE")
		plain := scorer.Score("Payment is due within 30 days")
		if !almostEqual(emphasized-plain, 0.08) {
			t.Errorf("emphasis delta = %v, want 0.08 (emphasized=%v, plain=%v)", emphasized-plain, emphasized, plain)
		}
	})

	t.Run("QuotedSubstring", func(t *testing.T) {
		quoted := scorer.Score(`The "deposit" must be returned`)
		plain := scorer.Score("The deposit must be returned")
		if !almostEqual(quoted-plain, 0.08) {
			t.Errorf("quoted delta = %v, want 0.08 (quoted=%v, plain=%v)", quoted-plain, quoted, plain)
		}
	})

	t.Run("LowercaseIsNotEmphasis", func(t *testing.T) {
		// The all-caps branch must stay case-sensitive.
		got := scorer.Score("time is of the essence and rent is due on the first")
		if !almostEqual(got, 0.78) {
			t.Errorf("Score = %v, want 0.78 (no emphasis bonus)", got)
		}
	})
}

func TestScoreFormalityPrecedence(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("FormalityOverridesConsequence", func(t *testing.T) {
		// Consequence rules match (0.80 and 0.74), but the formality match
		// (0.18) wins base-score selection. The consequence-only unique set
		// earns no cross-category bonus.
		got := scorer.Score("governed by Indian law; in case of default, penalty of $500 applies")
		if !almostEqual(got, 0.18) {
			t.Errorf("Score = %v, want 0.18 (formality base)", got)
		}
	})

	t.Run("SubstantiveBonusStillApplies", func(t *testing.T) {
		// Formality sets the base, but substantive categories still feed
		// the cross-category bonus: 0.15 + 0.1 (obligation+payment).
		got := scorer.Score("whereas the parties agree the buyer must pay the balance")
		if !almostEqual(got, 0.25) {
			t.Errorf("Score = %v, want 0.25", got)
		}
	})
}

func TestScoreEndToEndScenario(t *testing.T) {
	scorer := newTestScorer(t)

	input := "This Agreement is governed by the laws of India and any dispute shall be resolved through arbitration."
	got := scorer.Score(input)
	if !almostEqual(got, 0.18) {
		t.Errorf("Score = %v, want 0.18", got)
	}
	if category := Categorize(got); category != RiskGreen {
		t.Errorf("Categorize(%v) = %v, want Green", got, category)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskCategory
	}{
		{1.0, RiskRed},
		{0.80, RiskRed},
		{0.70, RiskRed},
		{0.699, RiskYellow},
		{0.50, RiskYellow},
		{0.40, RiskYellow},
		{0.399, RiskGreen},
		{0.18, RiskGreen},
		{0.0, RiskGreen},
	}
	for _, tc := range cases {
		if got := Categorize(tc.score); got != tc.want {
			t.Errorf("Categorize(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("ReportsMatchedCategories", func(t *testing.T) {
		result := scorer.Evaluate("Tenant must pay rent")
		if result.Score != 0.88 {
			t.Errorf("Score = %v, want 0.88", result.Score)
		}
		if result.Category != RiskRed {
			t.Errorf("Category = %v, want Red", result.Category)
		}
		if len(result.Matched) != 2 {
			t.Fatalf("Matched = %v, want obligation and payment", result.Matched)
		}
		if result.Matched[0] != CategoryObligation || result.Matched[1] != CategoryPayment {
			t.Errorf("Matched = %v, want [obligation payment]", result.Matched)
		}
		if result.IsFormality {
			t.Error("IsFormality = true, want false")
		}
	})

	t.Run("FlagsFormality", func(t *testing.T) {
		result := scorer.Evaluate("This dispute is subject to arbitration in Mumbai")
		if !result.IsFormality {
			t.Error("IsFormality = false, want true")
		}
		if result.Category != RiskGreen {
			t.Errorf("Category = %v, want Green", result.Category)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		result := scorer.Evaluate("")
		if result.Score != 0.0 || result.Category != RiskGreen || len(result.Matched) != 0 {
			t.Errorf("Evaluate(\"\") = %+v, want zero result", result)
		}
	})
}

func TestScoreRoundedToThreeDecimals(t *testing.T) {
	scorer := newTestScorer(t)

	inputs := []string{
		"Tenant must pay rent",
		"The tenant shall not be required to pay a security deposit",
		"governed by Indian law; in case of default, penalty of $500 applies",
	}
	for _, input := range inputs {
		got := scorer.Score(input)
		rounded := math.Round(got*1000) / 1000
		if got != rounded {
			t.Errorf("Score(%q) = %v, not rounded to 3 decimals", input, got)
		}
	}
}
