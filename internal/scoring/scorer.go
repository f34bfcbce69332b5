// Package scoring implements the legal phrase importance scorer: a
// deterministic, rule-based engine that maps a clause of contract text to a
// bounded risk score and a Red/Yellow/Green category.
package scoring

import (
	"math"
	"strings"

	"github.com/clauselens/clauselens/internal/logger"
	"go.uber.org/zap"
)

// Risk thresholds. Boundaries are half-open on the lower bound: 0.70 and
// 0.40 belong to the higher category.
const (
	redThreshold    = 0.70
	yellowThreshold = 0.40
)

// Context modifier adjustments and cross-category bonuses.
const (
	negationPenalty    = 0.15
	emphasisBonus      = 0.08
	crossCategoryBonus = 0.10
	consequencePayment = 0.05
	obligationTime     = 0.03
)

// match is one (weight, category) pair recorded during a scoring call.
type match struct {
	weight   float64
	category Category
}

// Scorer evaluates text spans against the pattern library. It is a pure
// function of its input: no state is shared between calls.
type Scorer struct {
	library *Library
	logger  *logger.Logger
}

// NewScorer compiles the pattern library and returns a ready scorer.
func NewScorer(log *logger.Logger) (*Scorer, error) {
	library, err := NewLibrary()
	if err != nil {
		return nil, err
	}

	log.Info("Phrase scorer initialized",
		zap.Int("total_rules", library.RuleCount()),
	)

	return &Scorer{library: library, logger: log}, nil
}

// Score maps a text span to a risk score in [0.0, 1.0], rounded to three
// decimal places. It is total over all string inputs and never fails.
func (s *Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	matches := make([]match, 0, 4)
	for _, category := range substantiveOrder {
		for _, rule := range s.library.Rules(category) {
			if rule.Pattern.MatchString(text) {
				matches = append(matches, match{weight: rule.Weight, category: category})
			}
		}
	}

	isFormality := false
	for _, rule := range s.library.Rules(CategoryFormality) {
		if rule.Pattern.MatchString(text) {
			matches = append(matches, match{weight: rule.Weight, category: CategoryFormality})
			isFormality = true
		}
	}

	if len(matches) == 0 {
		return 0.0
	}

	// Formality matches always win base-score selection, even when higher
	// substantive weights are present.
	var base float64
	if isFormality {
		for _, m := range matches {
			if m.category == CategoryFormality && m.weight > base {
				base = m.weight
			}
		}
	} else {
		for _, m := range matches {
			if m.weight > base {
				base = m.weight
			}
		}
	}

	bonus := 0.0
	if s.library.negation.MatchString(text) {
		bonus -= negationPenalty
	}
	if s.library.emphasis.MatchString(text) {
		bonus += emphasisBonus
	}

	unique := make(map[Category]bool)
	for _, m := range matches {
		if m.category != CategoryFormality {
			unique[m.category] = true
		}
	}
	if len(unique) > 1 {
		bonus += crossCategoryBonus * float64(len(unique)-1)
	}
	if unique[CategoryConsequence] && unique[CategoryPayment] {
		bonus += consequencePayment
	}
	if unique[CategoryObligation] && unique[CategoryTime] {
		bonus += obligationTime
	}

	final := math.Min(1.0, math.Max(0.0, base+bonus))
	return math.Round(final*1000) / 1000
}

// Categorize maps a score to its risk category.
func Categorize(score float64) RiskCategory {
	switch {
	case score >= redThreshold:
		return RiskRed
	case score >= yellowThreshold:
		return RiskYellow
	default:
		return RiskGreen
	}
}

// Evaluate scores a span and reports the full outcome, including which
// categories matched. Used by the pipeline and the scoring endpoint; the
// score and category are identical to Score plus Categorize.
func (s *Scorer) Evaluate(text string) Result {
	score := s.Score(text)

	result := Result{
		Score:    score,
		Category: Categorize(score),
	}
	for _, category := range substantiveOrder {
		for _, rule := range s.library.Rules(category) {
			if rule.Pattern.MatchString(text) {
				result.Matched = append(result.Matched, category)
				break
			}
		}
	}
	for _, rule := range s.library.Rules(CategoryFormality) {
		if rule.Pattern.MatchString(text) {
			result.Matched = append(result.Matched, CategoryFormality)
			result.IsFormality = true
			break
		}
	}
	return result
}
