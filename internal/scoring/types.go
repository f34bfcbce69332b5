package scoring

import "regexp"

// Category identifies one of the legal concern groups a rule belongs to.
type Category string

const (
	CategoryObligation  Category = "obligation"
	CategoryPayment     Category = "payment"
	CategoryConsequence Category = "consequence"
	CategoryTime        Category = "time"
	CategoryFormality   Category = "formality"
)

// RiskCategory is the coarse severity label shown to end users.
type RiskCategory string

const (
	RiskRed    RiskCategory = "Red"    // Risky
	RiskYellow RiskCategory = "Yellow" // Caution
	RiskGreen  RiskCategory = "Green"  // Standard
)

// Rule is a single weighted pattern. Weight is in [0,1].
type Rule struct {
	Pattern *regexp.Regexp
	Weight  float64
}

// Result is the full outcome of evaluating one text span.
type Result struct {
	Score       float64      `json:"score"`
	Category    RiskCategory `json:"category"`
	Matched     []Category   `json:"matched,omitempty"`
	IsFormality bool         `json:"formality"`
}
