package pipeline

import (
	"strings"

	"github.com/clauselens/clauselens/internal/scoring"
)

// Clause type labels attached to flagged clauses.
const (
	TypeGeneral     = "General"
	TypeTermination = "Termination Clause"
	TypePayment     = "Payment Terms"
	TypeObligation  = "General Obligation"
)

// annotate derives a clause type and a plain-language explanation for a
// scored clause. Only Red and Yellow clauses are annotated; Green clauses
// keep the general label with no explanation.
func annotate(text string, category scoring.RiskCategory) (clauseType, explanation string) {
	if category != scoring.RiskRed && category != scoring.RiskYellow {
		return TypeGeneral, ""
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "terminate"):
		return TypeTermination, "This section explains how and when the agreement can be ended by either party. Pay close attention to the reasons and notice periods required."
	case strings.Contains(lower, "pay"), strings.Contains(lower, "payment"):
		return TypePayment, "This describes when and how much money needs to be paid. Check for deadlines and any penalties for late payments."
	default:
		return TypeObligation, "This clause outlines a specific duty or responsibility that one of the parties must follow."
	}
}
