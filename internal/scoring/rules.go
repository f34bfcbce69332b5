package scoring

import (
	"fmt"
	"regexp"
)

// ruleSpec is the uncompiled form of a rule. The weights are load-bearing
// constants: Consequence > Payment > Obligation > TimeSensitivity > Formality.
type ruleSpec struct {
	expr   string
	weight float64
}

var ruleSpecs = map[Category][]ruleSpec{
	CategoryObligation: {
		{`\b(shall|must|required to|obligated to|bound to)\b`, 0.65},
		{`\b(has the right to|entitled to|may demand|can require)\b`, 0.60},
		{`\b(responsible for|liable for|accountable for)\b`, 0.66},
	},
	CategoryPayment: {
		{`\b(payment shall be made|pay|due on|due within)\b`, 0.78},
		{`\b(interest|late payment penalty|overdue)\b`, 0.75},
		{`\b(advance payment|security deposit|earnest money)\b`, 0.72},
	},
	CategoryConsequence: {
		{`\b(in case of default|breach of contract|violation of)\b`, 0.80},
		{`\b(liable to pay damages|legal action|court proceedings)\b`, 0.78},
		{`\b(contract may be terminated|agreement is cancelled)\b`, 0.76},
		{`\b(forfeiture of|penalty of|fine of)\b`, 0.74},
	},
	CategoryTime: {
		{`\b(within \d+\s+days?|not later than|before the expiry)\b`, 0.58},
		{`\b(notice period of|during the term of|upon expiry of)\b`, 0.55},
		{`\b(immediate(?:ly)?|forthwith|without delay)\b`, 0.60},
	},
	CategoryFormality: {
		{`\b(this agreement is made|whereas the parties|in witness whereof)\b`, 0.15},
		{`\b(governed by|jurisdiction|arbitration)\b`, 0.18},
	},
}

const (
	negationExpr = `\b(not|never|without|except|unless|no)\s+`
	// Emphasis stays case-sensitive: the all-caps branch only means
	// something when case is preserved.
	emphasisExpr = `\b[A-Z]{2,}\b|"[^"]*"`
)

// substantiveOrder fixes evaluation order for the four substantive groups.
var substantiveOrder = []Category{
	CategoryObligation,
	CategoryPayment,
	CategoryConsequence,
	CategoryTime,
}

// Library holds the compiled rule set. It is immutable after construction
// and safe for concurrent use without locking.
type Library struct {
	groups   map[Category][]Rule
	negation *regexp.Regexp
	emphasis *regexp.Regexp
}

// NewLibrary compiles all rule patterns eagerly. A malformed pattern is
// fatal: the error aborts construction rather than silently dropping a rule.
func NewLibrary() (*Library, error) {
	groups := make(map[Category][]Rule, len(ruleSpecs))
	for category, specs := range ruleSpecs {
		rules := make([]Rule, 0, len(specs))
		for _, spec := range specs {
			re, err := regexp.Compile(`(?i)` + spec.expr)
			if err != nil {
				return nil, fmt.Errorf("compile %s rule %q: %w", category, spec.expr, err)
			}
			rules = append(rules, Rule{Pattern: re, Weight: spec.weight})
		}
		groups[category] = rules
	}

	negation, err := regexp.Compile(`(?i)` + negationExpr)
	if err != nil {
		return nil, fmt.Errorf("compile negation pattern: %w", err)
	}
	emphasis, err := regexp.Compile(emphasisExpr)
	if err != nil {
		return nil, fmt.Errorf("compile emphasis pattern: %w", err)
	}

	return &Library{
		groups:   groups,
		negation: negation,
		emphasis: emphasis,
	}, nil
}

// Rules returns the compiled rules for a category.
func (l *Library) Rules(category Category) []Rule {
	return l.groups[category]
}

// RuleCount returns the total number of compiled rules across all groups.
func (l *Library) RuleCount() int {
	count := 0
	for _, rules := range l.groups {
		count += len(rules)
	}
	return count
}
