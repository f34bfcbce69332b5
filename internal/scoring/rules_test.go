package scoring

import "testing"

func TestNewLibraryCompiles(t *testing.T) {
	library, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary() failed: %v", err)
	}
	if library == nil {
		t.Fatal("NewLibrary() returned nil library")
	}
	if library.negation == nil || library.emphasis == nil {
		t.Fatal("modifier patterns not compiled")
	}
}

func TestLibraryRuleCounts(t *testing.T) {
	library, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary() failed: %v", err)
	}

	counts := map[Category]int{
		CategoryObligation:  3,
		CategoryPayment:     3,
		CategoryConsequence: 4,
		CategoryTime:        3,
		CategoryFormality:   2,
	}
	for category, want := range counts {
		if got := len(library.Rules(category)); got != want {
			t.Errorf("Rules(%s) has %d rules, want %d", category, got, want)
		}
	}
	if got := library.RuleCount(); got != 15 {
		t.Errorf("RuleCount() = %d, want 15", got)
	}
}

// Weight bands reflect legal severity ordering:
// Consequence > Payment > Obligation > TimeSensitivity > Formality.
func TestLibraryWeightOrdering(t *testing.T) {
	library, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary() failed: %v", err)
	}

	bands := []struct {
		category Category
		min, max float64
	}{
		{CategoryConsequence, 0.74, 0.80},
		{CategoryPayment, 0.72, 0.78},
		{CategoryObligation, 0.60, 0.66},
		{CategoryTime, 0.55, 0.60},
		{CategoryFormality, 0.15, 0.18},
	}
	for _, band := range bands {
		for _, rule := range library.Rules(band.category) {
			if rule.Weight < band.min || rule.Weight > band.max {
				t.Errorf("%s rule %q weight %v outside [%v, %v]",
					band.category, rule.Pattern.String(), rule.Weight, band.min, band.max)
			}
		}
	}
}

func TestRulesCaseInsensitive(t *testing.T) {
	library, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary() failed: %v", err)
	}

	rule := library.Rules(CategoryObligation)[0]
	for _, text := range []string{"the party shall comply", "THE PARTY SHALL COMPLY", "The Party Shall comply"} {
		if !rule.Pattern.MatchString(text) {
			t.Errorf("obligation rule did not match %q", text)
		}
	}

	// Negation is case-insensitive too.
	for _, text := range []string{"not applicable here", "NOT applicable here"} {
		if !library.negation.MatchString(text) {
			t.Errorf("negation pattern did not match %q", text)
		}
	}

	// Emphasis is deliberately case-sensitive: lowercase never matches the
	// all-caps branch.
	if library.emphasis.MatchString("nothing emphasized here") {
		t.Error("emphasis pattern matched lowercase text")
	}
	if !library.emphasis.MatchString("DUE IMMEDIATELY") {
		t.Error("emphasis pattern did not match all-caps text")
	}
}
