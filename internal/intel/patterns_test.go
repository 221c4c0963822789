package intel

import (
	"testing"

	"revintel/internal/types"
)

func TestAdjustTimeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		timeline   string
		complexity types.Complexity
		want       string
	}{
		{"simple decrements upper bound", "2-4 weeks", types.ComplexitySimple, "2-3 weeks"},
		{"floored at one week", "1-2 weeks", types.ComplexitySimple, "1-1 weeks"},
		{"moderate unchanged", "2-4 weeks", types.ComplexityModerate, "2-4 weeks"},
		{"complex unchanged", "8-16 weeks", types.ComplexityComplex, "8-16 weeks"},
		{"no range unchanged", "about a month", types.ComplexitySimple, "about a month"},
		{"prose around range preserved", "usually 3-6 weeks end to end", types.ComplexitySimple, "usually 3-5 weeks end to end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adjustTimeline(tt.timeline, tt.complexity); got != tt.want {
				t.Errorf("adjustTimeline(%q) = %q, want %q", tt.timeline, got, tt.want)
			}
		})
	}
}

func TestEnrichPattern(t *testing.T) {
	t.Parallel()

	g := NewGatherer(nil).WithAdoptionEstimator(FixedAdoptionEstimator(25))
	nctx := types.NormalizedContext{Complexity: types.ComplexitySimple}

	// Backend-supplied adoption and links win.
	got := g.enrichPattern(types.Pattern{
		Name:             "scored routing",
		Timeline:         "2-4 weeks",
		TimesImplemented: 34,
		ExampleLinks:     []string{"https://example.com/a"},
	}, nctx)

	if got.EstimatedAdoption != 34 {
		t.Errorf("expected backend adoption 34, got %d", got.EstimatedAdoption)
	}
	if len(got.ExampleLinks) != 1 || got.ExampleLinks[0] != "https://example.com/a" {
		t.Errorf("backend links should be preserved, got %v", got.ExampleLinks)
	}
	if got.AdjustedTimeline != "2-3 weeks" {
		t.Errorf("expected adjusted timeline 2-3 weeks, got %q", got.AdjustedTimeline)
	}

	// Missing fields fall back to estimator and placeholders.
	got = g.enrichPattern(types.Pattern{Name: "bare", Timeline: "3-6 weeks"}, nctx)
	if got.EstimatedAdoption != 25 {
		t.Errorf("expected estimator value 25, got %d", got.EstimatedAdoption)
	}
	if len(got.ExampleLinks) != 2 {
		t.Errorf("expected two placeholder links, got %v", got.ExampleLinks)
	}
}

func TestRandomAdoptionEstimator_Range(t *testing.T) {
	t.Parallel()

	e := NewRandomAdoptionEstimator(42)
	for i := 0; i < 200; i++ {
		n := e.Estimate(types.Pattern{})
		if n < 10 || n > 59 {
			t.Fatalf("estimate %d outside [10,59]", n)
		}
	}
}

func TestRandomAdoptionEstimator_Deterministic(t *testing.T) {
	t.Parallel()

	a := NewRandomAdoptionEstimator(7)
	b := NewRandomAdoptionEstimator(7)
	for i := 0; i < 20; i++ {
		if got, want := a.Estimate(types.Pattern{}), b.Estimate(types.Pattern{}); got != want {
			t.Fatalf("same seed diverged at draw %d: %d != %d", i, got, want)
		}
	}
}
