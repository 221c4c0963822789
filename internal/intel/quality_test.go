package intel

import (
	"math"
	"strings"
	"testing"

	"revintel/internal/types"
)

func fullPackage() *types.IntelligencePackage {
	return &types.IntelligencePackage{
		Tools: []types.Tool{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
		},
		Patterns:   []types.Pattern{{Name: "p1"}, {Name: "p2"}},
		Benchmarks: &types.IndustryBenchmarks{},
		Trends:     types.MarketTrends{Rising: []string{"x"}},
		Costs: types.CostAnalysis{
			SaaSRange: types.PriceRange{MinMonthly: 100, MaxMonthly: 800},
		},
	}
}

func TestAssess_FullPackage(t *testing.T) {
	t.Parallel()

	a := DefaultQualityPolicy{}.Assess(fullPackage())
	if math.Abs(a.Score-1.0) > 1e-9 {
		t.Errorf("full package score = %v, want 1.0", a.Score)
	}
	if len(a.Issues) != 0 {
		t.Errorf("full package issues = %v, want none", a.Issues)
	}
}

func TestAssess_EmptyPackage(t *testing.T) {
	t.Parallel()

	a := DefaultQualityPolicy{}.Assess(&types.IntelligencePackage{})
	if a.Score != 0 {
		t.Errorf("empty package score = %v, want 0", a.Score)
	}

	wantIssues := []string{
		"no relevant tools found",
		"no implementation patterns found",
		"no industry benchmarks available",
		"no market trend data",
		"cost analysis based on defaults, not observed pricing",
	}
	if len(a.Issues) != len(wantIssues) {
		t.Fatalf("issues = %v, want %d entries", a.Issues, len(wantIssues))
	}
	for i, want := range wantIssues {
		if a.Issues[i] != want {
			t.Errorf("issue[%d] = %q, want %q", i, a.Issues[i], want)
		}
	}
}

func TestAssess_PartialCredit(t *testing.T) {
	t.Parallel()

	pkg := fullPackage()
	pkg.Tools = pkg.Tools[:2] // 2 of 5
	pkg.Benchmarks = nil

	a := DefaultQualityPolicy{}.Assess(pkg)

	// 0.4*0.35 + 0.25 + 0 + 0.10 + 0.10
	want := 0.4*0.35 + 0.25 + 0.10 + 0.10
	if math.Abs(a.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", a.Score, want)
	}

	var sawFewTools, sawNoBench bool
	for _, issue := range a.Issues {
		if strings.Contains(issue, "only 2 relevant tools") {
			sawFewTools = true
		}
		if issue == "no industry benchmarks available" {
			sawNoBench = true
		}
	}
	if !sawFewTools || !sawNoBench {
		t.Errorf("issues = %v, missing expected entries", a.Issues)
	}
}

func TestShouldUseFallback(t *testing.T) {
	t.Parallel()

	p := DefaultQualityPolicy{}

	if p.ShouldUseFallback(Assessment{Score: 0.59}) != true {
		t.Error("score below default threshold should trigger fallback")
	}
	if p.ShouldUseFallback(Assessment{Score: 0.6}) != false {
		t.Error("score at threshold should not trigger fallback")
	}
	if !p.ShouldUseFallback(Assessment{Score: 0.9, Issues: []string{"no relevant tools found"}}) {
		t.Error("missing tools should override a passing score")
	}

	strict := DefaultQualityPolicy{FallbackThreshold: 0.8}
	if !strict.ShouldUseFallback(Assessment{Score: 0.7}) {
		t.Error("custom threshold should be honored")
	}
}
