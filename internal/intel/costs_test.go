package intel

import (
	"testing"

	"revintel/internal/types"
)

func TestToolPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tool  types.Tool
		want  float64
		found bool
	}{
		{"plain dollar amount", types.Tool{Pricing: "$99/month"}, 99, true},
		{"thousands separator", types.Tool{Pricing: "$1,400/month"}, 1400, true},
		{"decimal", types.Tool{Pricing: "$49.50 per seat"}, 49.50, true},
		{"professional tier fallback", types.Tool{Pricing: "contact sales", ProfessionalTier: 250}, 250, true},
		{"pricing wins over tier", types.Tool{Pricing: "$80/mo", ProfessionalTier: 250}, 80, true},
		{"unparseable", types.Tool{Pricing: "free forever"}, 0, false},
		{"empty", types.Tool{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toolPrice(tt.tool)
			if ok != tt.found || got != tt.want {
				t.Errorf("toolPrice(%+v) = %v, %v; want %v, %v", tt.tool, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestDeriveCosts(t *testing.T) {
	t.Parallel()

	tools := []types.Tool{
		{Name: "a", Pricing: "$100/month"},
		{Name: "b", Pricing: "$300/month"},
		{Name: "c", Pricing: "$1,400/month"},
		{Name: "d", Pricing: "call us"}, // skipped
	}

	got := deriveCosts(tools, types.ComplexityModerate)

	if got.SaaSMedianMonthly != 300 {
		t.Errorf("median = %v, want 300", got.SaaSMedianMonthly)
	}
	if got.SaaSRange.MinMonthly != 100 || got.SaaSRange.MaxMonthly != 1400 {
		t.Errorf("range = %+v, want 100-1400", got.SaaSRange)
	}
	if got.CustomBuild != "$30,000-75,000" {
		t.Errorf("custom build = %q", got.CustomBuild)
	}
}

func TestDeriveCosts_EvenCount(t *testing.T) {
	t.Parallel()

	tools := []types.Tool{
		{Pricing: "$100/month"},
		{Pricing: "$200/month"},
		{Pricing: "$400/month"},
		{Pricing: "$1,000/month"},
	}

	if got := deriveCosts(tools, types.ComplexitySimple); got.SaaSMedianMonthly != 300 {
		t.Errorf("even-count median = %v, want 300", got.SaaSMedianMonthly)
	}
}

func TestDeriveCosts_NoPrices(t *testing.T) {
	t.Parallel()

	got := deriveCosts([]types.Tool{{Pricing: "free"}}, types.ComplexityComplex)

	if got.SaaSMedianMonthly != defaultSaaSMedian {
		t.Errorf("median = %v, want default %v", got.SaaSMedianMonthly, defaultSaaSMedian)
	}
	if got.SaaSRange.MinMonthly != defaultSaaSMin || got.SaaSRange.MaxMonthly != defaultSaaSMax {
		t.Errorf("range = %+v, want defaults", got.SaaSRange)
	}
	if got.CustomBuild != "$75,000-200,000" {
		t.Errorf("custom build = %q", got.CustomBuild)
	}
}

func TestDefaultCostAnalysis(t *testing.T) {
	t.Parallel()

	got := defaultCostAnalysis(types.ComplexitySimple)
	if got.SaaSMedianMonthly != defaultSaaSMedian || got.CustomBuild != "$15,000-30,000" {
		t.Errorf("unexpected defaults: %+v", got)
	}
}
