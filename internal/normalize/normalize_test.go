package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"revintel/internal/types"
)

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	got := Normalize(types.AssessmentContext{})

	if got.ICP != types.ICPAgency {
		t.Errorf("ICP: got %q, want agency", got.ICP)
	}
	if got.UseCase != types.UseCaseWorkflowAutomation {
		t.Errorf("UseCase: got %q, want workflow-automation", got.UseCase)
	}
	if got.BudgetTier != types.TierQuickWin {
		t.Errorf("BudgetTier: got %q, want quick-win", got.BudgetTier)
	}
	if got.StackItems == nil {
		t.Error("StackItems should be empty, not nil")
	}
	if len(got.StackItems) != 0 {
		t.Errorf("StackItems: got %v, want empty", got.StackItems)
	}
	if got.Complexity != types.ComplexitySimple {
		t.Errorf("Complexity: got %q, want simple", got.Complexity)
	}
}

func TestNormalize_ICPMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		businessType string
		want         types.ICP
	}{
		{"Marketing Agency", types.ICPAgency},
		{"IT Service Provider", types.ICPITSM},
		{"Managed Service Provider (MSP)", types.ICPITSM},
		{"B2B SaaS", types.ICPSaaS},
		{"Software Company", types.ICPSaaS},
		{"Boutique Consultancy", types.ICPAgency},
		{"Candle Shop", types.ICPAgency}, // unmapped -> agency
		{"", types.ICPAgency},
	}

	for _, tt := range tests {
		got := Normalize(types.AssessmentContext{BusinessType: tt.businessType})
		if got.ICP != tt.want {
			t.Errorf("Normalize(%q).ICP = %q, want %q", tt.businessType, got.ICP, tt.want)
		}
	}
}

func TestNormalize_UseCaseMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		challenge string
		want      types.UseCase
	}{
		{"manual lead qualification", types.UseCaseLeadQualification},
		{"slow proposal turnaround", types.UseCaseProposalGeneration},
		{"customer churn", types.UseCaseCustomerRetention},
		{"pricing inconsistency", types.UseCasePricingOptimization},
		{"too much manual work", types.UseCaseWorkflowAutomation},
		{"something else entirely", types.UseCaseWorkflowAutomation},
		{"", types.UseCaseWorkflowAutomation},
	}

	for _, tt := range tests {
		got := Normalize(types.AssessmentContext{RevenueChallenge: tt.challenge})
		if got.UseCase != tt.want {
			t.Errorf("Normalize(%q).UseCase = %q, want %q", tt.challenge, got.UseCase, tt.want)
		}
	}
}

func TestParseStack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{"HubSpot, Slack", []string{"HubSpot", "Slack"}},
		{" HubSpot ,  , Slack, ", []string{"HubSpot", "Slack"}},
		{"", []string{}},
		{" , , ", []string{}},
		{"Notion", []string{"Notion"}},
	}

	for _, tt := range tests {
		got := ParseStack(tt.raw)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseStack(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
}

func TestNormalize_ComplexityDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stack      string
		investment string
		want       types.Complexity
	}{
		{"small stack quick win", "A, B", "Quick Win", types.ComplexitySimple},
		{"no stack", "", "Transformation", types.ComplexitySimple},
		{"mid stack transformation", "A, B, C", "Transformation", types.ComplexityModerate},
		{"large stack transformation", "A, B, C, D, E", "Transformation", types.ComplexityComplex},
		{"mid stack enterprise", "A, B, C", "Enterprise", types.ComplexityComplex},
		// Simple rule precedence: quick-win wins even with six stack items.
		{"large stack quick win", "A, B, C, D, E, F", "Quick Win", types.ComplexitySimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(types.AssessmentContext{
				SolutionStack:   tt.stack,
				InvestmentLevel: tt.investment,
			})
			if got.Complexity != tt.want {
				t.Errorf("Complexity = %q, want %q", got.Complexity, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := types.AssessmentContext{
		BusinessType:     "Marketing Agency",
		RevenueChallenge: "manual lead qualification",
		SolutionStack:    "HubSpot, Slack",
		InvestmentLevel:  "Quick Win",
	}

	first := Normalize(ctx)
	second := Normalize(ctx)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Normalize is not deterministic (-first +second):\n%s", diff)
	}

	want := types.NormalizedContext{
		ICP:        types.ICPAgency,
		UseCase:    types.UseCaseLeadQualification,
		StackItems: []string{"HubSpot", "Slack"},
		BudgetTier: types.TierQuickWin,
		Complexity: types.ComplexitySimple,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}
