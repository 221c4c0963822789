// Package normalize maps free-text business classifications into the canonical
// revintel taxonomy. Normalization is pure and total: every branch has a
// default, so malformed or absent input can never fail the pipeline.
package normalize

import (
	"strings"

	"revintel/internal/types"
)

// keywordRule maps a case-insensitive substring to a canonical code.
// Rules are checked in order; the first match wins.
type keywordRule[T ~string] struct {
	keyword string
	code    T
}

// icpRules maps business-type labels to ICP codes. Order matters: more
// specific segments come before generic ones.
var icpRules = []keywordRule[types.ICP]{
	{"it service", types.ICPITSM},
	{"itsm", types.ICPITSM},
	{"managed service", types.ICPITSM},
	{"msp", types.ICPITSM},
	{"saas", types.ICPSaaS},
	{"software", types.ICPSaaS},
	{"agency", types.ICPAgency},
	{"consult", types.ICPAgency},
	{"marketing", types.ICPAgency},
}

// useCaseRules maps revenue-challenge labels to use-case codes. "lead" is
// checked before "manual" so "manual lead qualification" resolves to
// lead-qualification rather than workflow-automation.
var useCaseRules = []keywordRule[types.UseCase]{
	{"lead", types.UseCaseLeadQualification},
	{"qualif", types.UseCaseLeadQualification},
	{"proposal", types.UseCaseProposalGeneration},
	{"quote", types.UseCaseProposalGeneration},
	{"churn", types.UseCaseCustomerRetention},
	{"retention", types.UseCaseCustomerRetention},
	{"pricing", types.UseCasePricingOptimization},
	{"manual", types.UseCaseWorkflowAutomation},
	{"workflow", types.UseCaseWorkflowAutomation},
}

// budgetTiers maps the investment-level label exactly (after trimming).
var budgetTiers = map[string]types.BudgetTier{
	"Quick Win":      types.TierQuickWin,
	"Transformation": types.TierTransformation,
	"Enterprise":     types.TierEnterprise,
}

// Normalize derives the canonical context from a raw assessment. It never
// fails: unmapped business types default to agency, unmapped challenges to
// workflow-automation, and unmapped investment levels to quick-win.
func Normalize(ctx types.AssessmentContext) types.NormalizedContext {
	stack := ParseStack(ctx.SolutionStack)
	tier := budgetTier(ctx.InvestmentLevel)

	return types.NormalizedContext{
		ICP:        matchICP(ctx.BusinessType),
		UseCase:    matchUseCase(ctx.RevenueChallenge),
		StackItems: stack,
		BudgetTier: tier,
		Complexity: deriveComplexity(len(stack), tier),
	}
}

// ParseStack splits a free-text stack description on commas, trimming
// whitespace and dropping empty segments. An absent description yields an
// empty (non-nil) slice.
func ParseStack(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func matchICP(businessType string) types.ICP {
	label := strings.ToLower(businessType)
	for _, rule := range icpRules {
		if strings.Contains(label, rule.keyword) {
			return rule.code
		}
	}
	return types.ICPAgency
}

func matchUseCase(challenge string) types.UseCase {
	label := strings.ToLower(challenge)
	for _, rule := range useCaseRules {
		if strings.Contains(label, rule.keyword) {
			return rule.code
		}
	}
	return types.UseCaseWorkflowAutomation
}

func budgetTier(investmentLevel string) types.BudgetTier {
	if tier, ok := budgetTiers[strings.TrimSpace(investmentLevel)]; ok {
		return tier
	}
	return types.TierQuickWin
}

// deriveComplexity classifies the engagement from stack size and budget tier.
// The simple rule is checked before the complex rule, so a large stack on a
// quick-win budget still classifies as simple.
func deriveComplexity(stackSize int, tier types.BudgetTier) types.Complexity {
	switch {
	case stackSize <= 2 || tier == types.TierQuickWin:
		return types.ComplexitySimple
	case stackSize >= 5 || tier == types.TierEnterprise:
		return types.ComplexityComplex
	default:
		return types.ComplexityModerate
	}
}
