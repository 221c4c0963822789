package intel

import (
	"fmt"
	"strings"

	"revintel/internal/types"
)

// longTermStrategies maps each ICP to its strategy narrative.
var longTermStrategies = map[types.ICP]string{
	types.ICPITSM:   "expand from service desk automation into full revenue operations intelligence",
	types.ICPAgency: "productize delivery with an AI-assisted service layer to scale beyond billable hours",
	types.ICPSaaS:   "embed revenue intelligence into the product feedback loop for compounding growth",
}

const defaultLongTermStrategy = "build scalable AI-first revenue operations"

// synthesizeInsights derives the narrative recommendation fields from the
// normalized context. Pure and deterministic: the same context always yields
// the same insights.
func synthesizeInsights(nctx types.NormalizedContext, challenge string) types.Insights {
	insights := types.Insights{
		RiskFactors: []string{"change management resistance"},
		QuickWins:   []string{"automate lead qualification"},
	}

	switch nctx.Complexity {
	case types.ComplexitySimple:
		insights.PrimaryRecommendation = fmt.Sprintf("start with AI-powered %s using proven SaaS tools", challengeLabel(challenge))
	case types.ComplexityComplex:
		insights.PrimaryRecommendation = "build custom revenue intelligence platform with AI orchestration"
	default:
		insights.PrimaryRecommendation = "hybrid approach: SaaS tools + custom integration layer"
	}

	if nctx.Complexity == types.ComplexityComplex {
		insights.RiskFactors = append(insights.RiskFactors, "technical implementation complexity")
	}
	if len(nctx.StackItems) == 0 {
		insights.RiskFactors = append(insights.RiskFactors, "limited existing technical infrastructure")
	}

	lower := strings.ToLower(challenge)
	if strings.Contains(lower, "proposal") {
		insights.QuickWins = append(insights.QuickWins, "AI-powered proposal generation")
	}
	if strings.Contains(lower, "manual") {
		insights.QuickWins = append(insights.QuickWins, "process automation")
	}

	if strategy, ok := longTermStrategies[nctx.ICP]; ok {
		insights.LongTermStrategy = strategy
	} else {
		insights.LongTermStrategy = defaultLongTermStrategy
	}

	return insights
}

// challengeLabel renders the raw challenge text for recommendation prose,
// falling back to the generic label when the assessment left it blank.
func challengeLabel(challenge string) string {
	if trimmed := strings.TrimSpace(challenge); trimmed != "" {
		return trimmed
	}
	return "revenue workflow automation"
}
