package intel

import (
	"fmt"
	"strings"

	"revintel/internal/types"
)

// Stub benchmark assessments. The client-position and improvement-potential
// computations belong to the benchmarking collaborator; until it supplies real
// client metrics these are fixed categorizations.
const (
	stubClientPosition       = "below industry average - significant improvement opportunity"
	stubImprovementPotential = "25-40% improvement possible within 6 months"
)

// effortByComplexity supplies the effort estimate when the tool record
// carries none.
var effortByComplexity = map[types.Complexity]string{
	types.ComplexitySimple:   "1-2 weeks",
	types.ComplexityModerate: "2-4 weeks",
	types.ComplexityComplex:  "4-8 weeks",
}

// orchestrationCategories are tool categories considered orchestration-ready
// regardless of their integration surface.
var orchestrationCategories = map[string]bool{
	"crm":         true,
	"automation":  true,
	"integration": true,
	"ai-platform": true,
	"workflow":    true,
}

// annotateTool fills the derived fields of a retrieved tool record for the
// given context.
func (g *Gatherer) annotateTool(tool types.Tool, nctx types.NormalizedContext) types.Tool {
	if tool.Integrations == nil {
		tool.Integrations = []string{}
	}

	tool.StackCompatibility = stackCompatibility(tool.Integrations, nctx.StackItems)
	if tool.RecommendationReason == "" {
		matched := matchedIntegrations(tool.Integrations, nctx.StackItems)
		tool.RecommendationReason = recommendationReason(tool, nctx.ICP, matched)
	}

	if tool.SetupEffort != "" {
		tool.EffortEstimate = tool.SetupEffort
	} else {
		tool.EffortEstimate = effortByComplexity[nctx.Complexity]
	}

	tool.OrchestrationReady = orchestrationReady(tool)
	return tool
}

// recommendationReason concatenates up to three applicable reason fragments.
// When none apply the literal fallback reason is used so the field is never
// empty.
func recommendationReason(tool types.Tool, icp types.ICP, matchedStackItems int) string {
	var reasons []string
	if tool.ICPFit >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("rated for %s", icp))
	}
	if matchedStackItems > 0 {
		reasons = append(reasons, "integrates with existing stack")
	}
	if tool.Relevance >= 0.75 {
		reasons = append(reasons, "high relevance")
	}
	if len(reasons) == 0 {
		return "Good fit for your requirements"
	}
	return strings.Join(reasons, "; ")
}

// stackCompatibility scores how well a tool's integrations cover an existing
// stack: matched integrations divided by half the stack size, capped at 1.0.
// With no stack or no integrations to compare, a neutral 0.5 is assumed.
func stackCompatibility(integrations, stack []string) float64 {
	if len(stack) == 0 || len(integrations) == 0 {
		return 0.5
	}

	matched := matchedIntegrations(integrations, stack)
	score := float64(matched) / (float64(len(stack)) * 0.5)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// matchedIntegrations counts stack items that match an integration by
// case-insensitive substring in either direction.
func matchedIntegrations(integrations, stack []string) int {
	matched := 0
	for _, item := range stack {
		itemLower := strings.ToLower(strings.TrimSpace(item))
		if itemLower == "" {
			continue
		}
		for _, integ := range integrations {
			integLower := strings.ToLower(integ)
			if strings.Contains(integLower, itemLower) || strings.Contains(itemLower, integLower) {
				matched++
				break
			}
		}
	}
	return matched
}

// orchestrationReady reports whether a tool can participate in an AI
// orchestration layer: whitelisted category, or any integration exposing an
// API surface.
func orchestrationReady(tool types.Tool) bool {
	if orchestrationCategories[strings.ToLower(tool.Category)] {
		return true
	}
	for _, integ := range tool.Integrations {
		lower := strings.ToLower(integ)
		if strings.Contains(lower, "api") || strings.Contains(lower, "rest") {
			return true
		}
	}
	return false
}
