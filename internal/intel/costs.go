package intel

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"revintel/internal/types"
)

// customBuildCosts is the custom-build estimate per complexity tier.
var customBuildCosts = map[types.Complexity]string{
	types.ComplexitySimple:   "$15,000-30,000",
	types.ComplexityModerate: "$30,000-75,000",
	types.ComplexityComplex:  "$75,000-200,000",
}

// Conservative defaults used when no tool carries a parseable price.
const (
	defaultSaaSMedian = 500.0
	defaultSaaSMin    = 100.0
	defaultSaaSMax    = 1500.0
)

// priceTag extracts the leading dollar amount from a pricing string, e.g.
// "$1,400/month" -> 1400.
var priceTag = regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d+)?)`)

// deriveCosts computes the cost analysis from the already-gathered tools
// list. Tools without a parseable price are skipped; with none at all, the
// fixed conservative range applies.
func deriveCosts(tools []types.Tool, complexity types.Complexity) types.CostAnalysis {
	prices := make([]float64, 0, len(tools))
	for _, tool := range tools {
		if price, ok := toolPrice(tool); ok {
			prices = append(prices, price)
		}
	}

	analysis := types.CostAnalysis{CustomBuild: customBuildCosts[complexity]}

	if len(prices) == 0 {
		analysis.SaaSMedianMonthly = defaultSaaSMedian
		analysis.SaaSRange = types.PriceRange{MinMonthly: defaultSaaSMin, MaxMonthly: defaultSaaSMax}
		return analysis
	}

	sort.Float64s(prices)
	analysis.SaaSMedianMonthly = median(prices)
	analysis.SaaSRange = types.PriceRange{
		MinMonthly: prices[0],
		MaxMonthly: prices[len(prices)-1],
	}
	return analysis
}

// toolPrice reads a tool's monthly price from its pricing string, falling
// back to the structured professional-tier field.
func toolPrice(tool types.Tool) (float64, bool) {
	if match := priceTag.FindStringSubmatch(tool.Pricing); match != nil {
		raw := strings.ReplaceAll(match[1], ",", "")
		if price, err := strconv.ParseFloat(raw, 64); err == nil && price > 0 {
			return price, true
		}
	}
	if tool.ProfessionalTier > 0 {
		return tool.ProfessionalTier, true
	}
	return 0, false
}

// median of a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// defaultCostAnalysis is the conservative stream default used when the tools
// stream itself failed.
func defaultCostAnalysis(complexity types.Complexity) types.CostAnalysis {
	return types.CostAnalysis{
		SaaSMedianMonthly: defaultSaaSMedian,
		SaaSRange:         types.PriceRange{MinMonthly: defaultSaaSMin, MaxMonthly: defaultSaaSMax},
		CustomBuild:       customBuildCosts[complexity],
	}
}

// defaultTrends is the static substitute when market-context retrieval fails.
func defaultTrends() types.MarketTrends {
	return types.MarketTrends{
		Rising:    []string{"AI-powered lead scoring", "revenue intelligence platforms", "conversation intelligence"},
		Declining: []string{"manual data entry", "static weekly reporting"},
		Emerging:  []string{"agentic revenue workflows"},
	}
}
