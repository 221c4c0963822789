package intel

import (
	"time"

	"github.com/google/uuid"

	"revintel/internal/logging"
	"revintel/internal/normalize"
	"revintel/internal/types"
)

// Metadata constants for the full-fallback package. The curated corpus is
// vetted by hand, so it ships with fixed high confidence.
const (
	fullFallbackQuality   = 0.8
	fullFallbackFreshness = 1.0

	fallbackDataPoints      = "2,400+ industry data points"
	fallbackImplementations = "150+ successful implementations"
)

// FallbackIntelligence is one curated corpus entry: the minimum content every
// degraded package must contain.
type FallbackIntelligence struct {
	Tools           []types.Tool
	Pattern         types.Pattern
	Benchmarks      types.IndustryBenchmarks
	Recommendations types.Insights
}

// Corpus provides curated static intelligence. Pure and in-process: lookups
// never fail and never perform I/O.
type Corpus interface {
	Lookup(challenge string, icp types.ICP, complexity types.Complexity) FallbackIntelligence
}

// BuiltinCorpus is the curated corpus shipped with the binary.
type BuiltinCorpus struct{}

var corpusTools = map[types.ICP][]types.Tool{
	types.ICPAgency: {
		{
			Name: "HubSpot Sales Hub", Category: "crm", Pricing: "$90/month per seat",
			Integrations: []string{"Slack", "Gmail", "Zapier", "REST API"},
			ICPFit:       0.9, Relevance: 0.8,
			RecommendationReason: "proven fit for agency revenue workflows",
		},
		{
			Name: "Zapier", Category: "automation", Pricing: "$73.50/month",
			Integrations: []string{"Slack", "HubSpot", "Notion", "REST API"},
			ICPFit:       0.85, Relevance: 0.75,
			RecommendationReason: "connects existing stack without engineering effort",
		},
	},
	types.ICPITSM: {
		{
			Name: "ConnectWise PSA", Category: "crm", Pricing: "$120/month per seat",
			Integrations: []string{"Teams", "Azure", "REST API"},
			ICPFit:       0.9, Relevance: 0.8,
			RecommendationReason: "standard PSA backbone for IT service providers",
		},
		{
			Name: "Rewst", Category: "automation", Pricing: "$350/month",
			Integrations: []string{"ConnectWise", "HaloPSA", "REST API"},
			ICPFit:       0.8, Relevance: 0.75,
			RecommendationReason: "MSP-native workflow automation",
		},
	},
	types.ICPSaaS: {
		{
			Name: "Gong", Category: "conversation-intelligence", Pricing: "$1,400/month",
			Integrations: []string{"Salesforce", "HubSpot", "Slack", "API"},
			ICPFit:       0.9, Relevance: 0.8,
			RecommendationReason: "category leader for SaaS revenue intelligence",
		},
		{
			Name: "Clearbit", Category: "enrichment", Pricing: "$275/month",
			Integrations: []string{"Salesforce", "HubSpot", "REST API"},
			ICPFit:       0.85, Relevance: 0.7,
			RecommendationReason: "reliable firmographic enrichment for PLG funnels",
		},
	},
}

var corpusPatterns = map[types.Complexity]types.Pattern{
	types.ComplexitySimple: {
		Name:             "SaaS-first quick win",
		Description:      "Adopt one proven SaaS tool for the single highest-friction workflow before expanding.",
		Timeline:         "1-2 weeks",
		TimesImplemented: 58,
	},
	types.ComplexityModerate: {
		Name:             "SaaS core with custom glue",
		Description:      "Anchor on a SaaS platform and add a thin custom integration layer for stack-specific flows.",
		Timeline:         "3-6 weeks",
		TimesImplemented: 33,
	},
	types.ComplexityComplex: {
		Name:             "Platform build with phased rollout",
		Description:      "Build a custom orchestration platform, shipping one revenue workflow per phase.",
		Timeline:         "8-16 weeks",
		TimesImplemented: 12,
	},
}

var corpusRecommendations = map[types.ICP]types.Insights{
	types.ICPAgency: {
		PrimaryRecommendation: "start with AI-assisted lead qualification using your existing CRM",
		LongTermStrategy:      "productize delivery with an AI-assisted service layer to scale beyond billable hours",
	},
	types.ICPITSM: {
		PrimaryRecommendation: "automate ticket-to-quote workflows before expanding into revenue intelligence",
		LongTermStrategy:      "expand from service desk automation into full revenue operations intelligence",
	},
	types.ICPSaaS: {
		PrimaryRecommendation: "instrument the funnel with conversation intelligence before custom builds",
		LongTermStrategy:      "embed revenue intelligence into the product feedback loop for compounding growth",
	},
}

// Lookup implements Corpus.
func (BuiltinCorpus) Lookup(challenge string, icp types.ICP, complexity types.Complexity) FallbackIntelligence {
	tools, ok := corpusTools[icp]
	if !ok {
		tools = corpusTools[types.ICPAgency]
	}
	pattern, ok := corpusPatterns[complexity]
	if !ok {
		pattern = corpusPatterns[types.ComplexityModerate]
	}

	bench := staticCorpusBenchmarks[icp]
	recs := corpusRecommendations[icp]

	out := FallbackIntelligence{
		Pattern:         pattern,
		Benchmarks:      bench,
		Recommendations: recs,
	}
	out.Tools = append(out.Tools, tools...)
	return out
}

var staticCorpusBenchmarks = map[types.ICP]types.IndustryBenchmarks{
	types.ICPAgency: {AvgConversionRate: 0.12, AvgDealCycleDays: 28, AvgWinRate: 0.31, TopQuartileWinRate: 0.47},
	types.ICPITSM:   {AvgConversionRate: 0.18, AvgDealCycleDays: 45, AvgWinRate: 0.38, TopQuartileWinRate: 0.55},
	types.ICPSaaS:   {AvgConversionRate: 0.09, AvgDealCycleDays: 62, AvgWinRate: 0.22, TopQuartileWinRate: 0.36},
}

// =============================================================================
// FALLBACK BLENDER
// =============================================================================

// blendFallback merges curated corpus entries into a low-quality package
// without discarding usable real data. Post-conditions: Tools non-empty,
// Patterns non-empty, Benchmarks non-nil, UsingFallback set.
func (g *Gatherer) blendFallback(pkg *types.IntelligencePackage, nctx types.NormalizedContext, challenge string) {
	curated := g.corpus.Lookup(challenge, nctx.ICP, nctx.Complexity)

	seen := make(map[string]bool, len(pkg.Tools))
	for _, tool := range pkg.Tools {
		seen[tool.Name] = true
	}
	added := 0
	for _, tool := range curated.Tools {
		if seen[tool.Name] {
			continue
		}
		pkg.Tools = append(pkg.Tools, g.annotateTool(tool, nctx))
		added++
	}

	if len(pkg.Patterns) == 0 {
		pkg.Patterns = append(pkg.Patterns, g.enrichPattern(curated.Pattern, nctx))
	}

	if pkg.Benchmarks == nil {
		bench := curated.Benchmarks
		bench.ClientPosition = stubClientPosition
		bench.ImprovementPotential = stubImprovementPotential
		pkg.Benchmarks = &bench
	}

	mergeInsights(&pkg.Insights, curated.Recommendations)
	pkg.Metadata.UsingFallback = true

	logging.Fallback("blended curated corpus: +%d tools, patterns=%d, benchmarks=%v",
		added, len(pkg.Patterns), pkg.Benchmarks != nil)
}

// mergeInsights fills only unset fields of dst from curated values; computed
// insights always win over the corpus.
func mergeInsights(dst *types.Insights, curated types.Insights) {
	if dst.PrimaryRecommendation == "" {
		dst.PrimaryRecommendation = curated.PrimaryRecommendation
	}
	if dst.LongTermStrategy == "" {
		dst.LongTermStrategy = curated.LongTermStrategy
	}
	if len(dst.RiskFactors) == 0 && len(curated.RiskFactors) > 0 {
		dst.RiskFactors = append(dst.RiskFactors, curated.RiskFactors...)
	}
	if len(dst.QuickWins) == 0 && len(curated.QuickWins) > 0 {
		dst.QuickWins = append(dst.QuickWins, curated.QuickWins...)
	}
}

// =============================================================================
// FULL-FALLBACK GENERATOR
// =============================================================================

// fullFallback is the pipeline's outermost error boundary: a complete package
// built purely from the curated corpus. All inputs are static in-process data,
// so it can never fail.
func (g *Gatherer) fullFallback(actx types.AssessmentContext) *types.IntelligencePackage {
	nctx := normalize.Normalize(actx)
	curated := g.corpus.Lookup(actx.RevenueChallenge, nctx.ICP, nctx.Complexity)

	logging.FallbackWarn("full fallback engaged for icp=%s complexity=%s", nctx.ICP, nctx.Complexity)

	tools := make([]types.Tool, 0, len(curated.Tools))
	for _, tool := range curated.Tools {
		tools = append(tools, g.annotateTool(tool, nctx))
	}

	bench := curated.Benchmarks
	bench.ClientPosition = stubClientPosition
	bench.ImprovementPotential = stubImprovementPotential

	insights := synthesizeInsights(nctx, actx.RevenueChallenge)
	mergeInsights(&insights, curated.Recommendations)

	return &types.IntelligencePackage{
		Metadata: types.PackageMetadata{
			ReportID:        uuid.NewString(),
			GeneratedAt:     time.Now().UTC(),
			ICP:             nctx.ICP,
			DataFreshness:   fullFallbackFreshness,
			QualityScore:    fullFallbackQuality,
			UsingFallback:   true,
			DataPoints:      fallbackDataPoints,
			Implementations: fallbackImplementations,
		},
		Tools:      tools,
		Patterns:   []types.Pattern{g.enrichPattern(curated.Pattern, nctx)},
		Benchmarks: &bench,
		Costs:      defaultCostAnalysis(nctx.Complexity),
		Trends:     defaultTrends(),
		Insights:   insights,
	}
}
