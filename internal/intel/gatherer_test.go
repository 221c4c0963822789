package intel

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"revintel/internal/retrieval"
	"revintel/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRetriever lets each test script the backend per method. Call counters
// are atomic because streams run concurrently.
type fakeRetriever struct {
	retrieveFn      func(ctx context.Context, query string, filter retrieval.Filter) (*retrieval.Result, error)
	benchmarksFn    func(ctx context.Context, icp types.ICP) (*types.IndustryBenchmarks, error)
	marketFn        func(ctx context.Context, icp types.ICP) (*types.MarketTrends, error)
	retrieveCalls   atomic.Int64
	benchmarksCalls atomic.Int64
	marketCalls     atomic.Int64
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, filter retrieval.Filter) (*retrieval.Result, error) {
	f.retrieveCalls.Add(1)
	if f.retrieveFn != nil {
		return f.retrieveFn(ctx, query, filter)
	}
	return &retrieval.Result{Tools: []types.Tool{}, Patterns: []types.Pattern{}}, nil
}

func (f *fakeRetriever) Benchmarks(ctx context.Context, icp types.ICP) (*types.IndustryBenchmarks, error) {
	f.benchmarksCalls.Add(1)
	if f.benchmarksFn != nil {
		return f.benchmarksFn(ctx, icp)
	}
	return nil, nil
}

func (f *fakeRetriever) MarketContext(ctx context.Context, icp types.ICP) (*types.MarketTrends, error) {
	f.marketCalls.Add(1)
	if f.marketFn != nil {
		return f.marketFn(ctx, icp)
	}
	return nil, nil
}

// richRetriever scripts a healthy backend.
func richRetriever() *fakeRetriever {
	return &fakeRetriever{
		retrieveFn: func(_ context.Context, query string, filter retrieval.Filter) (*retrieval.Result, error) {
			if strings.Contains(query, "implementation pattern") {
				return &retrieval.Result{Patterns: []types.Pattern{
					{Name: "p1", Timeline: "2-4 weeks", TimesImplemented: 12},
					{Name: "p2", Timeline: "3-6 weeks"},
				}}, nil
			}
			return &retrieval.Result{Tools: []types.Tool{
				{Name: "t1", Pricing: "$100/month", ICPFit: 0.9, Relevance: 0.8, Integrations: []string{"Slack"}},
				{Name: "t2", Pricing: "$200/month", ICPFit: 0.8, Relevance: 0.8},
				{Name: "t3", Pricing: "$300/month", ICPFit: 0.7, Relevance: 0.8},
				{Name: "t4", Pricing: "$400/month", ICPFit: 0.6, Relevance: 0.8},
				{Name: "t5", Pricing: "$500/month", ICPFit: 0.55, Relevance: 0.8},
				{Name: "low-fit", ICPFit: 0.2},
			}}, nil
		},
		benchmarksFn: func(context.Context, types.ICP) (*types.IndustryBenchmarks, error) {
			return &types.IndustryBenchmarks{AvgConversionRate: 0.1, AvgDealCycleDays: 30, AvgWinRate: 0.3, TopQuartileWinRate: 0.5}, nil
		},
		marketFn: func(context.Context, types.ICP) (*types.MarketTrends, error) {
			return &types.MarketTrends{Rising: []string{"r"}, Declining: []string{"d"}, Emerging: []string{"e"}}, nil
		},
	}
}

var agencyContext = types.AssessmentContext{
	BusinessType:     "digital marketing agency",
	RevenueChallenge: "manual lead qualification",
	SolutionStack:    "HubSpot, Slack",
	InvestmentLevel:  "Quick Win",
}

func TestGatherForReport_HealthyBackend(t *testing.T) {
	g := NewGatherer(richRetriever()).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.False(t, pkg.Metadata.UsingFallback)
	assert.Equal(t, types.ICPAgency, pkg.Metadata.ICP)
	assert.Equal(t, 1.0, pkg.Metadata.DataFreshness)
	assert.NotEmpty(t, pkg.Metadata.ReportID)
	assert.GreaterOrEqual(t, pkg.Metadata.QualityScore, 0.6)

	require.Len(t, pkg.Tools, 5, "low-fit tool should be filtered out")
	for _, tool := range pkg.Tools {
		assert.NotEmpty(t, tool.EffortEstimate, "tool %s not annotated", tool.Name)
		assert.NotEmpty(t, tool.RecommendationReason, "tool %s missing reason", tool.Name)
		assert.NotNil(t, tool.Integrations)
	}

	require.Len(t, pkg.Patterns, 2)
	assert.Equal(t, "2-3 weeks", pkg.Patterns[0].AdjustedTimeline, "simple engagements tighten the range")
	assert.Equal(t, 12, pkg.Patterns[0].EstimatedAdoption)
	assert.Equal(t, 25, pkg.Patterns[1].EstimatedAdoption)

	require.NotNil(t, pkg.Benchmarks)
	assert.Equal(t, stubClientPosition, pkg.Benchmarks.ClientPosition)
	assert.Equal(t, stubImprovementPotential, pkg.Benchmarks.ImprovementPotential)

	assert.Equal(t, 300.0, pkg.Costs.SaaSMedianMonthly)
	assert.Equal(t, "$15,000-30,000", pkg.Costs.CustomBuild)

	assert.Equal(t, "start with AI-powered manual lead qualification using proven SaaS tools", pkg.Insights.PrimaryRecommendation)
	assert.Contains(t, pkg.Insights.QuickWins, "automate lead qualification")
	assert.Contains(t, pkg.Insights.QuickWins, "process automation")
	assert.Empty(t, pkg.Errors)
}

func TestGatherForReport_TotalOutage(t *testing.T) {
	outage := errors.New("backend down")
	fake := &fakeRetriever{
		retrieveFn: func(context.Context, string, retrieval.Filter) (*retrieval.Result, error) {
			return nil, outage
		},
		benchmarksFn: func(context.Context, types.ICP) (*types.IndustryBenchmarks, error) {
			return nil, outage
		},
		marketFn: func(context.Context, types.ICP) (*types.MarketTrends, error) {
			return nil, outage
		},
	}
	g := NewGatherer(fake).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.True(t, pkg.Metadata.UsingFallback)
	assert.Equal(t, fullFallbackQuality, pkg.Metadata.QualityScore)
	assert.Equal(t, fullFallbackFreshness, pkg.Metadata.DataFreshness)
	assert.Equal(t, fallbackDataPoints, pkg.Metadata.DataPoints)
	assert.NotEmpty(t, pkg.Tools)
	assert.NotEmpty(t, pkg.Patterns)
	require.NotNil(t, pkg.Benchmarks)
	assert.NotEmpty(t, pkg.Insights.PrimaryRecommendation)
}

func TestGatherForReport_PartialFailure(t *testing.T) {
	outage := errors.New("shard unavailable")
	fake := richRetriever()
	fake.benchmarksFn = func(context.Context, types.ICP) (*types.IndustryBenchmarks, error) {
		return nil, outage
	}
	fake.marketFn = func(context.Context, types.ICP) (*types.MarketTrends, error) {
		return nil, outage
	}
	g := NewGatherer(fake).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.False(t, pkg.Metadata.UsingFallback, "surviving streams carry the package")
	assert.Len(t, pkg.Tools, 5)
	assert.Len(t, pkg.Patterns, 2)
	assert.Nil(t, pkg.Benchmarks)
	assert.NotEmpty(t, pkg.Trends.Rising, "failed trends stream gets the static default")
	assert.Equal(t, 0.5, pkg.Metadata.DataFreshness)
	assert.Len(t, pkg.Errors, 2)
	for _, msg := range pkg.Errors {
		assert.Contains(t, msg, "stream failed")
	}
}

func TestGatherForReport_LowQualityBlends(t *testing.T) {
	fake := &fakeRetriever{
		retrieveFn: func(_ context.Context, query string, _ retrieval.Filter) (*retrieval.Result, error) {
			if strings.Contains(query, "implementation pattern") {
				return &retrieval.Result{Patterns: []types.Pattern{}}, nil
			}
			return &retrieval.Result{Tools: []types.Tool{{Name: "lonely", ICPFit: 0.9}}}, nil
		},
	}
	g := NewGatherer(fake).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.True(t, pkg.Metadata.UsingFallback)
	assert.NotEmpty(t, pkg.Patterns, "blend fills missing patterns")
	require.NotNil(t, pkg.Benchmarks, "blend fills missing benchmarks")
	assert.Equal(t, 1.0, pkg.Metadata.DataFreshness, "no stream failed, quality was just low")

	names := make(map[string]bool)
	for _, tool := range pkg.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["lonely"], "real data survives the blend")
	assert.True(t, names["HubSpot Sales Hub"], "curated tools are appended")
}

func TestGatherForReport_CacheHit(t *testing.T) {
	fake := richRetriever()
	g := NewGatherer(fake).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	g.GatherForReport(context.Background(), agencyContext)
	require.Equal(t, int64(2), fake.retrieveCalls.Load(), "tools + patterns queries")
	require.Equal(t, int64(1), fake.benchmarksCalls.Load())
	require.Equal(t, int64(1), fake.marketCalls.Load())

	g.GatherForReport(context.Background(), agencyContext)
	assert.Equal(t, int64(2), fake.retrieveCalls.Load(), "second run served from cache")
	assert.Equal(t, int64(1), fake.benchmarksCalls.Load())
	assert.Equal(t, int64(1), fake.marketCalls.Load())

	g.Cache().Clear()
	g.GatherForReport(context.Background(), agencyContext)
	assert.Equal(t, int64(4), fake.retrieveCalls.Load(), "cleared cache re-fetches")
}

func TestGatherForReport_PanicRecovered(t *testing.T) {
	g := NewGatherer(richRetriever()).
		WithAdoptionEstimator(FixedAdoptionEstimator(25)).
		WithQualityPolicy(panickyPolicy{})

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.True(t, pkg.Metadata.UsingFallback)
	assert.Equal(t, fullFallbackQuality, pkg.Metadata.QualityScore)
}

type panickyPolicy struct{}

func (panickyPolicy) Assess(*types.IntelligencePackage) Assessment { panic("assessment exploded") }
func (panickyPolicy) ShouldUseFallback(Assessment) bool            { return false }

func TestGatherForReport_StaticProviderEndToEnd(t *testing.T) {
	g := NewGatherer(retrieval.NewStaticProvider()).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	pkg := g.GatherForReport(context.Background(), agencyContext)

	require.NotNil(t, pkg)
	assert.False(t, pkg.Metadata.UsingFallback)
	assert.Equal(t, types.ICPAgency, pkg.Metadata.ICP)
	assert.Len(t, pkg.Tools, 4)
	assert.Len(t, pkg.Patterns, 2)
	require.NotNil(t, pkg.Benchmarks)
	assert.NotEmpty(t, pkg.Trends.Rising)
	assert.Greater(t, pkg.Costs.SaaSRange.MaxMonthly, pkg.Costs.SaaSRange.MinMonthly)

	// HubSpot and Slack are in the declared stack, so stack-aware annotations
	// must reflect real matches.
	var zapier *types.Tool
	for i := range pkg.Tools {
		if pkg.Tools[i].Name == "Zapier" {
			zapier = &pkg.Tools[i]
		}
	}
	require.NotNil(t, zapier)
	assert.Contains(t, zapier.RecommendationReason, "integrates with existing stack")
	assert.Equal(t, 1.0, zapier.StackCompatibility)
}

func TestGatherForReport_NeverReturnsNil(t *testing.T) {
	inputs := []types.AssessmentContext{
		{},
		{BusinessType: "???", RevenueChallenge: "???", SolutionStack: ",,,", InvestmentLevel: "???"},
		agencyContext,
		{BusinessType: "IT Service Provider", RevenueChallenge: "ticket chaos", InvestmentLevel: "Enterprise"},
	}
	g := NewGatherer(retrieval.NewStaticProvider()).WithAdoptionEstimator(FixedAdoptionEstimator(25))

	for _, actx := range inputs {
		pkg := g.GatherForReport(context.Background(), actx)
		require.NotNil(t, pkg)
		assert.NotNil(t, pkg.Tools)
		assert.NotNil(t, pkg.Patterns)
		assert.NotNil(t, pkg.Trends.Rising)
		assert.NotEmpty(t, pkg.Metadata.ReportID)
		assert.NotEmpty(t, pkg.Insights.PrimaryRecommendation)
		assert.GreaterOrEqual(t, pkg.Metadata.QualityScore, 0.0)
		assert.LessOrEqual(t, pkg.Metadata.QualityScore, 1.0)
		assert.GreaterOrEqual(t, pkg.Metadata.DataFreshness, 0.0)
		assert.LessOrEqual(t, pkg.Metadata.DataFreshness, 1.0)
	}
}
