// Package intel implements the intelligence aggregation and fallback
// orchestrator: it gathers independent categories of decision-support data
// from a retrieval backend, scores the assembled package, and blends in a
// curated static corpus whenever quality is insufficient. A complete,
// internally consistent package is produced for every input.
package intel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"revintel/internal/logging"
	"revintel/internal/normalize"
	"revintel/internal/retrieval"
	"revintel/internal/types"
)

// ErrAllStreamsFailed marks a gather run in which every remote stream failed.
// The caller routes it to the full-fallback generator.
var ErrAllStreamsFailed = errors.New("all retrieval streams failed")

// Stream names used for cache keys and diagnostics.
const (
	streamTools      = "tools"
	streamPatterns   = "patterns"
	streamBenchmarks = "benchmarks"
	streamTrends     = "trends"
)

// remoteStreams is the number of independently fetched streams; costs are
// derived locally from the tools stream and do not count.
const remoteStreams = 4

// Policy configures the gathering process.
type Policy struct {
	// MinICPFit filters retrieved tools below this fit score.
	MinICPFit float64
	// MaxTools caps the tools list after filtering.
	MaxTools int
	// GatherTimeout bounds one whole orchestration run.
	GatherTimeout time.Duration
	// PerStreamTimeout bounds each individual stream fetch.
	PerStreamTimeout time.Duration
	// FallbackThreshold is passed to the default quality policy.
	FallbackThreshold float64
}

// DefaultPolicy returns sensible defaults.
func DefaultPolicy() Policy {
	return Policy{
		MinICPFit:         0.5,
		MaxTools:          10,
		GatherTimeout:     2 * time.Minute,
		PerStreamTimeout:  30 * time.Second,
		FallbackThreshold: 0.6,
	}
}

// Gatherer coordinates intelligence collection from the retrieval backend.
// One instance owns its cache; construct a fresh instance (or Clear the
// cache) for runs that must not share state.
type Gatherer struct {
	retriever retrieval.Client
	corpus    Corpus
	quality   QualityPolicy
	cache     *StreamCache
	adoption  AdoptionEstimator
	policy    Policy
}

// NewGatherer creates a gatherer with default policy, the builtin corpus,
// the default quality policy, and a time-seeded adoption estimator.
func NewGatherer(retriever retrieval.Client) *Gatherer {
	policy := DefaultPolicy()
	return &Gatherer{
		retriever: retriever,
		corpus:    BuiltinCorpus{},
		quality:   DefaultQualityPolicy{FallbackThreshold: policy.FallbackThreshold},
		cache:     NewStreamCache(),
		adoption:  NewRandomAdoptionEstimator(0),
		policy:    policy,
	}
}

// WithPolicy sets the gathering policy.
func (g *Gatherer) WithPolicy(policy Policy) *Gatherer {
	g.policy = policy
	if dq, ok := g.quality.(DefaultQualityPolicy); ok {
		dq.FallbackThreshold = policy.FallbackThreshold
		g.quality = dq
	}
	return g
}

// WithQualityPolicy sets the quality policy collaborator.
func (g *Gatherer) WithQualityPolicy(q QualityPolicy) *Gatherer {
	g.quality = q
	return g
}

// WithCorpus sets the fallback corpus provider.
func (g *Gatherer) WithCorpus(c Corpus) *Gatherer {
	g.corpus = c
	return g
}

// WithAdoptionEstimator sets the adoption estimator.
func (g *Gatherer) WithAdoptionEstimator(e AdoptionEstimator) *Gatherer {
	g.adoption = e
	return g
}

// Cache exposes the gatherer's cache for invalidation between runs.
func (g *Gatherer) Cache() *StreamCache {
	return g.cache
}

// GatherForReport is the orchestrator's single public entry point. It never
// fails: every error path, including a total retrieval outage, resolves to a
// valid package via the full-fallback generator.
func (g *Gatherer) GatherForReport(ctx context.Context, actx types.AssessmentContext) (pkg *types.IntelligencePackage) {
	defer func() {
		if r := recover(); r != nil {
			logging.GatherWarn("orchestration panic recovered: %v", r)
			pkg = g.fullFallback(actx)
		}
	}()

	nctx := normalize.Normalize(actx)
	logging.Gather("gather started: icp=%s use_case=%s complexity=%s stack=%d",
		nctx.ICP, nctx.UseCase, nctx.Complexity, len(nctx.StackItems))

	pkg, err := g.gather(ctx, nctx, actx.RevenueChallenge)
	if err != nil {
		logging.GatherWarn("gather pipeline failed, using full fallback: %v", err)
		return g.fullFallback(actx)
	}

	pkg.Insights = synthesizeInsights(nctx, actx.RevenueChallenge)

	assessment := g.quality.Assess(pkg)
	pkg.Metadata.QualityScore = clamp01(assessment.Score)
	logging.Quality("assessment: score=%.2f issues=%d", assessment.Score, len(assessment.Issues))
	for _, issue := range assessment.Issues {
		logging.Quality("issue: %s", issue)
	}

	if g.quality.ShouldUseFallback(assessment) {
		g.blendFallback(pkg, nctx, actx.RevenueChallenge)
	}

	return pkg
}

// gather runs the five streams and assembles a partially populated package
// (insights are synthesized by the caller). Each stream is a bulkhead: its
// failure is logged, recorded, and replaced with a stream default without
// aborting the siblings. Only a failure of every remote stream is reported
// as an error.
func (g *Gatherer) gather(ctx context.Context, nctx types.NormalizedContext, challenge string) (*types.IntelligencePackage, error) {
	timer := logging.StartTimer(logging.CategoryGather, "gather")
	defer timer.StopWithInfo()

	ctx, cancel := context.WithTimeout(ctx, g.policy.GatherTimeout)
	defer cancel()

	pkg := &types.IntelligencePackage{
		Tools:    []types.Tool{},
		Patterns: []types.Pattern{},
	}

	var mu sync.Mutex
	var failed int
	addError := func(stream string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed++
		pkg.Errors = append(pkg.Errors, fmt.Sprintf("%s stream failed: %v", stream, err))
	}

	eg, egCtx := errgroup.WithContext(ctx)

	// 1. Tools
	eg.Go(func() error {
		raw, err := g.fetchTools(egCtx, nctx, challenge)
		if err != nil {
			logging.GatherWarn("tools stream failed: %v", err)
			addError(streamTools, err)
			return nil
		}
		tools := g.selectTools(raw, nctx)
		mu.Lock()
		pkg.Tools = tools
		mu.Unlock()
		return nil
	})

	// 2. Patterns
	eg.Go(func() error {
		raw, err := g.fetchPatterns(egCtx, nctx, challenge)
		if err != nil {
			logging.GatherWarn("patterns stream failed: %v", err)
			addError(streamPatterns, err)
			return nil
		}
		patterns := make([]types.Pattern, 0, len(raw))
		for _, p := range raw {
			patterns = append(patterns, g.enrichPattern(p, nctx))
		}
		mu.Lock()
		pkg.Patterns = patterns
		mu.Unlock()
		return nil
	})

	// 3. Benchmarks
	eg.Go(func() error {
		bench, err := g.fetchBenchmarks(egCtx, nctx)
		if err != nil {
			logging.GatherWarn("benchmarks stream failed: %v", err)
			addError(streamBenchmarks, err)
			return nil
		}
		if bench != nil {
			bench.ClientPosition = stubClientPosition
			bench.ImprovementPotential = stubImprovementPotential
		}
		mu.Lock()
		pkg.Benchmarks = bench
		mu.Unlock()
		return nil
	})

	// 4. Trends
	eg.Go(func() error {
		trends, err := g.fetchTrends(egCtx, nctx)
		if err != nil {
			logging.GatherWarn("trends stream failed: %v", err)
			addError(streamTrends, err)
			trends = defaultTrends()
		}
		mu.Lock()
		pkg.Trends = trends
		mu.Unlock()
		return nil
	})

	// Join point: streams never return errors, so Wait only propagates
	// context cancellation.
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("gather interrupted: %w", err)
	}

	if failed >= remoteStreams {
		return nil, ErrAllStreamsFailed
	}

	// 5. Costs: derived from the gathered tools, no remote call.
	pkg.Costs = deriveCosts(pkg.Tools, nctx.Complexity)

	ensureInvariants(pkg)

	pkg.Metadata = types.PackageMetadata{
		ReportID:      uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		ICP:           nctx.ICP,
		DataFreshness: clamp01(float64(remoteStreams-failed) / float64(remoteStreams)),
	}

	logging.Gather("gather completed: tools=%d patterns=%d benchmarks=%v failures=%d",
		len(pkg.Tools), len(pkg.Patterns), pkg.Benchmarks != nil, failed)

	return pkg, nil
}

// =============================================================================
// STREAM FETCHES
// =============================================================================

// fetchTools queries the backend for tools, consulting the cache first. The
// cache stores raw results; filtering and annotation are per-call because
// they depend on the stack, which is not part of the cache key.
func (g *Gatherer) fetchTools(ctx context.Context, nctx types.NormalizedContext, challenge string) ([]types.Tool, error) {
	if cached, ok := g.cache.Get(streamTools, nctx.ICP, nctx.UseCase); ok {
		logging.CacheDebug("cache hit: %s/%s/%s", streamTools, nctx.ICP, nctx.UseCase)
		return cached.([]types.Tool), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.policy.PerStreamTimeout)
	defer cancel()

	query := fmt.Sprintf("%s tools for %s", challengeLabel(challenge), nctx.ICP)
	result, err := g.retriever.Retrieve(ctx, query, retrieval.Filter{ICP: nctx.ICP, UseCase: nctx.UseCase})
	if err != nil {
		return nil, err
	}

	g.cache.Set(streamTools, nctx.ICP, nctx.UseCase, result.Tools)
	return result.Tools, nil
}

// selectTools applies the fit filter and cap, then annotates the survivors.
func (g *Gatherer) selectTools(raw []types.Tool, nctx types.NormalizedContext) []types.Tool {
	tools := []types.Tool{}
	for _, tool := range raw {
		if tool.ICPFit < g.policy.MinICPFit {
			continue
		}
		tools = append(tools, g.annotateTool(tool, nctx))
		if len(tools) >= g.policy.MaxTools {
			break
		}
	}
	return tools
}

func (g *Gatherer) fetchPatterns(ctx context.Context, nctx types.NormalizedContext, challenge string) ([]types.Pattern, error) {
	if cached, ok := g.cache.Get(streamPatterns, nctx.ICP, nctx.UseCase); ok {
		logging.CacheDebug("cache hit: %s/%s/%s", streamPatterns, nctx.ICP, nctx.UseCase)
		return cached.([]types.Pattern), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.policy.PerStreamTimeout)
	defer cancel()

	query := fmt.Sprintf("%s implementation patterns", challengeLabel(challenge))
	result, err := g.retriever.Retrieve(ctx, query, retrieval.Filter{ICP: nctx.ICP, UseCase: nctx.UseCase})
	if err != nil {
		return nil, err
	}

	g.cache.Set(streamPatterns, nctx.ICP, nctx.UseCase, result.Patterns)
	return result.Patterns, nil
}

func (g *Gatherer) fetchBenchmarks(ctx context.Context, nctx types.NormalizedContext) (*types.IndustryBenchmarks, error) {
	if cached, ok := g.cache.Get(streamBenchmarks, nctx.ICP, nctx.UseCase); ok {
		logging.CacheDebug("cache hit: %s/%s/%s", streamBenchmarks, nctx.ICP, nctx.UseCase)
		bench, _ := cached.(*types.IndustryBenchmarks)
		return cloneBenchmarks(bench), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.policy.PerStreamTimeout)
	defer cancel()

	bench, err := g.retriever.Benchmarks(ctx, nctx.ICP)
	if err != nil {
		return nil, err
	}

	g.cache.Set(streamBenchmarks, nctx.ICP, nctx.UseCase, bench)
	return cloneBenchmarks(bench), nil
}

func (g *Gatherer) fetchTrends(ctx context.Context, nctx types.NormalizedContext) (types.MarketTrends, error) {
	if cached, ok := g.cache.Get(streamTrends, nctx.ICP, nctx.UseCase); ok {
		logging.CacheDebug("cache hit: %s/%s/%s", streamTrends, nctx.ICP, nctx.UseCase)
		return cached.(types.MarketTrends), nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.policy.PerStreamTimeout)
	defer cancel()

	trends, err := g.retriever.MarketContext(ctx, nctx.ICP)
	if err != nil {
		return types.MarketTrends{}, err
	}
	if trends == nil {
		return defaultTrends(), nil
	}

	g.cache.Set(streamTrends, nctx.ICP, nctx.UseCase, *trends)
	return *trends, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// ensureInvariants guarantees the package's non-nil slice invariants before
// it leaves the gatherer.
func ensureInvariants(pkg *types.IntelligencePackage) {
	if pkg.Tools == nil {
		pkg.Tools = []types.Tool{}
	}
	if pkg.Patterns == nil {
		pkg.Patterns = []types.Pattern{}
	}
	if pkg.Trends.Rising == nil {
		pkg.Trends.Rising = []string{}
	}
	if pkg.Trends.Declining == nil {
		pkg.Trends.Declining = []string{}
	}
	if pkg.Trends.Emerging == nil {
		pkg.Trends.Emerging = []string{}
	}
}

// cloneBenchmarks copies a benchmark record so cached entries stay immutable
// when the gatherer fills the stub assessment fields.
func cloneBenchmarks(bench *types.IndustryBenchmarks) *types.IndustryBenchmarks {
	if bench == nil {
		return nil
	}
	out := *bench
	return &out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
