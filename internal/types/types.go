// Package types provides shared type definitions used across revintel packages.
// This package exists to break import cycles between normalize, retrieval, and
// intel. Types in this package are foundational data structures with no complex
// dependencies.
package types

import "time"

// =============================================================================
// CANONICAL TAXONOMY
// =============================================================================

// ICP is a canonical business-segment code used to scope retrieval and defaults.
type ICP string

const (
	ICPITSM   ICP = "itsm"
	ICPAgency ICP = "agency"
	ICPSaaS   ICP = "saas"
)

// UseCase identifies the type of revenue challenge driving retrieval.
type UseCase string

const (
	UseCaseLeadQualification   UseCase = "lead-qualification"
	UseCaseProposalGeneration  UseCase = "proposal-generation"
	UseCaseCustomerRetention   UseCase = "customer-retention"
	UseCasePricingOptimization UseCase = "pricing-optimization"
	UseCaseWorkflowAutomation  UseCase = "workflow-automation"
)

// BudgetTier is the canonical investment-level code.
type BudgetTier string

const (
	TierQuickWin       BudgetTier = "quick-win"
	TierTransformation BudgetTier = "transformation"
	TierEnterprise     BudgetTier = "enterprise"
)

// Complexity classifies an engagement for cost and effort defaults.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// =============================================================================
// ASSESSMENT INPUT
// =============================================================================

// AssessmentContext is the externally supplied business context for one
// orchestration call. Every field is optional; an empty string means absent.
// Consumers apply documented defaults instead of failing.
type AssessmentContext struct {
	BusinessType     string `json:"business_type"`
	RevenueChallenge string `json:"revenue_challenge"`
	SolutionStack    string `json:"solution_stack"`
	InvestmentLevel  string `json:"investment_level"`
}

// NormalizedContext is the canonical form of an AssessmentContext. It is
// produced once by the normalizer and consumed read-only downstream.
type NormalizedContext struct {
	ICP        ICP        `json:"icp"`
	UseCase    UseCase    `json:"use_case"`
	StackItems []string   `json:"stack_items"`
	BudgetTier BudgetTier `json:"budget_tier"`
	Complexity Complexity `json:"complexity"`
}

// =============================================================================
// INTELLIGENCE PACKAGE
// =============================================================================

// PackageMetadata describes provenance and quality of one gathered package.
type PackageMetadata struct {
	ReportID        string    `json:"report_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	ICP             ICP       `json:"icp"`
	DataFreshness   float64   `json:"data_freshness"` // [0,1]
	QualityScore    float64   `json:"quality_score"`  // [0,1]
	UsingFallback   bool      `json:"using_fallback"`
	DataPoints      string    `json:"data_points,omitempty"`
	Implementations string    `json:"implementations,omitempty"`
}

// Tool is a recommended tool record. The first group of fields comes from the
// retrieval backend; the derived group is filled by the gatherer.
type Tool struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Pricing          string   `json:"pricing,omitempty"`
	ProfessionalTier float64  `json:"professional_tier,omitempty"` // monthly USD
	Integrations     []string `json:"integrations"`
	ICPFit           float64  `json:"icp_fit"`
	Relevance        float64  `json:"relevance"`
	SetupEffort      string   `json:"setup_effort,omitempty"`

	// Derived fields
	RecommendationReason string  `json:"recommendation_reason"`
	StackCompatibility   float64 `json:"stack_compatibility"` // [0,1]
	EffortEstimate       string  `json:"effort_estimate"`
	OrchestrationReady   bool    `json:"orchestration_ready"`
}

// Pattern is an implementation-pattern record enriched by the gatherer.
type Pattern struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Timeline         string `json:"timeline"`
	TimesImplemented int    `json:"times_implemented,omitempty"`

	// Derived fields
	ExampleLinks      []string `json:"example_links"`
	AdjustedTimeline  string   `json:"adjusted_timeline"`
	EstimatedAdoption int      `json:"estimated_adoption"`
}

// IndustryBenchmarks holds ICP-level baseline metrics. ClientPosition and
// ImprovementPotential are filled by the gatherer; today they are stub
// assessments pending real client metrics from the benchmarking collaborator.
type IndustryBenchmarks struct {
	AvgConversionRate  float64 `json:"avg_conversion_rate"`
	AvgDealCycleDays   int     `json:"avg_deal_cycle_days"`
	AvgWinRate         float64 `json:"avg_win_rate"`
	TopQuartileWinRate float64 `json:"top_quartile_win_rate"`

	ClientPosition       string `json:"client_position"`
	ImprovementPotential string `json:"improvement_potential"`
}

// PriceRange is an observed monthly price span in USD.
type PriceRange struct {
	MinMonthly float64 `json:"min_monthly"`
	MaxMonthly float64 `json:"max_monthly"`
}

// CostAnalysis summarizes expected spend for the engagement.
type CostAnalysis struct {
	SaaSMedianMonthly float64    `json:"saas_median_monthly"`
	SaaSRange         PriceRange `json:"saas_range"`
	CustomBuild       string     `json:"custom_build"`
}

// MarketTrends lists rising, declining, and newly emerging tool categories.
type MarketTrends struct {
	Rising    []string `json:"rising"`
	Declining []string `json:"declining"`
	Emerging  []string `json:"emerging"`
}

// Insights carries the synthesized narrative recommendation fields.
type Insights struct {
	PrimaryRecommendation string   `json:"primary_recommendation"`
	RiskFactors           []string `json:"risk_factors"`
	QuickWins             []string `json:"quick_wins"`
	LongTermStrategy      string   `json:"long_term_strategy"`
}

// IntelligencePackage is the orchestrator's sole output. It is a value object:
// newly constructed per call and never mutated after it is returned.
//
// Invariants: Tools, Patterns, and every Trends list are non-nil (absence of
// data yields an empty slice), and both metadata scores are in [0,1]. When
// UsingFallback is true, Tools is non-empty, Patterns has at least one entry,
// and Benchmarks is non-nil.
type IntelligencePackage struct {
	Metadata   PackageMetadata     `json:"metadata"`
	Tools      []Tool              `json:"tools"`
	Patterns   []Pattern           `json:"patterns"`
	Benchmarks *IndustryBenchmarks `json:"benchmarks,omitempty"`
	Costs      CostAnalysis        `json:"costs"`
	Trends     MarketTrends        `json:"trends"`
	Insights   Insights            `json:"insights"`
	Errors     []string            `json:"gathering_errors,omitempty"`
}
