package retrieval

import (
	"context"
	"strings"

	"revintel/internal/types"
)

// StaticProvider serves a small curated dataset from process memory. It backs
// the CLI when no retrieval backend is configured and doubles as a live-data
// stand-in for tests. Safe for concurrent use: all data is read-only.
type StaticProvider struct{}

// NewStaticProvider returns the in-process provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

var staticTools = map[types.ICP][]types.Tool{
	types.ICPAgency: {
		{
			Name: "HubSpot Sales Hub", Category: "crm", Pricing: "$90/month per seat",
			ProfessionalTier: 90,
			Integrations:     []string{"Slack", "Gmail", "Zapier", "REST API"},
			ICPFit:           0.9, Relevance: 0.85,
		},
		{
			Name: "Clay", Category: "enrichment", Pricing: "$149/month",
			ProfessionalTier: 149,
			Integrations:     []string{"HubSpot", "Salesforce", "Webhooks API"},
			ICPFit:           0.8, Relevance: 0.8,
		},
		{
			Name: "Instantly", Category: "outbound", Pricing: "$97/month",
			ProfessionalTier: 97,
			Integrations:     []string{"HubSpot", "Pipedrive", "API"},
			ICPFit:           0.7, Relevance: 0.6,
		},
		{
			Name: "Zapier", Category: "automation", Pricing: "$73.50/month",
			ProfessionalTier: 73.5,
			Integrations:     []string{"Slack", "HubSpot", "Notion", "Asana", "REST API"},
			ICPFit:           0.85, Relevance: 0.7,
		},
	},
	types.ICPITSM: {
		{
			Name: "ConnectWise PSA", Category: "crm", Pricing: "$120/month per seat",
			ProfessionalTier: 120,
			Integrations:     []string{"Teams", "Azure", "REST API"},
			ICPFit:           0.9, Relevance: 0.8,
		},
		{
			Name: "HaloPSA", Category: "workflow", Pricing: "$89/month per seat",
			ProfessionalTier: 89,
			Integrations:     []string{"Teams", "Slack", "API"},
			ICPFit:           0.85, Relevance: 0.75,
		},
		{
			Name: "Rewst", Category: "automation", Pricing: "$350/month",
			ProfessionalTier: 350,
			Integrations:     []string{"ConnectWise", "HaloPSA", "REST API"},
			ICPFit:           0.8, Relevance: 0.8,
		},
	},
	types.ICPSaaS: {
		{
			Name: "Gong", Category: "conversation-intelligence", Pricing: "$1,400/month",
			ProfessionalTier: 1400,
			Integrations:     []string{"Salesforce", "HubSpot", "Slack", "API"},
			ICPFit:           0.9, Relevance: 0.85,
		},
		{
			Name: "Clearbit", Category: "enrichment", Pricing: "$275/month",
			ProfessionalTier: 275,
			Integrations:     []string{"Salesforce", "HubSpot", "Segment", "REST API"},
			ICPFit:           0.85, Relevance: 0.7,
		},
		{
			Name: "MadKudu", Category: "ai-platform", Pricing: "$999/month",
			ProfessionalTier: 999,
			Integrations:     []string{"Salesforce", "Marketo", "API"},
			ICPFit:           0.8, Relevance: 0.8,
		},
	},
}

var staticPatterns = map[types.UseCase][]types.Pattern{
	types.UseCaseLeadQualification: {
		{
			Name:             "AI lead scoring over CRM events",
			Description:      "Score inbound leads with an ML model fed by CRM activity and firmographic enrichment.",
			Timeline:         "2-4 weeks",
			TimesImplemented: 34,
		},
		{
			Name:        "Qualification chatbot handoff",
			Description: "Front-line conversational qualification that books meetings for qualified leads only.",
			Timeline:    "1-3 weeks",
		},
	},
	types.UseCaseProposalGeneration: {
		{
			Name:             "Template-driven proposal assembly",
			Description:      "Generate first-draft proposals from CRM deal data and a curated template library.",
			Timeline:         "2-3 weeks",
			TimesImplemented: 27,
		},
	},
	types.UseCaseCustomerRetention: {
		{
			Name:             "Churn-signal early warning",
			Description:      "Aggregate product usage and support signals into a weekly churn-risk digest.",
			Timeline:         "3-6 weeks",
			TimesImplemented: 19,
		},
	},
	types.UseCasePricingOptimization: {
		{
			Name:        "Win-rate informed price banding",
			Description: "Derive price bands per segment from historical win/loss outcomes.",
			Timeline:    "4-8 weeks",
		},
	},
	types.UseCaseWorkflowAutomation: {
		{
			Name:             "Human-in-the-loop approval chains",
			Description:      "Automate multi-step revenue workflows with explicit approval gates.",
			Timeline:         "2-4 weeks",
			TimesImplemented: 41,
		},
	},
}

var staticBenchmarks = map[types.ICP]types.IndustryBenchmarks{
	types.ICPAgency: {AvgConversionRate: 0.12, AvgDealCycleDays: 28, AvgWinRate: 0.31, TopQuartileWinRate: 0.47},
	types.ICPITSM:   {AvgConversionRate: 0.18, AvgDealCycleDays: 45, AvgWinRate: 0.38, TopQuartileWinRate: 0.55},
	types.ICPSaaS:   {AvgConversionRate: 0.09, AvgDealCycleDays: 62, AvgWinRate: 0.22, TopQuartileWinRate: 0.36},
}

var staticTrends = map[types.ICP]types.MarketTrends{
	types.ICPAgency: {
		Rising:    []string{"AI-powered lead scoring", "revenue intelligence platforms", "conversation intelligence"},
		Declining: []string{"manual data entry", "static weekly reporting"},
		Emerging:  []string{"agentic outreach workflows", "AI proposal generation"},
	},
	types.ICPITSM: {
		Rising:    []string{"PSA-native automation", "AI ticket triage"},
		Declining: []string{"spreadsheet-based quoting"},
		Emerging:  []string{"autonomous service desk agents"},
	},
	types.ICPSaaS: {
		Rising:    []string{"product-led sales signals", "AI forecasting"},
		Declining: []string{"cold-call-only outbound"},
		Emerging:  []string{"usage-based pricing copilots"},
	},
}

// Retrieve implements Client. The query text selects patterns when it mentions
// implementation patterns; tools are always scoped by the filter's ICP.
func (p *StaticProvider) Retrieve(ctx context.Context, query string, filter Filter) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Tools: []types.Tool{}, Patterns: []types.Pattern{}}

	if strings.Contains(strings.ToLower(query), "implementation pattern") {
		result.Patterns = append(result.Patterns, staticPatterns[filter.UseCase]...)
		return result, nil
	}

	result.Tools = append(result.Tools, staticTools[filter.ICP]...)
	if filter.Limit > 0 && len(result.Tools) > filter.Limit {
		result.Tools = result.Tools[:filter.Limit]
	}
	return result, nil
}

// Benchmarks implements Client.
func (p *StaticProvider) Benchmarks(ctx context.Context, icp types.ICP) (*types.IndustryBenchmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bench, ok := staticBenchmarks[icp]
	if !ok {
		return nil, nil
	}
	out := bench
	return &out, nil
}

// MarketContext implements Client.
func (p *StaticProvider) MarketContext(ctx context.Context, icp types.ICP) (*types.MarketTrends, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trends, ok := staticTrends[icp]
	if !ok {
		return nil, nil
	}
	out := trends
	return &out, nil
}
