package intel

import (
	"math"
	"testing"

	"revintel/internal/types"
)

func TestStackCompatibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		integrations []string
		stack        []string
		want         float64
	}{
		{
			name:         "one match of three stack items",
			integrations: []string{"Slack", "Jira"},
			stack:        []string{"Slack", "Notion", "Asana"},
			want:         1.0 / 1.5, // 0.667
		},
		{
			name:         "full coverage capped at one",
			integrations: []string{"Slack", "HubSpot"},
			stack:        []string{"Slack", "HubSpot"},
			want:         1.0,
		},
		{
			name:         "empty stack defaults to neutral",
			integrations: []string{"Slack"},
			stack:        nil,
			want:         0.5,
		},
		{
			name:         "no integrations defaults to neutral",
			integrations: nil,
			stack:        []string{"Slack"},
			want:         0.5,
		},
		{
			name:         "substring match both directions",
			integrations: []string{"HubSpot CRM"},
			stack:        []string{"hubspot"},
			want:         1.0, // 1 / (1*0.5) capped
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stackCompatibility(tt.integrations, tt.stack)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("stackCompatibility = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendationReason(t *testing.T) {
	t.Parallel()

	tool := types.Tool{ICPFit: 0.9, Relevance: 0.8}
	reason := recommendationReason(tool, types.ICPAgency, 1)
	if reason != "rated for agency; integrates with existing stack; high relevance" {
		t.Errorf("unexpected reason: %q", reason)
	}

	// No fragments apply -> literal fallback.
	tool = types.Tool{ICPFit: 0.5, Relevance: 0.3}
	reason = recommendationReason(tool, types.ICPAgency, 0)
	if reason != "Good fit for your requirements" {
		t.Errorf("expected literal fallback reason, got %q", reason)
	}
}

func TestAnnotateTool_EffortEstimate(t *testing.T) {
	t.Parallel()

	g := NewGatherer(nil)
	nctx := types.NormalizedContext{ICP: types.ICPAgency, Complexity: types.ComplexityModerate}

	got := g.annotateTool(types.Tool{Name: "X", SetupEffort: "3 days"}, nctx)
	if got.EffortEstimate != "3 days" {
		t.Errorf("tool-supplied effort should win, got %q", got.EffortEstimate)
	}

	got = g.annotateTool(types.Tool{Name: "Y"}, nctx)
	if got.EffortEstimate != "2-4 weeks" {
		t.Errorf("expected complexity-tier effort, got %q", got.EffortEstimate)
	}
	if got.Integrations == nil {
		t.Error("annotation must leave a non-nil integrations slice")
	}
}

func TestOrchestrationReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tool types.Tool
		want bool
	}{
		{"whitelisted category", types.Tool{Category: "automation"}, true},
		{"crm category", types.Tool{Category: "CRM"}, true},
		{"api integration", types.Tool{Category: "enrichment", Integrations: []string{"REST API"}}, true},
		{"apify-style name", types.Tool{Category: "outbound", Integrations: []string{"Webhooks API"}}, true},
		{"neither", types.Tool{Category: "reporting", Integrations: []string{"Slack"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orchestrationReady(tt.tool); got != tt.want {
				t.Errorf("orchestrationReady = %v, want %v", got, tt.want)
			}
		})
	}
}
