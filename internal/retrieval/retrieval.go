// Package retrieval defines the contract to the external decision-support
// retrieval capability and ships two implementations: a JSON-over-HTTP client
// for a hosted backend and an in-process static provider used when no backend
// is configured.
package retrieval

import (
	"context"
	"errors"

	"revintel/internal/types"
)

// ErrUnavailable marks a retrieval backend that cannot be reached at all.
// Stream failures wrapping this error count toward the gatherer's
// pipeline-wide outage detection.
var ErrUnavailable = errors.New("retrieval backend unavailable")

// Filter scopes a retrieval query to a normalized context.
type Filter struct {
	ICP     types.ICP     `json:"icp"`
	UseCase types.UseCase `json:"use_case"`
	Limit   int           `json:"limit,omitempty"`
}

// Result is the payload of one retrieval query.
type Result struct {
	Tools    []types.Tool    `json:"tools"`
	Patterns []types.Pattern `json:"patterns"`
}

// Client is the retrieval capability consumed by the gatherer. Implementations
// must be safe for concurrent use; failures surface as errors, never as
// malformed success values.
type Client interface {
	// Retrieve runs a free-text query scoped by the filter.
	Retrieve(ctx context.Context, query string, filter Filter) (*Result, error)

	// Benchmarks returns ICP-level baseline metrics, or (nil, nil) when the
	// backend has none for this segment.
	Benchmarks(ctx context.Context, icp types.ICP) (*types.IndustryBenchmarks, error)

	// MarketContext returns current market trends for the segment.
	MarketContext(ctx context.Context, icp types.ICP) (*types.MarketTrends, error)
}
