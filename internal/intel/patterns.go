package intel

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"sync"
	"time"

	"revintel/internal/types"
)

// AdoptionEstimator supplies an adoption count when the pattern record lacks
// one. Injected so tests can assert exact values; production uses a seeded
// pseudo-random placeholder.
type AdoptionEstimator interface {
	Estimate(pattern types.Pattern) int
}

// RandomAdoptionEstimator produces plausible-looking placeholder counts in
// [10,59]. Safe for concurrent gathers.
type RandomAdoptionEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAdoptionEstimator seeds the estimator. With seed 0 the current
// time is used.
func NewRandomAdoptionEstimator(seed int64) *RandomAdoptionEstimator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomAdoptionEstimator{rng: rand.New(rand.NewSource(seed))}
}

// Estimate implements AdoptionEstimator.
func (e *RandomAdoptionEstimator) Estimate(types.Pattern) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return 10 + e.rng.Intn(50)
}

// FixedAdoptionEstimator returns a constant count; the deterministic choice
// for tests and reproducible runs.
type FixedAdoptionEstimator int

// Estimate implements AdoptionEstimator.
func (e FixedAdoptionEstimator) Estimate(types.Pattern) int { return int(e) }

// placeholderExampleLinks are attached when the backend supplies no example
// references for a pattern.
var placeholderExampleLinks = []string{
	"https://revintel.example.com/case-studies/implementation-1",
	"https://revintel.example.com/case-studies/implementation-2",
}

// timelineRange matches a "N-M week(s)" span inside a timeline string.
var timelineRange = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*week`)

// enrichPattern fills the derived fields of a retrieved pattern record.
func (g *Gatherer) enrichPattern(pattern types.Pattern, nctx types.NormalizedContext) types.Pattern {
	if len(pattern.ExampleLinks) == 0 {
		pattern.ExampleLinks = append([]string{}, placeholderExampleLinks...)
	}

	pattern.AdjustedTimeline = adjustTimeline(pattern.Timeline, nctx.Complexity)

	if pattern.TimesImplemented > 0 {
		pattern.EstimatedAdoption = pattern.TimesImplemented
	} else {
		pattern.EstimatedAdoption = g.adoption.Estimate(pattern)
	}

	return pattern
}

// adjustTimeline tightens a "N-M week" range for simple engagements by
// decrementing the upper bound, floored at one week. Anything else passes
// through unchanged.
func adjustTimeline(timeline string, complexity types.Complexity) string {
	if complexity != types.ComplexitySimple {
		return timeline
	}

	match := timelineRange.FindStringSubmatchIndex(timeline)
	if match == nil {
		return timeline
	}

	lo, _ := strconv.Atoi(timeline[match[2]:match[3]])
	hi, _ := strconv.Atoi(timeline[match[4]:match[5]])
	hi--
	if hi < 1 {
		hi = 1
	}
	if hi < lo {
		lo = hi
	}

	return timeline[:match[2]] + fmt.Sprintf("%d", lo) + timeline[match[3]:match[4]] + fmt.Sprintf("%d", hi) + timeline[match[5]:]
}
