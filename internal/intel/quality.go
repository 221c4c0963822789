package intel

import (
	"fmt"

	"revintel/internal/types"
)

// Assessment is the result of scoring an assembled package.
type Assessment struct {
	Score  float64  // [0,1]
	Issues []string // human-readable gaps found during scoring
}

// QualityPolicy decides whether a gathered package is good enough to ship
// without fallback blending. Both methods are pure with respect to the
// package.
type QualityPolicy interface {
	Assess(pkg *types.IntelligencePackage) Assessment
	ShouldUseFallback(a Assessment) bool
}

// DefaultQualityPolicy is a weighted component scorer.
// Weights:
//   - tools 35% (full credit at 5 relevant tools)
//   - patterns 25% (full credit at 2)
//   - benchmarks 20% (present or not)
//   - trends 10% (any rising category)
//   - costs 10% (observed SaaS range, not the conservative default)
type DefaultQualityPolicy struct {
	// FallbackThreshold is the minimum acceptable score. Zero means the
	// default of 0.6.
	FallbackThreshold float64
}

// Assess implements QualityPolicy.
func (p DefaultQualityPolicy) Assess(pkg *types.IntelligencePackage) Assessment {
	var a Assessment

	toolScore := float64(len(pkg.Tools)) / 5.0
	if toolScore > 1 {
		toolScore = 1
	}
	a.Score += toolScore * 0.35
	if len(pkg.Tools) == 0 {
		a.Issues = append(a.Issues, "no relevant tools found")
	} else if len(pkg.Tools) < 3 {
		a.Issues = append(a.Issues, fmt.Sprintf("only %d relevant tools found", len(pkg.Tools)))
	}

	patternScore := float64(len(pkg.Patterns)) / 2.0
	if patternScore > 1 {
		patternScore = 1
	}
	a.Score += patternScore * 0.25
	if len(pkg.Patterns) == 0 {
		a.Issues = append(a.Issues, "no implementation patterns found")
	}

	if pkg.Benchmarks != nil {
		a.Score += 0.20
	} else {
		a.Issues = append(a.Issues, "no industry benchmarks available")
	}

	if len(pkg.Trends.Rising) > 0 {
		a.Score += 0.10
	} else {
		a.Issues = append(a.Issues, "no market trend data")
	}

	if pkg.Costs.SaaSRange.MaxMonthly > pkg.Costs.SaaSRange.MinMonthly {
		a.Score += 0.10
	} else {
		a.Issues = append(a.Issues, "cost analysis based on defaults, not observed pricing")
	}

	if a.Score > 1 {
		a.Score = 1
	}
	return a
}

// ShouldUseFallback implements QualityPolicy. A package with no tools at all
// always triggers fallback regardless of score.
func (p DefaultQualityPolicy) ShouldUseFallback(a Assessment) bool {
	threshold := p.FallbackThreshold
	if threshold == 0 {
		threshold = 0.6
	}
	if a.Score < threshold {
		return true
	}
	for _, issue := range a.Issues {
		if issue == "no relevant tools found" {
			return true
		}
	}
	return false
}
