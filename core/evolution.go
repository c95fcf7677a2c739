package core

import (
	"math"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// Evolution tuning. Refinement speed and uncertainty shrink both grow with
// the square root of accumulated observation time.
const (
	refinementRate        = 0.05
	uncertaintyShrinkRate = 0.1
	// MinUncertaintyKm is the hard floor on position uncertainty.
	MinUncertaintyKm = 1.0
)

// Evolve advances one object by deltaHours and returns the updated copy. It
// only touches the clock, probability estimate, and uncertainty; detection,
// alert, evacuation, and mission state belong to the action layer.
//
// Time-to-impact is deliberately not clamped at zero: the sign change is the
// engine's trigger for outcome resolution.
func Evolve(a *model.Asteroid, deltaHours float64, tracked bool) *model.Asteroid {
	out := a.Clone()
	out.HoursToImpact -= deltaHours

	if !tracked || out.HoursToImpact <= 0 {
		return out
	}

	// Accumulated observation time drives both refinements.
	observedDays := out.ObservedDays()
	improvement := math.Sqrt(observedDays)

	out.UncertaintyKm /= 1 + improvement*uncertaintyShrinkRate
	if out.UncertaintyKm < MinUncertaintyKm {
		out.UncertaintyKm = MinUncertaintyKm
	}

	// Linear interpolation toward the hidden truth. The rate never exceeds
	// 1, so the estimate converges without overshooting.
	rate := refinementRate * improvement
	if rate > 1 {
		rate = 1
	}
	out.ImpactProbability += (out.TrueImpactProbability - out.ImpactProbability) * rate
	out.ImpactProbability = clamp(out.ImpactProbability, 0, 1)

	return out
}
