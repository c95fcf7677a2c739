package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

func evolveFixture() *model.Asteroid {
	return &model.Asteroid{
		HoursToImpact:         90 * 24,
		InitialHoursToImpact:  90 * 24,
		ImpactProbability:     0.10,
		TrueImpactProbability: 0.60,
		UncertaintyKm:         500,
	}
}

func TestEvolve_DoesNotMutateInput(t *testing.T) {
	a := evolveFixture()
	_ = Evolve(a, 24, true)
	if a.HoursToImpact != 90*24 || a.ImpactProbability != 0.10 || a.UncertaintyKm != 500 {
		t.Fatalf("Evolve must not mutate its input, got %+v", a)
	}
}

func TestEvolve_UntrackedOnlyAdvancesClock(t *testing.T) {
	a := evolveFixture()
	out := Evolve(a, 24, false)
	if out.HoursToImpact != 89*24 {
		t.Fatalf("HoursToImpact = %v, want %v", out.HoursToImpact, 89*24)
	}
	if out.ImpactProbability != a.ImpactProbability {
		t.Errorf("untracked object must not refine its estimate")
	}
	if out.UncertaintyKm != a.UncertaintyKm {
		t.Errorf("untracked object must not shrink its uncertainty")
	}
}

func TestEvolve_TrackedConvergesTowardTruth(t *testing.T) {
	a := evolveFixture()
	prevGap := math.Abs(a.ImpactProbability - a.TrueImpactProbability)
	prevUncertainty := a.UncertaintyKm

	for day := 0; day < 60; day++ {
		a = Evolve(a, 24, true)
		gap := math.Abs(a.ImpactProbability - a.TrueImpactProbability)
		if gap > prevGap+1e-12 {
			t.Fatalf("day %d: estimate diverged, gap %v > %v", day, gap, prevGap)
		}
		if a.UncertaintyKm > prevUncertainty+1e-12 {
			t.Fatalf("day %d: uncertainty grew, %v > %v", day, a.UncertaintyKm, prevUncertainty)
		}
		prevGap, prevUncertainty = gap, a.UncertaintyKm
	}

	// After 60 tracked days the estimate should be close to the truth.
	if prevGap > 0.01 {
		t.Fatalf("estimate should converge within 60 days, gap still %v", prevGap)
	}
}

func TestEvolve_UncertaintyFlooredAtMinimum(t *testing.T) {
	a := evolveFixture()
	a.UncertaintyKm = 1.2
	for day := 0; day < 30; day++ {
		a = Evolve(a, 24, true)
	}
	if a.UncertaintyKm < MinUncertaintyKm {
		t.Fatalf("uncertainty %v dropped below the %v km floor", a.UncertaintyKm, MinUncertaintyKm)
	}
}

func TestEvolve_TimeToImpactGoesNegative(t *testing.T) {
	a := evolveFixture()
	a.HoursToImpact = 10

	out := Evolve(a, 24, true)
	if out.HoursToImpact != -14 {
		t.Fatalf("HoursToImpact = %v, want -14 (the sign crossing triggers resolution)", out.HoursToImpact)
	}
	// Past closest approach, no further refinement happens.
	if out.ImpactProbability != a.ImpactProbability {
		t.Errorf("estimate must freeze once time-to-impact reaches zero")
	}
}
