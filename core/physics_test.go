package core

import (
	"math"
	"testing"
)

func TestImpactEnergyMegatons_KnownValue(t *testing.T) {
	// 1e10 kg at 20 km/s: 0.5 * 1e10 * (2e4)^2 = 2e18 J ≈ 478 MT.
	got := ImpactEnergyMegatons(1e10, 20)
	want := 2e18 / JoulesPerMegaton
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("ImpactEnergyMegatons = %v, want %v", got, want)
	}
}

func TestImpactEnergyMegatons_GuardsNonPositiveInputs(t *testing.T) {
	if got := ImpactEnergyMegatons(0, 20); got != 0 {
		t.Errorf("zero mass should give zero energy, got %v", got)
	}
	if got := ImpactEnergyMegatons(1e10, -1); got != 0 {
		t.Errorf("negative velocity should give zero energy, got %v", got)
	}
}

func TestMassFromDiameter_SphereWithShapeFactor(t *testing.T) {
	// 100 m stony body: 0.9 * (4/3)π·50³ · 2.7 g/cm³ · 1000.
	got := MassFromDiameter(100, 2.7)
	want := 0.9 * (4.0 / 3.0) * math.Pi * 50 * 50 * 50 * 2.7 * 1000
	if math.Abs(got-want)/want > 1e-12 {
		t.Fatalf("MassFromDiameter = %v, want %v", got, want)
	}

	if MassFromDiameter(0, 2.7) != 0 || MassFromDiameter(100, 0) != 0 {
		t.Errorf("non-physical inputs should yield zero mass")
	}
}

func TestBackgroundImpactFrequency_TunguskaAnchor(t *testing.T) {
	// The power law is anchored at 15 MT.
	if got := BackgroundImpactFrequency(15); math.Abs(got-0.005) > 1e-12 {
		t.Fatalf("frequency at 15 MT = %v, want 0.005", got)
	}
	// Bigger impacts are rarer.
	if BackgroundImpactFrequency(1500) >= BackgroundImpactFrequency(15) {
		t.Errorf("frequency should decrease with energy")
	}
	// Tiny energies are floored, not divergent.
	if got := BackgroundImpactFrequency(0); got > 50 {
		t.Errorf("frequency at floored energy = %v, want <= 50", got)
	}
}

func TestPalermoScale_ZeroAtBackground(t *testing.T) {
	// Annual risk equal to the background frequency gives exactly zero.
	got := PalermoScale(0.005, 15, 1)
	if math.Abs(got) > 1e-9 {
		t.Fatalf("Palermo at background risk = %v, want 0", got)
	}
	// Ten times the background risk is +1.
	if got := PalermoScale(0.05, 15, 1); math.Abs(got-1) > 1e-9 {
		t.Fatalf("Palermo at 10x background = %v, want 1", got)
	}
}

func TestTorinoScale_NegligibleProbabilityIsZero(t *testing.T) {
	// At or below the 1e-5 floor the scale reads zero regardless of energy.
	if got := TorinoScale(1e-5, 500); got != 0 {
		t.Fatalf("TorinoScale(1e-5, 500) = %d, want 0", got)
	}
	if got := TorinoScale(1e-6, 1e6); got != 0 {
		t.Fatalf("TorinoScale(1e-6, 1e6) = %d, want 0", got)
	}
}

func TestTorinoScale_Bands(t *testing.T) {
	tests := []struct {
		name   string
		prob   float64
		energy float64
		want   int
	}{
		{"local band low probability", 0.05, 0.5, 1},
		{"local band likely", 0.6, 0.5, 2},
		{"regional band base", 0.02, 100, 3},
		{"regional band elevated", 0.45, 100, 7},
		{"regional band capped", 0.95, 999, 7},
		{"global band low", 0.01, 1500, 5},
		{"global band mid", 0.1, 2000, 7},
		{"global band capped", 0.9, 2000, 9},
		{"global band certain", 0.995, 2000, 10},
	}
	for _, tc := range tests {
		if got := TorinoScale(tc.prob, tc.energy); got != tc.want {
			t.Errorf("%s: TorinoScale(%v, %v) = %d, want %d", tc.name, tc.prob, tc.energy, got, tc.want)
		}
	}
}

func TestCraterDimensions_SimpleVsComplex(t *testing.T) {
	// A 10 m stony impactor leaves a small simple crater.
	small := CraterDimensions(10, 2.7, 20)
	if small.Complex {
		t.Errorf("10 m impactor should form a simple crater")
	}
	if small.FinalDiameterM <= small.TransientDiameterM {
		t.Errorf("simple final diameter %v should exceed transient %v",
			small.FinalDiameterM, small.TransientDiameterM)
	}

	// A 1 km impactor is far past the collapse transition.
	big := CraterDimensions(1000, 2.7, 20)
	if !big.Complex {
		t.Errorf("1 km impactor should form a complex crater")
	}
	if big.FinalDiameterM <= CraterCollapseDiameterM {
		t.Errorf("complex crater diameter %v should exceed the transition diameter", big.FinalDiameterM)
	}

	if got := CraterDimensions(0, 2.7, 20); got != (CraterResult{}) {
		t.Errorf("zero diameter should give an empty result")
	}
}

func TestOverpressureAtDistance_DecaysWithDistance(t *testing.T) {
	near := OverpressureAtDistance(10, 0, 1000)
	far := OverpressureAtDistance(10, 0, 50000)
	if near <= far {
		t.Fatalf("overpressure should decay with distance: near %v, far %v", near, far)
	}
	// A high airburst only gets the weaker free-air wave.
	surface := OverpressureAtDistance(10, 0, 20000)
	high := OverpressureAtDistance(10, 50000, 20000)
	if high >= surface {
		t.Errorf("high airburst %v should be weaker than surface burst %v at the same range", high, surface)
	}
}

func TestPeakWindSpeed_CappedAtCeiling(t *testing.T) {
	if got := PeakWindSpeed(0); got != 0 {
		t.Errorf("zero overpressure should give zero wind, got %v", got)
	}
	if got := PeakWindSpeed(1e12); got != MaxBlastWindSpeed {
		t.Errorf("extreme overpressure should cap at %v, got %v", MaxBlastWindSpeed, got)
	}
	if lo, hi := PeakWindSpeed(10000), PeakWindSpeed(100000); lo >= hi {
		t.Errorf("wind should grow with overpressure: %v vs %v", lo, hi)
	}
}

func TestThermalExposure_ScalesWithEnergy(t *testing.T) {
	small := ThermalExposure(1, 20)
	large := ThermalExposure(1000, 20)
	if small.FireballRadiusM <= 0 || small.DurationS <= 0 {
		t.Fatalf("thermal result should be positive, got %+v", small)
	}
	if large.FireballRadiusM <= small.FireballRadiusM {
		t.Errorf("fireball should grow with energy")
	}
	// Faster entries irradiate for less time.
	slow := ThermalExposure(100, 12)
	fast := ThermalExposure(100, 60)
	if fast.DurationS >= slow.DurationS {
		t.Errorf("faster entry should burn shorter: fast %v, slow %v", fast.DurationS, slow.DurationS)
	}
}

func TestSeismicMagnitudeAtDistance_AttenuatesAndFloors(t *testing.T) {
	src := SeismicMagnitude(100)
	if got := SeismicMagnitudeAtDistance(100, 0); math.Abs(got-src) > 1e-9 {
		t.Fatalf("magnitude at zero distance = %v, want source %v", got, src)
	}
	if near, far := SeismicMagnitudeAtDistance(100, 50), SeismicMagnitudeAtDistance(100, 500); near <= far {
		t.Errorf("magnitude should attenuate with distance: %v vs %v", near, far)
	}
	// Small events at continental range drop below zero and are floored.
	if got := SeismicMagnitudeAtDistance(0.02, 5000); got != 0 {
		t.Errorf("attenuated magnitude should floor at 0, got %v", got)
	}
}

func TestRimWaveTsunami_AmplitudeCappedByDepth(t *testing.T) {
	// A huge transient cavity in shallow water: amplitude caps at the depth.
	res := RimWaveTsunami(100000, 200, 100)
	if res.AmplitudeM > 200 {
		t.Fatalf("amplitude %v should not exceed water depth", res.AmplitudeM)
	}
	if res.ArrivalMinutes <= 0 {
		t.Errorf("arrival time should be positive, got %v", res.ArrivalMinutes)
	}
	if near, far := RimWaveTsunami(10000, 3682, 100), RimWaveTsunami(10000, 3682, 1000); near.AmplitudeM <= far.AmplitudeM {
		t.Errorf("wave should decay with distance: %v vs %v", near.AmplitudeM, far.AmplitudeM)
	}
	if got := RimWaveTsunami(0, 3682, 100); got != (TsunamiResult{}) {
		t.Errorf("no cavity should mean no wave")
	}
}

func TestCasualtyEstimate_EvacuationReducesExposure(t *testing.T) {
	base := CasualtyEstimate(100, 150, 60, false)
	evac := CasualtyEstimate(100, 150, 60, true)
	if base <= 0 {
		t.Fatalf("expected positive casualties, got %d", base)
	}
	if evac >= base {
		t.Fatalf("evacuation should reduce casualties: %d vs %d", evac, base)
	}
	if got := CasualtyEstimate(100, 0, 60, false); got != 0 {
		t.Errorf("zero zone radius should give zero casualties, got %d", got)
	}
}

func TestEconomicLossMillions_GrowsWithCasualties(t *testing.T) {
	lo := EconomicLossMillions(100, 150, 1000)
	hi := EconomicLossMillions(100, 150, 100000)
	if lo <= 0 || hi <= lo {
		t.Fatalf("loss should be positive and grow with casualties: %v vs %v", lo, hi)
	}
	if got := EconomicLossMillions(100, 0, 1000); got != 0 {
		t.Errorf("zero zone radius should give zero loss, got %v", got)
	}
}
