// Package core implements the asteroid risk engine: the impact-physics
// formula library, object generation, probabilistic evolution, and operator
// action validation. Everything here is deterministic given its inputs;
// randomness is always injected by the caller.
package core

import "math"

// Physical constants shared by the formula library. All formulas are
// educational approximations: they follow the shape of published
// impact-effects scaling laws but are tuned for gameplay, not science.
const (
	// JoulesPerMegaton converts kinetic energy to megatons of TNT.
	JoulesPerMegaton = 4.184e15
	// EarthGravity is surface gravity in m/s².
	EarthGravity = 9.81
	// TargetDensityKgM3 is the assumed density of the impacted surface.
	TargetDensityKgM3 = 2500.0
	// SeaLevelPressurePa and SeaLevelSoundSpeed feed the blast-wind model.
	SeaLevelPressurePa = 101325.0
	SeaLevelSoundSpeed = 330.0
	// MaxBlastWindSpeed caps the peak wind at a physically plausible
	// ceiling; the closed-form fit diverges near ground zero.
	MaxBlastWindSpeed = 7000.0 // m/s
	// CraterCollapseDiameterM is the simple-to-complex crater transition.
	CraterCollapseDiameterM = 3200.0
	// minEnergyMT floors energy inputs to dodge the power-law singularity
	// in the background-frequency fit.
	minEnergyMT = 0.01
)

// ImpactEnergyMegatons returns the kinetic energy of an impactor in MT TNT.
// Velocity is given in km/s. Non-positive inputs yield zero.
func ImpactEnergyMegatons(massKg, velocityKmS float64) float64 {
	if massKg <= 0 || velocityKmS <= 0 {
		return 0
	}
	v := velocityKmS * 1000
	return 0.5 * massKg * v * v / JoulesPerMegaton
}

// MassFromDiameter estimates mass via a sphere-volume approximation with a
// fixed 0.9 shape-irregularity factor. Density is bulk density in g/cm³.
func MassFromDiameter(diameterM, densityGCm3 float64) float64 {
	if diameterM <= 0 || densityGCm3 <= 0 {
		return 0
	}
	r := diameterM / 2
	volume := (4.0 / 3.0) * math.Pi * r * r * r
	return 0.9 * volume * densityGCm3 * 1000
}

// BackgroundImpactFrequency approximates how often Earth is struck by an
// object of at least the given energy, in events per year. The inverse
// power law is anchored at the 1908 Tunguska airburst (~15 MT, roughly once
// every two centuries) and clamped to [1e-8, 50].
func BackgroundImpactFrequency(energyMT float64) float64 {
	if energyMT < minEnergyMT {
		energyMT = minEnergyMT
	}
	freq := 0.005 * math.Pow(energyMT/15, -0.9)
	if freq < 1e-8 {
		return 1e-8
	}
	if freq > 50 {
		return 50
	}
	return freq
}

// PalermoScale returns the log10 ratio of this object's annualized impact
// risk to the background frequency at its energy. Zero is background level;
// positive values indicate an above-background threat.
func PalermoScale(probability, energyMT, yearsToImpact float64) float64 {
	if yearsToImpact < 0.01 {
		yearsToImpact = 0.01
	}
	annualRisk := probability / yearsToImpact
	ratio := annualRisk / BackgroundImpactFrequency(energyMT)
	if ratio < 1e-12 {
		ratio = 1e-12
	}
	return math.Log10(ratio)
}

// TorinoScale maps probability and energy onto the 0–10 public
// communication scale. Each energy band has a base level plus a
// probability-scaled bonus capped within the band. Probabilities at or below
// 1e-5 are treated as negligible regardless of energy.
func TorinoScale(probability, energyMT float64) int {
	if probability <= 1e-5 || energyMT < minEnergyMT {
		return 0
	}
	switch {
	case energyMT < 1:
		// Local airburst band: routine discovery territory.
		if probability >= 0.5 {
			return 2
		}
		return 1
	case energyMT < 1000:
		// Regional devastation band.
		bonus := int(probability * 10)
		if level := 3 + bonus; level < 7 {
			return level
		}
		return 7
	default:
		// Global band: ≥1000 MT.
		if probability >= 0.99 {
			return 10
		}
		bonus := int(probability * 20)
		if level := 5 + bonus; level < 9 {
			return level
		}
		return 9
	}
}

// CraterResult describes crater dimensions in metres.
type CraterResult struct {
	TransientDiameterM float64
	FinalDiameterM     float64
	DepthM             float64
	// Complex reports whether the crater is past the collapse transition.
	Complex bool
}

// CraterDimensions applies pi-group crater scaling for an impact at 45°.
// Impactor density is bulk density in g/cm³; velocity in km/s. Transient
// craters wider than 3.2 km collapse into shallower complex structures.
func CraterDimensions(diameterM, densityGCm3, velocityKmS float64) CraterResult {
	if diameterM <= 0 || densityGCm3 <= 0 || velocityKmS <= 0 {
		return CraterResult{}
	}
	rhoI := densityGCm3 * 1000
	v := velocityKmS * 1000
	sinTheta := math.Sin(math.Pi / 4)

	transient := 1.161 *
		math.Cbrt(rhoI/TargetDensityKgM3) *
		math.Pow(diameterM, 0.78) *
		math.Pow(v, 0.44) *
		math.Pow(EarthGravity, -0.22) *
		math.Cbrt(sinTheta)

	res := CraterResult{TransientDiameterM: transient}
	if simple := 1.25 * transient; simple < CraterCollapseDiameterM {
		res.FinalDiameterM = simple
		res.DepthM = transient / 2.828
	} else {
		res.Complex = true
		res.FinalDiameterM = 1.17 * math.Pow(transient, 1.13) /
			math.Pow(CraterCollapseDiameterM, 0.13)
		// Complex craters are far shallower relative to their diameter.
		res.DepthM = 37 * math.Pow(res.FinalDiameterM, 0.3)
	}
	return res
}

// OverpressureAtDistance returns peak blast overpressure in Pascals at a
// ground distance from the burst point. Below the Mach-transition altitude
// the reflected shock merges into a Mach stem and the merged-wave fit
// applies; above it only the weaker free-air fit is valid.
func OverpressureAtDistance(energyMT, burstAltitudeM, distanceM float64) float64 {
	if energyMT < minEnergyMT {
		energyMT = minEnergyMT
	}
	if distanceM < 1 {
		distanceM = 1
	}
	energyKT := energyMT * 1000
	scale := math.Cbrt(energyKT)
	// Scaled slant range at 1 kt equivalence.
	slant := math.Hypot(distanceM, burstAltitudeM)
	r1 := slant / scale

	if burstAltitudeM < machTransitionAltitude(energyKT) {
		// Mach region: merged-wave fit anchored at 75 kPa at 290 m/kt^(1/3).
		const pX, rX = 75000.0, 290.0
		return pX * (rX / r1) * (1 + 3*math.Pow(rX/r1, 1.3))
	}
	// High airburst: free-air decay only.
	return 3.14e11*math.Pow(r1, -3) + 1.8e7*math.Pow(r1, -1)
}

// machTransitionAltitude is the burst altitude (m) below which a Mach stem
// forms for the given yield in kilotons.
func machTransitionAltitude(energyKT float64) float64 {
	return 550 * math.Cbrt(energyKT)
}

// PeakWindSpeed converts peak overpressure to the peak wind behind the shock
// front, capped at a physical ceiling of ~7 km/s.
func PeakWindSpeed(overpressurePa float64) float64 {
	if overpressurePa <= 0 {
		return 0
	}
	p := overpressurePa / SeaLevelPressurePa
	u := (5 * p / 7) * SeaLevelSoundSpeed / math.Sqrt(1+6*p/7)
	if u > MaxBlastWindSpeed {
		return MaxBlastWindSpeed
	}
	return u
}

// ThermalResult describes the fireball in metres and seconds.
type ThermalResult struct {
	FireballRadiusM float64
	DurationS       float64
}

// ThermalExposure estimates fireball size and irradiation time. Velocity is
// the impact velocity in km/s; faster entries burn hotter but shorter.
func ThermalExposure(energyMT, velocityKmS float64) ThermalResult {
	if energyMT < minEnergyMT {
		energyMT = minEnergyMT
	}
	if velocityKmS < 11 {
		velocityKmS = 11
	}
	energyJ := energyMT * JoulesPerMegaton
	radius := 0.002 * math.Cbrt(energyJ)
	return ThermalResult{
		FireballRadiusM: radius,
		DurationS:       radius / (velocityKmS * 1000 / 2),
	}
}

// SeismicMagnitude converts impact energy to an equivalent earthquake
// magnitude via the Gutenberg-Richter energy relation.
func SeismicMagnitude(energyMT float64) float64 {
	if energyMT < minEnergyMT {
		energyMT = minEnergyMT
	}
	return 0.67*math.Log10(energyMT*JoulesPerMegaton) - 5.87
}

// SeismicMagnitudeAtDistance attenuates the source magnitude with distance
// using three empirical range bands. Results are floored at zero.
func SeismicMagnitudeAtDistance(energyMT, distanceKm float64) float64 {
	if distanceKm < 0 {
		distanceKm = 0
	}
	m := SeismicMagnitude(energyMT)
	var eff float64
	switch {
	case distanceKm < 60:
		eff = m - 0.0238*distanceKm
	case distanceKm < 700:
		eff = m - 0.0048*distanceKm - 1.1644
	default:
		eff = m - 1.66*math.Log10(distanceKm/111.19) - 6.399
	}
	if eff < 0 {
		return 0
	}
	return eff
}

// TsunamiResult describes the rim wave reaching a coastline.
type TsunamiResult struct {
	AmplitudeM     float64
	ArrivalMinutes float64
}

// RimWaveTsunami estimates the collapse-rim wave from an ocean impact. The
// wave amplitude is capped by the water depth at the impact site and decays
// linearly with distance from the transient cavity.
func RimWaveTsunami(transientCraterM, oceanDepthM, distanceKm float64) TsunamiResult {
	if transientCraterM <= 0 || oceanDepthM <= 0 {
		return TsunamiResult{}
	}
	rim := transientCraterM / 2
	distanceM := distanceKm * 1000
	if distanceM < rim {
		distanceM = rim
	}
	amplitude := transientCraterM / 14.1
	if amplitude > oceanDepthM {
		amplitude = oceanDepthM
	}
	amplitude *= rim / distanceM

	// Shallow-water wave speed over the average basin depth.
	speed := math.Sqrt(EarthGravity * oceanDepthM)
	return TsunamiResult{
		AmplitudeM:     amplitude,
		ArrivalMinutes: distanceM / speed / 60,
	}
}

// CasualtyEstimate projects lives at risk inside the impact zone. Evacuation
// removes most, not all, of the exposed population.
func CasualtyEstimate(energyMT, zoneRadiusKm, populationPerKm2 float64, evacuated bool) int64 {
	if energyMT < minEnergyMT || zoneRadiusKm <= 0 || populationPerKm2 <= 0 {
		return 0
	}
	area := math.Pi * zoneRadiusKm * zoneRadiusKm
	mortality := 0.05 + 0.18*math.Log10(1+energyMT)
	if mortality > 0.95 {
		mortality = 0.95
	}
	exposed := area * populationPerKm2 * mortality
	if evacuated {
		exposed *= 0.12
	}
	return int64(exposed)
}

// EconomicLossMillions projects direct losses in $M from casualties and
// destroyed infrastructure across the impact zone.
func EconomicLossMillions(energyMT, zoneRadiusKm float64, casualties int64) float64 {
	if energyMT < minEnergyMT || zoneRadiusKm <= 0 {
		return 0
	}
	area := math.Pi * zoneRadiusKm * zoneRadiusKm
	severity := math.Min(1, energyMT/100)
	return float64(casualties)*2 + area*0.5*severity
}
