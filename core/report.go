package core

import "github.com/signalsfoundry/planetary-defense-sim/model"

// Report assembly constants: world-average exposure figures used when no
// site-specific data is available.
const (
	DefaultPopulationPerKm2 = 60.0
	avgOceanDepthM          = 3682.0
	// reportBlastDistanceM is the reference radius at which blast figures
	// are quoted.
	reportBlastDistanceM = 20000.0
	reportSeismicRangeKm = 100.0
	reportCoastRangeKm   = 500.0
)

// ImpactReport bundles every derived physical and risk metric for one
// object. Reports are built on demand when an operator inspects an object;
// they are never computed per tick.
type ImpactReport struct {
	ObjectID string `json:"object_id"`

	EnergyMegatons float64 `json:"energy_megatons"`
	TorinoScale    int     `json:"torino_scale"`
	PalermoScale   float64 `json:"palermo_scale"`

	Crater  CraterResult  `json:"crater"`
	Thermal ThermalResult `json:"thermal"`
	Tsunami TsunamiResult `json:"tsunami"`

	// Blast figures at the reference radius.
	OverpressurePa   float64 `json:"overpressure_pa"`
	PeakWindMS       float64 `json:"peak_wind_m_s"`
	SeismicMagnitude float64 `json:"seismic_magnitude"`
	// SeismicAtRange is the felt magnitude at the reference seismic range.
	SeismicAtRange float64 `json:"seismic_at_range"`

	EstimatedCasualties   int64   `json:"estimated_casualties"`
	EconomicLossMillions  float64 `json:"economic_loss_millions"`
	CasualtiesIfEvacuated int64   `json:"casualties_if_evacuated"`
}

// BuildReport evaluates the full formula library against one object. The
// tsunami block assumes an ocean impact at average basin depth; coastal
// figures are quoted at a 500 km stand-off.
func BuildReport(a *model.Asteroid) ImpactReport {
	energy := ImpactEnergyMegatons(a.MassKg, a.VelocityKmS)
	crater := CraterDimensions(a.DiameterM, a.DensityGCm3, a.VelocityKmS)
	over := OverpressureAtDistance(energy, 0, reportBlastDistanceM)

	return ImpactReport{
		ObjectID:       a.ID,
		EnergyMegatons: energy,
		TorinoScale:    TorinoScale(a.ImpactProbability, energy),
		PalermoScale:   PalermoScale(a.ImpactProbability, energy, a.DaysToImpact()/365),

		Crater:  crater,
		Thermal: ThermalExposure(energy, a.VelocityKmS),
		Tsunami: RimWaveTsunami(crater.TransientDiameterM, avgOceanDepthM, reportCoastRangeKm),

		OverpressurePa:   over,
		PeakWindMS:       PeakWindSpeed(over),
		SeismicMagnitude: SeismicMagnitude(energy),
		SeismicAtRange:   SeismicMagnitudeAtDistance(energy, reportSeismicRangeKm),

		EstimatedCasualties:   CasualtyEstimate(energy, a.ZoneRadiusKm, DefaultPopulationPerKm2, false),
		CasualtiesIfEvacuated: CasualtyEstimate(energy, a.ZoneRadiusKm, DefaultPopulationPerKm2, true),
		EconomicLossMillions: EconomicLossMillions(energy, a.ZoneRadiusKm,
			CasualtyEstimate(energy, a.ZoneRadiusKm, DefaultPopulationPerKm2, false)),
	}
}
