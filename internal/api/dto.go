package api

import (
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// asteroidView is the wire shape for a tracked object. It is built from a
// snapshot clone and deliberately omits the hidden ground-truth probability;
// operators only ever see the refined estimate.
type asteroidView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CatalogKey  string `json:"catalog_key,omitempty"`
	Description string `json:"description,omitempty"`

	Size        string  `json:"size"`
	DiameterM   float64 `json:"diameter_m"`
	MassKg      float64 `json:"mass_kg"`
	DensityGCm3 float64 `json:"density_g_cm3"`
	Material    string  `json:"material"`
	VelocityKmS float64 `json:"velocity_km_s"`

	HoursToImpact     float64 `json:"hours_to_impact"`
	DaysToImpact      float64 `json:"days_to_impact"`
	ImpactProbability float64 `json:"impact_probability"`
	UncertaintyKm     float64 `json:"uncertainty_km"`

	ImpactLat    float64 `json:"impact_lat"`
	ImpactLon    float64 `json:"impact_lon"`
	ZoneRadiusKm float64 `json:"zone_radius_km"`

	Detected   bool      `json:"detected"`
	DetectedAt time.Time `json:"detected_at"`
	Tracked    bool      `json:"tracked"`
	Alerted    bool      `json:"alerted"`
	Evacuated  bool      `json:"evacuated"`
	Resolved   bool      `json:"resolved"`
	Impacted   bool      `json:"impacted"`

	Missions []missionView `json:"missions,omitempty"`
}

type missionView struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	LaunchedAt    time.Time `json:"launched_at"`
	ArrivesAt     time.Time `json:"arrives_at"`
	CostMillions  float64   `json:"cost_millions"`
	Effectiveness float64   `json:"effectiveness"`
}

type ledgerView struct {
	BudgetMillions         float64 `json:"budget_millions"`
	StartingBudgetMillions float64 `json:"starting_budget_millions"`
	Trust                  float64 `json:"trust"`
	TrackingCapacity       int     `json:"tracking_capacity"`
	TrackedCount           int     `json:"tracked_count"`
	LivesSaved             int64   `json:"lives_saved"`
	LivesAtRisk            int64   `json:"lives_at_risk"`
	FalseAlarms            int     `json:"false_alarms"`
	CorrectAlerts          int     `json:"correct_alerts"`
	ObjectsTracked         int     `json:"objects_tracked"`
	SuccessfulDeflections  int     `json:"successful_deflections"`
	Score                  float64 `json:"score"`
	FinalScore             float64 `json:"final_score"`
	GameOver               bool    `json:"game_over"`
}

// stateView is the envelope pushed to WebSocket clients after each tick.
type stateView struct {
	SimTime   time.Time      `json:"sim_time"`
	Paused    bool           `json:"paused"`
	Rate      float64        `json:"rate"`
	Selection string         `json:"selection,omitempty"`
	Objects   []asteroidView `json:"objects"`
	Ledger    ledgerView     `json:"ledger"`
}

func viewOfAsteroid(a *model.Asteroid) asteroidView {
	v := asteroidView{
		ID:          a.ID,
		Name:        a.Name,
		CatalogKey:  a.CatalogKey,
		Description: a.Description,

		Size:        a.Size.String(),
		DiameterM:   a.DiameterM,
		MassKg:      a.MassKg,
		DensityGCm3: a.DensityGCm3,
		Material:    a.Material,
		VelocityKmS: a.VelocityKmS,

		HoursToImpact:     a.HoursToImpact,
		DaysToImpact:      a.DaysToImpact(),
		ImpactProbability: a.ImpactProbability,
		UncertaintyKm:     a.UncertaintyKm,

		ImpactLat:    a.ImpactLat,
		ImpactLon:    a.ImpactLon,
		ZoneRadiusKm: a.ZoneRadiusKm,

		Detected:   a.Detected,
		DetectedAt: a.DetectedAt,
		Tracked:    a.Tracked,
		Alerted:    a.Alerted,
		Evacuated:  a.Evacuated,
		Resolved:   a.OutcomeProcessed,
		Impacted:   a.Impacted,
	}
	for _, m := range a.Missions {
		v.Missions = append(v.Missions, missionView{
			ID:            m.ID,
			Type:          m.Type.String(),
			Status:        m.Status.String(),
			LaunchedAt:    m.LaunchedAt,
			ArrivesAt:     m.ArrivesAt,
			CostMillions:  m.CostM,
			Effectiveness: m.Effectiveness,
		})
	}
	return v
}

func viewOfObjects(objects []*model.Asteroid) []asteroidView {
	views := make([]asteroidView, 0, len(objects))
	for _, a := range objects {
		views = append(views, viewOfAsteroid(a))
	}
	return views
}

func viewOfLedger(l model.Ledger) ledgerView {
	return ledgerView{
		BudgetMillions:         l.BudgetM,
		StartingBudgetMillions: l.StartingBudgetM,
		Trust:                  l.Trust,
		TrackingCapacity:       l.TrackingCapacity,
		TrackedCount:           l.TrackedCount,
		LivesSaved:             l.LivesSaved,
		LivesAtRisk:            l.LivesAtRisk,
		FalseAlarms:            l.FalseAlarms,
		CorrectAlerts:          l.CorrectAlerts,
		ObjectsTracked:         l.ObjectsTracked,
		SuccessfulDeflections:  l.SuccessfulDeflections,
		Score:                  l.Score,
		FinalScore:             l.FinalScore(),
		GameOver:               l.GameOver(),
	}
}
