package model

import "time"

// SizeCategory orders near-Earth objects into four coarse tiers. The tier
// drives generation weights, detection chances, and evacuation eligibility.
type SizeCategory int

const (
	SizeTiny SizeCategory = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

// String returns the lower-case tier name used in API payloads and logs.
func (s SizeCategory) String() string {
	switch s {
	case SizeTiny:
		return "tiny"
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	}
	return "unknown"
}

// SizeCategoryFromDiameter classifies a real-catalog diameter in metres.
//
// These thresholds are intentionally different from the synthetic tier
// diameter ranges in the tuning config: catalog-sourced objects are binned by
// the survey-style cutoffs below, while synthetic objects are drawn from the
// configured per-tier ranges. The two tables coexist on purpose.
func SizeCategoryFromDiameter(diameterM float64) SizeCategory {
	switch {
	case diameterM < 5:
		return SizeTiny
	case diameterM < 20:
		return SizeSmall
	case diameterM < 140:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// Asteroid is the full per-object simulation record. It is owned by the
// simulation state; core transforms return updated copies and never retain
// pointers into it.
type Asteroid struct {
	ID   string
	Name string
	// CatalogKey links to a real-world reference entry when the object was
	// sourced from the curated catalog; empty for fully synthetic objects.
	CatalogKey string
	// Description is free text shown when the operator inspects the object.
	Description string

	// Physical attributes.
	Size          SizeCategory
	DiameterM     float64 // metres
	MassKg        float64
	DensityGCm3   float64 // bulk density, g/cm³
	Material      string  // e.g. "stony", "carbonaceous", "iron"
	VelocityKmS   float64 // approach velocity, km/s

	// Orbital / threat attributes. Hours-to-impact goes negative after the
	// object passes closest approach; the sign change is what triggers
	// outcome resolution.
	HoursToImpact        float64
	InitialHoursToImpact float64 // immutable snapshot taken at creation
	// ImpactProbability is the operator-visible estimate, refined toward
	// TrueImpactProbability while the object is tracked. Always in [0,1].
	ImpactProbability float64
	// TrueImpactProbability is the hidden ground truth fixed at creation.
	// It must never be exposed through the API surface.
	TrueImpactProbability float64
	// UncertaintyKm is the position uncertainty, non-increasing while
	// tracked, floored at 1 km.
	UncertaintyKm float64

	// Predicted impact geography.
	ImpactLat    float64
	ImpactLon    float64
	ZoneRadiusKm float64

	// Detection and operator state.
	Detected         bool
	DetectedAt       time.Time
	Tracked          bool
	Alerted          bool
	Evacuated        bool
	// OutcomeProcessed transitions false→true exactly once, when
	// HoursToImpact crosses from positive to ≤0. It never reverts.
	OutcomeProcessed bool
	// Impacted records the resolved fate; meaningful only once
	// OutcomeProcessed is true.
	Impacted bool

	Missions []*DeflectionMission
}

// DaysToImpact converts the remaining lead time to days.
func (a *Asteroid) DaysToImpact() float64 {
	return a.HoursToImpact / 24
}

// ObservedDays returns how long the object has been under observation since
// creation, in days. It is the basis for tracking-driven refinement.
func (a *Asteroid) ObservedDays() float64 {
	d := (a.InitialHoursToImpact - a.HoursToImpact) / 24
	if d < 0 {
		return 0
	}
	return d
}

// DeployedMissions returns the attached missions that have reached their
// target. Only deployed missions count toward deflection credit.
func (a *Asteroid) DeployedMissions() []*DeflectionMission {
	var out []*DeflectionMission
	for _, m := range a.Missions {
		if m.Status == MissionDeployed {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy, including the mission list. Snapshots handed to
// the API layer are clones so handlers can never mutate live state.
func (a *Asteroid) Clone() *Asteroid {
	cp := *a
	if len(a.Missions) > 0 {
		cp.Missions = make([]*DeflectionMission, len(a.Missions))
		for i, m := range a.Missions {
			mc := *m
			cp.Missions[i] = &mc
		}
	}
	return &cp
}
