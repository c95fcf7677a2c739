package core

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// TierParams tunes generation for one size tier.
type TierParams struct {
	Weight                float64
	MinDiameterM          float64
	MaxDiameterM          float64
	BaseDetectionChance   float64
	BaseImpactProbability float64
	ZoneRadiusKm          float64
}

// GeneratorParams collects every tuning knob the generator needs. It is a
// plain value so tests can construct it directly.
type GeneratorParams struct {
	Tiers map[model.SizeCategory]TierParams
	// RealObjectChance is the probability of sourcing attributes from a
	// catalog instead of synthesizing them.
	RealObjectChance float64
	MinLeadHours     float64
	MaxLeadHours     float64
}

// Origin records which path produced an object's physical attributes.
type Origin int

const (
	// OriginSynthetic means fully synthesized attributes.
	OriginSynthetic Origin = iota
	// OriginCatalog means attributes came from a catalog record.
	OriginCatalog
	// OriginFeedFallback means the external feed failed and the built-in
	// reference table was used instead. Callers log this at warning level.
	OriginFeedFallback
)

func (o Origin) String() string {
	switch o {
	case OriginSynthetic:
		return "synthetic"
	case OriginCatalog:
		return "catalog"
	case OriginFeedFallback:
		return "feed-fallback"
	}
	return "unknown"
}

// feedAttempts bounds how many times a spawn retries the external source
// before giving up on it.
const feedAttempts = 2

// Generator produces new simulated near-Earth objects. It never fails: any
// catalog or feed problem silently degrades to synthetic generation.
type Generator struct {
	params GeneratorParams
	rng    *rand.Rand
	// source is the optional external feed; nil means curated-table only.
	source    CatalogSource
	reference []CandidateRecord
}

// NewGenerator wires a generator with an injected random source. A nil
// CatalogSource limits real-object sampling to the built-in reference table.
func NewGenerator(params GeneratorParams, rng *rand.Rand, source CatalogSource) *Generator {
	return &Generator{
		params:    params,
		rng:       rng,
		source:    source,
		reference: ReferenceCatalog(),
	}
}

// Generate returns a fully populated object for the given simulation time.
// The caller assigns the unique ID. The returned Origin tells the caller
// which attribute path was taken so fallbacks can be logged.
func (g *Generator) Generate(ctx context.Context, now time.Time) (*model.Asteroid, Origin) {
	tier := g.drawTier()
	origin := OriginSynthetic

	a := &model.Asteroid{Size: tier}

	if g.rng.Float64() < g.params.RealObjectChance {
		rec, o := g.pickCandidate(ctx)
		if rec != nil {
			origin = o
			a.CatalogKey = rec.Key
			a.Name = rec.Name
			a.Description = rec.Description
			a.DiameterM = rec.DiameterM
			a.DensityGCm3 = rec.DensityGCm3
			if a.DensityGCm3 <= 0 {
				a.DensityGCm3 = 2.0
			}
			a.MassKg = rec.MassKg
			if a.MassKg <= 0 {
				a.MassKg = MassFromDiameter(a.DiameterM, a.DensityGCm3)
			}
			a.Material = rec.Material
			// Catalog objects are classified by the survey thresholds, not
			// by the synthetic tier ranges.
			a.Size = model.SizeCategoryFromDiameter(a.DiameterM)
			tier = a.Size
		}
	}

	if a.DiameterM == 0 {
		g.synthesize(a, tier)
	}

	p := g.params.Tiers[tier]

	a.VelocityKmS = 11 + g.rng.Float64()*(70-11)

	leadHours := g.params.MinLeadHours + g.rng.Float64()*(g.params.MaxLeadHours-g.params.MinLeadHours)
	a.HoursToImpact = leadHours
	a.InitialHoursToImpact = leadHours
	leadDays := leadHours / 24
	if leadDays < 0.25 {
		leadDays = 0.25
	}

	// Short lead times mean the object is close and bright: detection
	// chance scales with the inverse of lead time on top of the tier base.
	detectChance := clamp(p.BaseDetectionChance*(0.5+7/leadDays), 0.02, 0.99)
	if g.rng.Float64() < detectChance {
		a.Detected = true
		a.DetectedAt = now
	}

	// Hidden ground truth: multiplicative sway around the tier base rate.
	// The displayed prior is drawn independently so tracking has something
	// to correct.
	a.TrueImpactProbability = clamp(p.BaseImpactProbability*(0.25+1.5*g.rng.Float64()), 0.001, 0.95)
	a.ImpactProbability = clamp(p.BaseImpactProbability*(0.5+g.rng.Float64()), 0.001, 0.95)

	a.ZoneRadiusKm = p.ZoneRadiusKm
	a.UncertaintyKm = math.Max(50, p.ZoneRadiusKm*10/math.Sqrt(leadDays))

	a.ImpactLat, a.ImpactLon = ImpactPoint(now, g.rng)

	if a.Name == "" {
		a.Name = g.provisionalName(now)
	}
	return a, origin
}

// drawTier performs the weighted tier draw.
func (g *Generator) drawTier() model.SizeCategory {
	order := []model.SizeCategory{model.SizeTiny, model.SizeSmall, model.SizeMedium, model.SizeLarge}
	var total float64
	for _, t := range order {
		total += g.params.Tiers[t].Weight
	}
	if total <= 0 {
		return model.SizeMedium
	}
	roll := g.rng.Float64() * total
	for _, t := range order {
		roll -= g.params.Tiers[t].Weight
		if roll < 0 {
			return t
		}
	}
	return model.SizeLarge
}

// pickCandidate consults the external feed when configured, retrying a
// bounded number of times before degrading to the built-in table.
func (g *Generator) pickCandidate(ctx context.Context) (*CandidateRecord, Origin) {
	if g.source != nil {
		for attempt := 0; attempt < feedAttempts; attempt++ {
			records, err := g.source.Candidates(ctx)
			if err == nil && len(records) > 0 {
				rec := records[g.rng.Intn(len(records))]
				return &rec, OriginCatalog
			}
		}
		if len(g.reference) > 0 {
			rec := g.reference[g.rng.Intn(len(g.reference))]
			return &rec, OriginFeedFallback
		}
		return nil, OriginSynthetic
	}
	if len(g.reference) == 0 {
		return nil, OriginSynthetic
	}
	rec := g.reference[g.rng.Intn(len(g.reference))]
	return &rec, OriginCatalog
}

// synthesize fills physical attributes from the tier's configured ranges.
func (g *Generator) synthesize(a *model.Asteroid, tier model.SizeCategory) {
	p := g.params.Tiers[tier]
	a.DiameterM = p.MinDiameterM + g.rng.Float64()*(p.MaxDiameterM-p.MinDiameterM)

	switch roll := g.rng.Float64(); {
	case roll < 0.6:
		a.Material = "stony"
		a.DensityGCm3 = 2.7
	case roll < 0.9:
		a.Material = "carbonaceous"
		a.DensityGCm3 = 1.4
	default:
		a.Material = "iron"
		a.DensityGCm3 = 5.3
	}
	a.MassKg = MassFromDiameter(a.DiameterM, a.DensityGCm3)
}

// provisionalName mimics survey provisional designations: year, half-month
// letter, and a serial.
func (g *Generator) provisionalName(now time.Time) string {
	letters := "ABCDEFGHJKLMNOPQRSTUVWXY"
	first := letters[g.rng.Intn(len(letters))]
	second := letters[g.rng.Intn(len(letters))]
	return fmt.Sprintf("%d %c%c%d", now.Year(), first, second, 1+g.rng.Intn(400))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
