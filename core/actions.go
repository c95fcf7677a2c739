package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// Rejection reasons for operator actions. Every precondition failure maps to
// a distinct sentinel so callers can tell "insufficient budget" from
// "already tracked" without string matching.
var (
	ErrAlreadyTracked      = errors.New("object is already tracked")
	ErrTrackingCapacity    = errors.New("tracking capacity exhausted")
	ErrAlreadyAlerted      = errors.New("public alert already issued")
	ErrAlreadyEvacuated    = errors.New("evacuation already ordered")
	ErrSizeBelowEvacuation = errors.New("object too small to justify evacuation")
	ErrInsufficientBudget  = errors.New("insufficient budget")
	ErrLeadTimeTooShort    = errors.New("not enough lead time for a mission")
	ErrProbabilityTooLow   = errors.New("impact probability below mission threshold")
	ErrObjectResolved      = errors.New("object outcome already resolved")
)

// Mission gating thresholds. The UI greys the launch button out under the
// same limits, but the engine re-validates because the UI is not trusted.
const (
	MinMissionLeadDays    = 30.0
	MinMissionProbability = 0.01
	// MaxMissionTravelDays bounds mission arrival after launch.
	MaxMissionTravelDays = 90.0
	// maxEffectiveness caps the lead-time term before the type multiplier.
	maxEffectiveness = 0.9
)

// ActionCosts prices the operator actions in $M.
type ActionCosts struct {
	Track          float64
	Alert          float64
	Evacuate       float64
	KineticMission float64
	GravityTractor float64
	NuclearMission float64
}

// MissionCost returns the launch price for a mission type.
func (c ActionCosts) MissionCost(t model.MissionType) float64 {
	switch t {
	case model.MissionNuclear:
		return c.NuclearMission
	case model.MissionGravityTractor:
		return c.GravityTractor
	default:
		return c.KineticMission
	}
}

// debit takes cost from the budget or rejects without a partial debit.
func debit(led *model.Ledger, cost float64) error {
	if led.BudgetM < cost {
		return fmt.Errorf("%w: need $%.0fM, have $%.0fM", ErrInsufficientBudget, cost, led.BudgetM)
	}
	led.BudgetM -= cost
	return nil
}

// ApplyTrack starts tracking an object. Tracking debits the budget, consumes
// a capacity slot, and awards a small science score.
func ApplyTrack(a *model.Asteroid, led *model.Ledger, costs ActionCosts) error {
	if a.OutcomeProcessed {
		return ErrObjectResolved
	}
	if a.Tracked {
		return ErrAlreadyTracked
	}
	if led.TrackedCount >= led.TrackingCapacity {
		return ErrTrackingCapacity
	}
	if err := debit(led, costs.Track); err != nil {
		return err
	}
	a.Tracked = true
	led.TrackedCount++
	led.ObjectsTracked++
	led.Score += 10
	return nil
}

// ApplyAlert issues a public alert. The trust consequence is deferred until
// the object's outcome resolves; a correct call and a false alarm price very
// differently.
func ApplyAlert(a *model.Asteroid, led *model.Ledger, costs ActionCosts) error {
	if a.OutcomeProcessed {
		return ErrObjectResolved
	}
	if a.Alerted {
		return ErrAlreadyAlerted
	}
	if err := debit(led, costs.Alert); err != nil {
		return err
	}
	a.Alerted = true
	return nil
}

// ApplyEvacuate orders an evacuation of the predicted impact zone. Tiny and
// small objects are excluded; moving a city for a bolide is not worth it.
func ApplyEvacuate(a *model.Asteroid, led *model.Ledger, costs ActionCosts) error {
	if a.OutcomeProcessed {
		return ErrObjectResolved
	}
	if a.Evacuated {
		return ErrAlreadyEvacuated
	}
	if a.Size < model.SizeMedium {
		return fmt.Errorf("%w: %s", ErrSizeBelowEvacuation, a.Size)
	}
	if err := debit(led, costs.Evacuate); err != nil {
		return err
	}
	a.Evacuated = true
	return nil
}

// MissionEffectiveness computes the deflection fraction for a mission
// launched with the given lead time. More lead time helps up to a 90% cap;
// nuclear buys extra margin, gravity tractors trade power for precision.
func MissionEffectiveness(leadDays float64, t model.MissionType) float64 {
	if leadDays < 0 {
		leadDays = 0
	}
	eff := leadDays / 365
	if eff > maxEffectiveness {
		eff = maxEffectiveness
	}
	switch t {
	case model.MissionNuclear:
		eff *= 1.3
	case model.MissionGravityTractor:
		eff *= 0.7
	}
	return clamp(eff, 0, 1)
}

// ApplyLaunchMission validates gating thresholds and budget, then appends a
// new mission to the object. Arrival is bounded to min(80% of the remaining
// lead time, 90 days) after launch.
func ApplyLaunchMission(a *model.Asteroid, led *model.Ledger, costs ActionCosts, t model.MissionType, now time.Time) (*model.DeflectionMission, error) {
	if a.OutcomeProcessed {
		return nil, ErrObjectResolved
	}
	leadDays := a.DaysToImpact()
	if leadDays < MinMissionLeadDays {
		return nil, fmt.Errorf("%w: %.1f days remaining", ErrLeadTimeTooShort, leadDays)
	}
	if a.ImpactProbability < MinMissionProbability {
		return nil, fmt.Errorf("%w: %.4f", ErrProbabilityTooLow, a.ImpactProbability)
	}
	cost := costs.MissionCost(t)
	if err := debit(led, cost); err != nil {
		return nil, err
	}

	travelDays := 0.8 * leadDays
	if travelDays > MaxMissionTravelDays {
		travelDays = MaxMissionTravelDays
	}
	m := &model.DeflectionMission{
		Type:          t,
		LaunchedAt:    now,
		ArrivesAt:     now.Add(time.Duration(travelDays * 24 * float64(time.Hour))),
		CostM:         cost,
		Effectiveness: MissionEffectiveness(leadDays, t),
		Status:        model.MissionLaunched,
	}
	a.Missions = append(a.Missions, m)
	return m, nil
}
