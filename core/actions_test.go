package core

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

func testCosts() ActionCosts {
	return ActionCosts{
		Track:          100,
		Alert:          250,
		Evacuate:       2000,
		KineticMission: 1500,
		GravityTractor: 3000,
		NuclearMission: 8000,
	}
}

func testLedger() model.Ledger {
	return model.Ledger{
		BudgetM:          10000,
		StartingBudgetM:  10000,
		Trust:            100,
		TrackingCapacity: 5,
	}
}

func missionFixture() *model.Asteroid {
	return &model.Asteroid{
		Size:              model.SizeLarge,
		HoursToImpact:     180 * 24,
		ImpactProbability: 0.3,
	}
}

func TestApplyTrack_DebitsAndAwardsScience(t *testing.T) {
	a := &model.Asteroid{}
	led := testLedger()

	if err := ApplyTrack(a, &led, testCosts()); err != nil {
		t.Fatalf("ApplyTrack: %v", err)
	}
	if !a.Tracked {
		t.Errorf("object should be tracked")
	}
	if led.BudgetM != 9900 {
		t.Errorf("budget = %v, want 9900", led.BudgetM)
	}
	if led.TrackedCount != 1 || led.ObjectsTracked != 1 {
		t.Errorf("tracking counters = %d/%d, want 1/1", led.TrackedCount, led.ObjectsTracked)
	}
	if led.Score != 10 {
		t.Errorf("score = %v, want 10", led.Score)
	}

	if err := ApplyTrack(a, &led, testCosts()); !errors.Is(err, ErrAlreadyTracked) {
		t.Fatalf("second track = %v, want ErrAlreadyTracked", err)
	}
}

func TestApplyTrack_CapacityExhausted(t *testing.T) {
	led := testLedger()
	led.TrackedCount = led.TrackingCapacity

	if err := ApplyTrack(&model.Asteroid{}, &led, testCosts()); !errors.Is(err, ErrTrackingCapacity) {
		t.Fatalf("track at capacity = %v, want ErrTrackingCapacity", err)
	}
}

func TestApplyTrack_ResolvedObjectRejected(t *testing.T) {
	a := &model.Asteroid{OutcomeProcessed: true}
	led := testLedger()
	if err := ApplyTrack(a, &led, testCosts()); !errors.Is(err, ErrObjectResolved) {
		t.Fatalf("track on resolved object = %v, want ErrObjectResolved", err)
	}
}

func TestDebit_NoPartialDebitOnRejection(t *testing.T) {
	led := testLedger()
	led.BudgetM = 50

	err := ApplyTrack(&model.Asteroid{}, &led, testCosts())
	if !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("track without budget = %v, want ErrInsufficientBudget", err)
	}
	if led.BudgetM != 50 {
		t.Errorf("budget = %v, want untouched 50", led.BudgetM)
	}
	if led.TrackedCount != 0 {
		t.Errorf("rejected track must not consume a capacity slot")
	}
}

func TestApplyAlert_TrustConsequenceDeferred(t *testing.T) {
	a := &model.Asteroid{}
	led := testLedger()

	if err := ApplyAlert(a, &led, testCosts()); err != nil {
		t.Fatalf("ApplyAlert: %v", err)
	}
	if !a.Alerted {
		t.Errorf("object should be alerted")
	}
	// Whether the alert was right is only known at resolution.
	if led.Trust != 100 {
		t.Errorf("trust = %v, want unchanged 100 until the outcome resolves", led.Trust)
	}
	if led.BudgetM != 9750 {
		t.Errorf("budget = %v, want 9750", led.BudgetM)
	}

	if err := ApplyAlert(a, &led, testCosts()); !errors.Is(err, ErrAlreadyAlerted) {
		t.Fatalf("second alert = %v, want ErrAlreadyAlerted", err)
	}
}

func TestApplyEvacuate_SmallObjectsRejected(t *testing.T) {
	led := testLedger()
	for _, size := range []model.SizeCategory{model.SizeTiny, model.SizeSmall} {
		a := &model.Asteroid{Size: size}
		if err := ApplyEvacuate(a, &led, testCosts()); !errors.Is(err, ErrSizeBelowEvacuation) {
			t.Fatalf("evacuate %s = %v, want ErrSizeBelowEvacuation", size, err)
		}
	}

	a := &model.Asteroid{Size: model.SizeMedium}
	if err := ApplyEvacuate(a, &led, testCosts()); err != nil {
		t.Fatalf("evacuate medium: %v", err)
	}
	if !a.Evacuated {
		t.Errorf("object should be evacuated")
	}
	if err := ApplyEvacuate(a, &led, testCosts()); !errors.Is(err, ErrAlreadyEvacuated) {
		t.Fatalf("second evacuation = %v, want ErrAlreadyEvacuated", err)
	}
}

func TestMissionEffectiveness_LeadTimeCapAndTypeMultipliers(t *testing.T) {
	// A decade of lead time hits the 0.9 cap before the type multiplier.
	if got := MissionEffectiveness(3650, model.MissionKinetic); got != 0.9 {
		t.Fatalf("kinetic at 10y lead = %v, want 0.9", got)
	}
	// Nuclear exceeds 1.0 at the cap and is clamped.
	if got := MissionEffectiveness(3650, model.MissionNuclear); got != 1.0 {
		t.Fatalf("nuclear at 10y lead = %v, want clamped 1.0", got)
	}
	if got := MissionEffectiveness(3650, model.MissionGravityTractor); math.Abs(got-0.63) > 1e-12 {
		t.Fatalf("gravity tractor at 10y lead = %v, want 0.63", got)
	}
	// One year of lead time gives the raw ratio.
	if got := MissionEffectiveness(182.5, model.MissionKinetic); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("kinetic at half-year lead = %v, want 0.5", got)
	}
	if got := MissionEffectiveness(-5, model.MissionKinetic); got != 0 {
		t.Fatalf("negative lead = %v, want 0", got)
	}
}

func TestApplyLaunchMission_GatingThresholds(t *testing.T) {
	led := testLedger()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	short := missionFixture()
	short.HoursToImpact = 20 * 24
	if _, err := ApplyLaunchMission(short, &led, testCosts(), model.MissionKinetic, now); !errors.Is(err, ErrLeadTimeTooShort) {
		t.Fatalf("launch at 20 days = %v, want ErrLeadTimeTooShort", err)
	}

	unlikely := missionFixture()
	unlikely.ImpactProbability = 0.001
	if _, err := ApplyLaunchMission(unlikely, &led, testCosts(), model.MissionKinetic, now); !errors.Is(err, ErrProbabilityTooLow) {
		t.Fatalf("launch at 0.1%% probability = %v, want ErrProbabilityTooLow", err)
	}

	broke := missionFixture()
	led.BudgetM = 1000
	if _, err := ApplyLaunchMission(broke, &led, testCosts(), model.MissionKinetic, now); !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("launch without budget = %v, want ErrInsufficientBudget", err)
	}
	if led.BudgetM != 1000 {
		t.Errorf("budget = %v, want untouched 1000", led.BudgetM)
	}
}

func TestApplyLaunchMission_TravelTimeBounded(t *testing.T) {
	led := testLedger()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// 180 days of lead: 80% is 144 days, capped at 90.
	a := missionFixture()
	m, err := ApplyLaunchMission(a, &led, testCosts(), model.MissionNuclear, now)
	if err != nil {
		t.Fatalf("ApplyLaunchMission: %v", err)
	}
	if m.Status != model.MissionLaunched {
		t.Errorf("status = %v, want launched", m.Status)
	}
	if want := now.Add(90 * 24 * time.Hour); !m.ArrivesAt.Equal(want) {
		t.Errorf("arrival = %v, want %v (90-day cap)", m.ArrivesAt, want)
	}
	if m.CostM != 8000 {
		t.Errorf("mission cost = %v, want 8000", m.CostM)
	}
	if led.BudgetM != 2000 {
		t.Errorf("budget = %v, want 2000", led.BudgetM)
	}
	if len(a.Missions) != 1 {
		t.Fatalf("missions attached = %d, want 1", len(a.Missions))
	}

	// 40 days of lead: 80% is 32 days, under the cap.
	led = testLedger()
	b := missionFixture()
	b.HoursToImpact = 40 * 24
	m, err = ApplyLaunchMission(b, &led, testCosts(), model.MissionKinetic, now)
	if err != nil {
		t.Fatalf("ApplyLaunchMission: %v", err)
	}
	if want := now.Add(32 * 24 * time.Hour); !m.ArrivesAt.Equal(want) {
		t.Errorf("arrival = %v, want %v", m.ArrivesAt, want)
	}
}
