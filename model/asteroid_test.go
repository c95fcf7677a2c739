package model

import (
	"testing"
	"time"
)

func TestSizeCategoryFromDiameter(t *testing.T) {
	cases := []struct {
		diameterM float64
		want      SizeCategory
	}{
		{0.5, SizeTiny},
		{4.99, SizeTiny},
		{5, SizeSmall},
		{19.9, SizeSmall},
		{20, SizeMedium},
		{139, SizeMedium},
		{140, SizeLarge},
		{10000, SizeLarge},
	}
	for _, tc := range cases {
		if got := SizeCategoryFromDiameter(tc.diameterM); got != tc.want {
			t.Errorf("SizeCategoryFromDiameter(%v) = %v, want %v", tc.diameterM, got, tc.want)
		}
	}
}

func TestSizeCategory_String(t *testing.T) {
	if SizeLarge.String() != "large" || SizeTiny.String() != "tiny" {
		t.Fatalf("unexpected tier names: %q %q", SizeLarge, SizeTiny)
	}
	if SizeCategory(99).String() != "unknown" {
		t.Fatalf("out-of-range tier should render as unknown")
	}
}

func TestAsteroid_ObservedDays(t *testing.T) {
	a := &Asteroid{InitialHoursToImpact: 240, HoursToImpact: 192}
	if got := a.ObservedDays(); got != 2 {
		t.Errorf("observed days = %v, want 2", got)
	}

	// Clock skew must never produce negative observation time.
	a.HoursToImpact = 300
	if got := a.ObservedDays(); got != 0 {
		t.Errorf("observed days = %v, want clamped 0", got)
	}
}

func TestAsteroid_CloneIsDeep(t *testing.T) {
	launched := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := &Asteroid{
		ID:   "obj-1",
		Name: "2025 AB1",
		Missions: []*DeflectionMission{
			{ID: "msn-1", Type: MissionKinetic, LaunchedAt: launched, Status: MissionEnRoute},
		},
	}

	cp := a.Clone()
	cp.Name = "renamed"
	cp.Missions[0].Status = MissionDeployed

	if a.Name != "2025 AB1" {
		t.Errorf("clone mutation leaked into original name: %q", a.Name)
	}
	if a.Missions[0].Status != MissionEnRoute {
		t.Errorf("clone mutation leaked into original mission status: %v", a.Missions[0].Status)
	}
}

func TestAsteroid_DeployedMissions(t *testing.T) {
	a := &Asteroid{
		Missions: []*DeflectionMission{
			{ID: "msn-1", Status: MissionLaunched},
			{ID: "msn-2", Status: MissionDeployed},
			{ID: "msn-3", Status: MissionEnRoute},
		},
	}
	deployed := a.DeployedMissions()
	if len(deployed) != 1 || deployed[0].ID != "msn-2" {
		t.Fatalf("deployed = %v, want only msn-2", deployed)
	}
}

func TestMissionTypeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want MissionType
		ok   bool
	}{
		{"kinetic", MissionKinetic, true},
		{"gravity-tractor", MissionGravityTractor, true},
		{"nuclear", MissionNuclear, true},
		{"laser", MissionKinetic, false},
		{"", MissionKinetic, false},
	}
	for _, tc := range cases {
		got, ok := MissionTypeFromString(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("MissionTypeFromString(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLedger_FinalScore(t *testing.T) {
	l := Ledger{
		BudgetM:         8000,
		StartingBudgetM: 10000,
		Trust:           80,
		Score:           150,
	}
	want := 150 + 80*5 + 2000*2.0
	if got := l.FinalScore(); got != want {
		t.Errorf("final score = %v, want %v", got, want)
	}
}

func TestLedger_GameOver(t *testing.T) {
	if (&Ledger{BudgetM: 100, Trust: 50}).GameOver() {
		t.Errorf("solvent trusted program reported over")
	}
	if !(&Ledger{BudgetM: 0, Trust: 50}).GameOver() {
		t.Errorf("exhausted budget must end the scenario")
	}
	if !(&Ledger{BudgetM: 100, Trust: 0}).GameOver() {
		t.Errorf("lost trust must end the scenario")
	}
}
