package model

import "time"

// MissionType identifies the deflection technique.
type MissionType int

const (
	MissionKinetic MissionType = iota
	MissionGravityTractor
	MissionNuclear
)

func (t MissionType) String() string {
	switch t {
	case MissionKinetic:
		return "kinetic"
	case MissionGravityTractor:
		return "gravity-tractor"
	case MissionNuclear:
		return "nuclear"
	}
	return "unknown"
}

// MissionTypeFromString parses the wire form of a mission type.
func MissionTypeFromString(s string) (MissionType, bool) {
	switch s {
	case "kinetic":
		return MissionKinetic, true
	case "gravity-tractor":
		return MissionGravityTractor, true
	case "nuclear":
		return MissionNuclear, true
	}
	return MissionKinetic, false
}

// MissionStatus tracks a mission's progress. Transitions are driven by the
// engine tick, never by the action layer.
type MissionStatus int

const (
	MissionLaunched MissionStatus = iota
	MissionEnRoute
	MissionDeployed
)

func (s MissionStatus) String() string {
	switch s {
	case MissionLaunched:
		return "launched"
	case MissionEnRoute:
		return "en-route"
	case MissionDeployed:
		return "deployed"
	}
	return "unknown"
}

// DeflectionMission is immutable after creation except for Status, which the
// engine advances as simulated time passes ArrivesAt.
type DeflectionMission struct {
	ID         string
	Type       MissionType
	LaunchedAt time.Time
	// ArrivesAt is bounded at launch to min(80% of remaining lead time,
	// 90 days) after LaunchedAt.
	ArrivesAt time.Time
	CostM     float64 // monetary cost in $M
	// Effectiveness is the computed deflection fraction in [0,1].
	Effectiveness float64
	Status        MissionStatus
}
