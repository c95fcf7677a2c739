package core

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestImpactPoint_WithinValidCoordinates(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		lat, lon := ImpactPoint(now, rng)
		if lat < -90 || lat > 90 {
			t.Fatalf("latitude %v out of range", lat)
		}
		if lon < -180 || lon > 180 {
			t.Fatalf("longitude %v out of range", lon)
		}
	}
}

func TestImpactPoint_DeterministicUnderFixedSeed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	latA, lonA := ImpactPoint(now, rand.New(rand.NewSource(4)))
	latB, lonB := ImpactPoint(now, rand.New(rand.NewSource(4)))
	if latA != latB || lonA != lonB {
		t.Fatalf("same seed and time should give the same point: (%v, %v) vs (%v, %v)", latA, lonA, latB, lonB)
	}
}

func TestImpactPoint_EarthRotationShiftsLongitude(t *testing.T) {
	// Six hours of Earth rotation moves the sub-point by roughly 90° of
	// longitude for the same inertial direction.
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(6 * time.Hour)

	lat0, lon0 := ImpactPoint(t0, rand.New(rand.NewSource(8)))
	lat1, lon1 := ImpactPoint(t1, rand.New(rand.NewSource(8)))

	if math.Abs(lat0-lat1) > 1e-6 {
		t.Fatalf("latitude should not change with rotation: %v vs %v", lat0, lat1)
	}
	if lon0 == lon1 {
		t.Fatalf("longitude should shift with Earth rotation")
	}
}
