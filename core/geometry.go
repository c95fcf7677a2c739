package core

import (
	"math"
	"math/rand"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// EarthRadiusKm is the mean Earth radius used across the engine.
const EarthRadiusKm = 6371.0

// ImpactPoint converts a randomly drawn inertial approach direction into a
// geodetic surface point at the given simulation time. The direction is
// uniform on the sphere in ECI; rotating it through Greenwich sidereal time
// means the same draw lands at different longitudes at different epochs,
// the way a real encounter geometry would.
func ImpactPoint(simTime time.Time, rng *rand.Rand) (latDeg, lonDeg float64) {
	// Uniform direction on the unit sphere.
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	dir := satellite.Vector3{
		X: EarthRadiusKm * s * math.Cos(phi),
		Y: EarthRadiusKm * s * math.Sin(phi),
		Z: EarthRadiusKm * z,
	}

	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	ecef := satellite.ECIToECEF(dir, gmst)

	r := math.Sqrt(ecef.X*ecef.X + ecef.Y*ecef.Y + ecef.Z*ecef.Z)
	if r == 0 {
		return 0, 0
	}
	latDeg = math.Asin(ecef.Z/r) * 180 / math.Pi
	lonDeg = math.Atan2(ecef.Y, ecef.X) * 180 / math.Pi
	return latDeg, lonDeg
}
