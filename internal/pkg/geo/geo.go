// Package geo provides coordinate validation and distance helpers for
// route geometries.
package geo

import (
	"math"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
)

const earthRadiusKm = 6371.0

// ValidCoordinates checks that latitude is within [-90,90] and
// longitude within [-180,180].
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// PointDistanceKm returns the distance between two geometry points.
func PointDistanceKm(a, b models.GeoPoint) float64 {
	return HaversineKm(a.Lat(), a.Lng(), b.Lat(), b.Lng())
}

// PathDistanceKm sums the edge distances along a geometry.
func PathDistanceKm(geometry []models.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(geometry); i++ {
		total += PointDistanceKm(geometry[i-1], geometry[i])
	}
	return total
}

// NearestPointIndex returns the index of the geometry point closest to
// target. Returns -1 for an empty geometry.
func NearestPointIndex(geometry []models.GeoPoint, target models.GeoPoint) int {
	best := -1
	bestDist := math.MaxFloat64
	for i, p := range geometry {
		d := PointDistanceKm(p, target)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
