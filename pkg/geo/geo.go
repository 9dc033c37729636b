// Package geo provides great-circle distance math and Thai-locale
// distance formatting for the directory UI.
package geo

import (
	"fmt"
	"math"

	"github.com/haanaihang/server/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371

// BangkokCenter is the default map center.
var BangkokCenter = models.LatLng{Lat: 13.7563, Lng: 100.5018}

// ThailandBounds restricts map panning to the country.
var ThailandBounds = struct {
	North, South, East, West float64
}{North: 20.4649, South: 5.6333, East: 105.6372, West: 97.3436}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the haversine great-circle distance between a and b
// in kilometers.
func DistanceKm(a, b models.LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	s := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(s))
}

// FormatDistance renders a distance for display: meters below one
// kilometer, one decimal up to ten kilometers, whole kilometers beyond.
// หน่วยเป็น ม. / กม.
func FormatDistance(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("%d ม.", int(math.Round(km*1000)))
	case km < 10:
		return fmt.Sprintf("%.1f กม.", km)
	default:
		return fmt.Sprintf("%d กม.", int(math.Round(km)))
	}
}

// IsWithinRadius reports whether point lies within radiusKm of center.
func IsWithinRadius(center, point models.LatLng, radiusKm float64) bool {
	return DistanceKm(center, point) <= radiusKm
}

// CenterPoint returns the arithmetic midpoint of the given locations.
// It returns false when the slice is empty.
func CenterPoint(locations []models.LatLng) (models.LatLng, bool) {
	if len(locations) == 0 {
		return models.LatLng{}, false
	}
	var sum models.LatLng
	for _, loc := range locations {
		sum.Lat += loc.Lat
		sum.Lng += loc.Lng
	}
	n := float64(len(locations))
	return models.LatLng{Lat: sum.Lat / n, Lng: sum.Lng / n}, true
}
