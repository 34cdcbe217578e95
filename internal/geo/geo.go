// Package geo holds great-circle distance and bounding-box helpers.
package geo

import (
	"math"

	"github.com/ethnoguessr/api/internal/ethnoguessr"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between a and b in km.
func HaversineKm(a, b ethnoguessr.Coordinate) float64 {
	φ1 := radians(a.Lat)
	φ2 := radians(b.Lat)
	dφ := radians(b.Lat - a.Lat)
	dλ := radians(b.Lng - a.Lng)

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	h := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// BoundsOf returns the smallest box containing every point. It returns the
// zero Bounds when no points are given.
func BoundsOf(points ...ethnoguessr.Coordinate) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MinLng = min(b.MinLng, p.Lng)
		b.MaxLng = max(b.MaxLng, p.Lng)
	}
	return b
}

// Contains reports whether c lies inside b, edges included.
func (b Bounds) Contains(c ethnoguessr.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b Bounds) Center() ethnoguessr.Coordinate {
	return ethnoguessr.Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
