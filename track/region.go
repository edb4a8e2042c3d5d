package track

import (
	"github.com/golang/geo/s2"
)

const earthRadiusKM = 6371.0

// Region is the minimal latitude/longitude rectangle covering a set of
// positions, in decimal degrees. The longitude interval may wrap across
// the antimeridian: when MinLon > MaxLon the covered range runs eastward
// from MinLon through 180 to MaxLon.
type Region struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Center returns the midpoint of the rectangle, accounting for a
// wrapped longitude interval.
func (r Region) Center() (lat, lon float64) {
	lat = (r.MinLat + r.MaxLat) / 2
	lon = (r.MinLon + r.MaxLon) / 2
	if r.MinLon > r.MaxLon {
		lon += 180
		if lon > 180 {
			lon -= 360
		}
	}
	return lat, lon
}

// BoundingRegion computes the minimal rectangle covering all positions.
// A single-position track yields a zero-area rectangle at that position.
func (t *Track) BoundingRegion() (Region, error) {
	if len(t.positions) == 0 {
		return Region{}, ErrEmptyTrack
	}
	rect := s2.EmptyRect()
	for _, p := range t.positions {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}
	return Region{
		MinLat: rect.Lo().Lat.Degrees(),
		MaxLat: rect.Hi().Lat.Degrees(),
		MinLon: rect.Lo().Lng.Degrees(),
		MaxLon: rect.Hi().Lng.Degrees(),
	}, nil
}

// LengthKM is the total great-circle length of the track in kilometers.
func (t *Track) LengthKM() float64 {
	total := 0.0
	for i := 1; i < len(t.positions); i++ {
		a := s2.LatLngFromDegrees(t.positions[i-1].Lat, t.positions[i-1].Lon)
		b := s2.LatLngFromDegrees(t.positions[i].Lat, t.positions[i].Lon)
		total += a.Distance(b).Radians() * earthRadiusKM
	}
	return total
}
