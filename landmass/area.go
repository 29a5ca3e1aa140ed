package landmass

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371008.8

func makeLoop(points []Point) *s2.Loop {
	if len(points) < MinRingPoints {
		return nil
	}

	// s2.Loop is always CCW
	if isClockwise(points) {
		points = reverse(points)
	}

	// Skip last point, not stored in loop
	vertices := make([]s2.Point, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		if i > 0 && points[i-1].Equal(points[i]) {
			continue
		}
		latlng := s2.LatLngFromDegrees(points[i].Y, points[i].X)
		vertices = append(vertices, s2.PointFromLatLng(latlng))
	}

	if len(vertices) < 3 {
		return nil
	}
	return s2.LoopFromPoints(vertices)
}

// RingAreaSqm returns the unsigned spherical area of r in square meters.
func RingAreaSqm(r Ring) float64 {
	loop := makeLoop(r.Points)
	if loop == nil {
		return 0
	}
	return loop.Area() * EarthRadius * EarthRadius
}

// AreaSqm returns the spherical area of p in square meters: the outer
// ring's area minus the area of its holes.
func (p Polygon) AreaSqm() float64 {
	a := RingAreaSqm(p.Outer)
	for _, h := range p.Holes {
		a -= RingAreaSqm(h)
	}
	return math.Max(a, 0)
}
