/*
Package game
File: roads.go
Description:
    The road network: a sparse grid of vertical and horizontal lines that
    constrains vehicle travel. Built once from world.yaml; the router and all
    spatial queries go through this type so the line coordinates are never
    re-derived anywhere else.
*/

package game

import "math"

// RoadNetwork is the fixed set of road lines plus the on-road tolerance.
type RoadNetwork struct {
	verticalX   []float64
	horizontalY []float64
	epsilon     float64
}

// NewRoadNetwork builds the network from config.
func NewRoadNetwork(cfg RoadConfig, epsilon float64) RoadNetwork {
	return RoadNetwork{
		verticalX:   append([]float64(nil), cfg.VerticalX...),
		horizontalY: append([]float64(nil), cfg.HorizontalY...),
		epsilon:     epsilon,
	}
}

// nearestLine returns the line closest to v. Ties break toward the first
// line in definition order.
func nearestLine(lines []float64, v float64) float64 {
	best := lines[0]
	bestDist := math.Abs(v - best)
	for _, l := range lines[1:] {
		if d := math.Abs(v - l); d < bestDist {
			best = l
			bestDist = d
		}
	}
	return best
}

// NearestVerticalX returns the x coordinate of the closest vertical road.
func (r RoadNetwork) NearestVerticalX(x float64) float64 {
	return nearestLine(r.verticalX, x)
}

// NearestHorizontalY returns the y coordinate of the closest horizontal road.
func (r RoadNetwork) NearestHorizontalY(y float64) float64 {
	return nearestLine(r.horizontalY, y)
}

// OnVerticalRoad reports whether x sits on a vertical road line.
func (r RoadNetwork) OnVerticalRoad(x float64) bool {
	return math.Abs(x-r.NearestVerticalX(x)) <= r.epsilon
}

// OnHorizontalRoad reports whether y sits on a horizontal road line.
func (r RoadNetwork) OnHorizontalRoad(y float64) bool {
	return math.Abs(y-r.NearestHorizontalY(y)) <= r.epsilon
}

// ParkingSpot returns the point on the network nearest to (x, y): the anchor
// axis is whichever road line (vertical or horizontal) the point is closer
// to, and the other coordinate is kept.
func (r RoadNetwork) ParkingSpot(x, y float64) (float64, float64) {
	nvx := r.NearestVerticalX(x)
	nhy := r.NearestHorizontalY(y)
	if math.Abs(x-nvx) <= math.Abs(y-nhy) {
		return nvx, y
	}
	return x, nhy
}
