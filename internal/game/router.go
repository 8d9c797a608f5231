/*
Package game
File: router.go
Description:
    The vehicle movement pass. Each traveling vehicle heads for its current
    destination machine in two phases:

    1. Road travel: one grid unit per tick, orthogonal only, toward the
       "parking spot" (the point on the road network nearest the machine).
       A vehicle may only advance along an axis it is road-aligned for; if
       misaligned it travels the other axis first to reach an intersection.

    2. Final approach: off the road, straight-line interpolation from the
       parking spot to the exact machine coordinate, a fixed fraction of a
       grid unit per tick, clamped against overshoot.

    When the vehicle gets within the arrival threshold of the machine it
    snaps onto the machine coordinate and flips to restocking; the transfer
    pass owns the restocking state from there.
*/

package game

import (
	"log"
	"math"
)

// Router advances vehicles along their routes.
type Router struct {
	roads  RoadNetwork
	mv     Movement
	warned map[string]int // vehicle ID -> route index already warned about
}

// NewRouter builds a router over the given road network and thresholds.
func NewRouter(roads RoadNetwork, mv Movement) *Router {
	return &Router{roads: roads, mv: mv, warned: make(map[string]int)}
}

// Step advances one vehicle by one tick against the current machine list and
// returns the updated copy.
func (r *Router) Step(v Vehicle, machines []Machine) Vehicle {
	next := v.Clone()

	// Restocking vehicles are frozen here; the transfer pass releases them.
	if next.Status == StatusRestocking {
		return next
	}

	if !next.HasRoute() || next.RouteComplete() {
		next.Status = StatusIdle
		next.TargetX, next.TargetY = next.X, next.Y
		return next
	}

	dest := machineByID(machines, next.Destination())
	if dest == nil {
		// Destination no longer exists. Idle in place until the route is
		// corrected externally; substituting another machine would send the
		// vehicle somewhere nobody asked for.
		if r.warned[next.ID] != next.RouteIndex+1 {
			log.Printf("ROUTER: vehicle %s stop %d references unknown machine %q, idling",
				next.ID, next.RouteIndex, next.Destination())
			r.warned[next.ID] = next.RouteIndex + 1
		}
		next.Status = StatusIdle
		next.TargetX, next.TargetY = next.X, next.Y
		return next
	}

	next.Status = StatusTraveling
	mx, my := dest.Zone.X, dest.Zone.Y

	// Arrived: snap exactly onto the machine and hand over to the transfer pass.
	if euclid(next.X, next.Y, mx, my) < r.mv.ArrivalThreshold {
		next.X, next.Y = mx, my
		next.TargetX, next.TargetY = mx, my
		next.Status = StatusRestocking
		return next
	}

	px, py := r.roads.ParkingSpot(mx, my)
	if math.Abs(next.X-px)+math.Abs(next.Y-py) >= r.mv.ParkingThreshold {
		next.TargetX, next.TargetY = px, py
		r.roadStep(&next, px, py)
		return next
	}

	next.TargetX, next.TargetY = mx, my
	r.approachStep(&next, mx, my)
	return next
}

// roadStep moves one grid unit along a single axis toward the parking spot,
// respecting road alignment. Exactly one axis changes per tick.
func (r *Router) roadStep(v *Vehicle, px, py float64) {
	dx := px - v.X
	dy := py - v.Y

	switch {
	case math.Abs(dx) > 1e-9 && r.roads.OnHorizontalRoad(v.Y):
		v.X += clampMag(dx, 1.0)
	case math.Abs(dy) > 1e-9 && r.roads.OnVerticalRoad(v.X):
		v.Y += clampMag(dy, 1.0)
	default:
		// Alignment edge case: neither axis was legal. Force a step along the
		// larger remaining offset so the vehicle can never stall mid-grid.
		if math.Abs(dx) >= math.Abs(dy) {
			v.X += clampMag(dx, 1.0)
		} else {
			v.Y += clampMag(dy, 1.0)
		}
	}
}

// approachStep moves straight toward the machine at the configured off-road
// step, clamped so the vehicle never overshoots the destination.
func (r *Router) approachStep(v *Vehicle, mx, my float64) {
	dx := mx - v.X
	dy := my - v.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	if dist <= r.mv.ApproachStep {
		v.X, v.Y = mx, my
		return
	}
	v.X += dx / dist * r.mv.ApproachStep
	v.Y += dy / dist * r.mv.ApproachStep
}

func machineByID(machines []Machine, id string) *Machine {
	for i := range machines {
		if machines[i].ID == id {
			return &machines[i]
		}
	}
	return nil
}

func euclid(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// clampMag limits d to at most mag in absolute value, keeping its sign.
func clampMag(d, mag float64) float64 {
	if d > mag {
		return mag
	}
	if d < -mag {
		return -mag
	}
	return d
}
