/*
Package game
File: models.go
Description:
    Defines the entity structs owned by the simulation: zones, machines,
    vehicles and the tick-coherent State snapshot. These map directly to the
    JSON pushed to observers after every tick.

    Entities are value types. Every tick pass takes the previous pass's
    slices and returns fresh ones (Clone before mutate), so a reader holding
    last tick's snapshot never observes a half-updated world.
*/

package game

import "github.com/google/uuid"

// ZoneProfile is a zone archetype from world.yaml: the demand shape shared by
// every zone of one type.
type ZoneProfile struct {
	Type              string          `yaml:"type" json:"type"`
	TrafficMultiplier float64         `yaml:"traffic_multiplier" json:"traffic_multiplier"`
	DemandCurve       map[int]float64 `yaml:"demand_curve" json:"demand_curve"` // hour -> multiplier
}

// Zone is a fixed-position demand source, created once when a machine is
// purchased and immutable afterwards.
type Zone struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	X                 float64         `json:"x"`
	Y                 float64         `json:"y"`
	DemandCurve       map[int]float64 `json:"demand_curve"`
	TrafficMultiplier float64         `json:"traffic_multiplier"`
}

// NewZone instantiates a zone of the given archetype at a grid position.
func NewZone(p ZoneProfile, x, y float64) Zone {
	curve := make(map[int]float64, len(p.DemandCurve))
	for h, m := range p.DemandCurve {
		curve[h] = m
	}
	return Zone{
		ID:                "zone-" + uuid.NewString(),
		Type:              p.Type,
		X:                 x,
		Y:                 y,
		DemandCurve:       curve,
		TrafficMultiplier: p.TrafficMultiplier,
	}
}

// DemandAt returns the demand multiplier for an hour.
// Hours absent from the curve resolve to 1.0 (neutral demand); curve maps are
// sparse and only list the hours that deviate from baseline.
func (z Zone) DemandAt(hour int) float64 {
	if m, ok := z.DemandCurve[hour]; ok {
		return m
	}
	return 1.0
}

// Machine condition values.
const (
	ConditionOK     = "ok"
	ConditionBroken = "broken"
)

// Machine is one vending machine.
type Machine struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Zone              Zone    `json:"zone"`
	Condition         string  `json:"condition"`
	Inventory         Stock   `json:"inventory"`
	CurrentCash       float64 `json:"current_cash"`
	TotalSales        int     `json:"total_sales"`
	HoursSinceRestock float64 `json:"hours_since_restock"` // Accrues only while the machine cannot sell
}

// NewMachine mints a machine with a fresh zone of the given archetype.
func NewMachine(name string, profile ZoneProfile, x, y float64) Machine {
	return Machine{
		ID:        "mac-" + uuid.NewString(),
		Name:      name,
		Zone:      NewZone(profile, x, y),
		Condition: ConditionOK,
		Inventory: make(Stock),
	}
}

// TotalStock returns the total units across all products.
func (m *Machine) TotalStock() int {
	return m.Inventory.Total()
}

// IsEmpty reports whether the machine holds zero units.
func (m *Machine) IsEmpty() bool {
	return m.Inventory.Total() == 0
}

// Clone returns a deep copy safe to mutate in the next pass.
func (m Machine) Clone() Machine {
	m.Inventory = m.Inventory.Clone()
	m.Zone.DemandCurve = cloneCurve(m.Zone.DemandCurve)
	return m
}

func cloneCurve(c map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// VehicleStatus is the router state of a vehicle.
type VehicleStatus string

const (
	StatusIdle       VehicleStatus = "idle"
	StatusTraveling  VehicleStatus = "traveling"
	StatusRestocking VehicleStatus = "restocking"
)

// Vehicle is one delivery truck.
type Vehicle struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Route      []string       `json:"route"` // Ordered machine IDs
	RouteIndex int            `json:"route_index"`
	Status     VehicleStatus  `json:"status"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	TargetX    float64        `json:"target_x"`
	TargetY    float64        `json:"target_y"`
	Inventory  map[string]int `json:"inventory"` // product key -> units
}

// NewVehicle mints an idle vehicle at a grid position.
func NewVehicle(name string, x, y float64) Vehicle {
	return Vehicle{
		ID:        "veh-" + uuid.NewString(),
		Name:      name,
		Status:    StatusIdle,
		X:         x,
		Y:         y,
		TargetX:   x,
		TargetY:   y,
		Inventory: make(map[string]int),
	}
}

// HasRoute reports whether a route is assigned.
func (v *Vehicle) HasRoute() bool {
	return len(v.Route) > 0
}

// RouteComplete reports whether every stop has been visited.
func (v *Vehicle) RouteComplete() bool {
	return v.RouteIndex >= len(v.Route)
}

// Destination returns the current stop's machine ID, or "" if the route is
// exhausted or unset.
func (v *Vehicle) Destination() string {
	if v.RouteIndex < 0 || v.RouteIndex >= len(v.Route) {
		return ""
	}
	return v.Route[v.RouteIndex]
}

// TotalLoad returns the total units on board.
func (v *Vehicle) TotalLoad() int {
	total := 0
	for _, q := range v.Inventory {
		total += q
	}
	return total
}

// Clone returns a deep copy safe to mutate in the next pass.
func (v Vehicle) Clone() Vehicle {
	v.Route = append([]string(nil), v.Route...)
	inv := make(map[string]int, len(v.Inventory))
	for k, q := range v.Inventory {
		inv[k] = q
	}
	v.Inventory = inv
	return v
}

// State is the tick-coherent snapshot the engine owns and replaces atomically
// once per tick.
type State struct {
	Time       GameTime  `json:"time"`
	Machines   []Machine `json:"machines"`
	Vehicles   []Vehicle `json:"vehicles"`
	Cash       float64   `json:"cash"`
	Reputation int       `json:"reputation"`
}

// Clone deep-copies the snapshot.
func (s State) Clone() State {
	machines := make([]Machine, len(s.Machines))
	for i, m := range s.Machines {
		machines[i] = m.Clone()
	}
	vehicles := make([]Vehicle, len(s.Vehicles))
	for i, v := range s.Vehicles {
		vehicles[i] = v.Clone()
	}
	s.Machines = machines
	s.Vehicles = vehicles
	return s
}

// MachineByID finds a machine in the snapshot. Returns nil if absent.
func (s *State) MachineByID(id string) *Machine {
	for i := range s.Machines {
		if s.Machines[i].ID == id {
			return &s.Machines[i]
		}
	}
	return nil
}

// Event kinds recorded to the tick ledger.
const (
	EventSale    = "sale"
	EventSpoil   = "spoil"
	EventRestock = "restock"
)

// Event is one notable thing that happened during a tick.
type Event struct {
	Tick      int     `json:"tick"`
	Kind      string  `json:"kind"`
	MachineID string  `json:"machine_id,omitempty"`
	VehicleID string  `json:"vehicle_id,omitempty"`
	Product   string  `json:"product,omitempty"`
	Qty       int     `json:"qty,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
}
