/*
Package game
File: config.go
Description:
    Loads and validates 'world.yaml', the single source of truth for every
    tunable in the simulation: clock cadence, economy balance, movement
    thresholds, the road grid, the product catalog, zone archetypes and the
    starting entities.

    Nothing else in the engine is allowed to hard-code a policy number; if a
    value shows up in two places, it belongs in here.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimConfig controls the clock and the real-time cadence.
type SimConfig struct {
	TicksPerHour int   `yaml:"ticks_per_hour" json:"ticks_per_hour"` // Simulation ticks per in-game hour
	HoursPerDay  int   `yaml:"hours_per_day" json:"hours_per_day"`   // In-game hours per in-game day
	TickSeconds  int   `yaml:"tick_seconds" json:"tick_seconds"`     // Real-time seconds between ticks
	RNGSeed      int64 `yaml:"rng_seed" json:"rng_seed"`             // 0 = seed from wall clock
}

// Balance stores the macro-economy tuning knobs.
type Balance struct {
	StartingCash                  float64 `yaml:"starting_cash" json:"starting_cash"`
	StartingReputation            int     `yaml:"starting_reputation" json:"starting_reputation"`
	GasPricePerUnit               float64 `yaml:"gas_price_per_unit" json:"gas_price_per_unit"`                               // Cost per grid unit of remaining travel
	EmptyMachinePenaltyHours      float64 `yaml:"empty_machine_penalty_hours" json:"empty_machine_penalty_hours"`             // Grace period before reputation decay
	ReputationPenaltyPerEmptyHour float64 `yaml:"reputation_penalty_per_empty_hour" json:"reputation_penalty_per_empty_hour"` // Decay rate past the grace period
	DisposalCostPerExpiredItem    float64 `yaml:"disposal_cost_per_expired_item" json:"disposal_cost_per_expired_item"`       // Charged per spoiled unit
	MachineCapacityMax            int     `yaml:"machine_capacity_max" json:"machine_capacity_max"`
	VehicleCapacityMax            int     `yaml:"vehicle_capacity_max" json:"vehicle_capacity_max"`
	WarehouseCapacityMax          int     `yaml:"warehouse_capacity_max" json:"warehouse_capacity_max"`
	MachineBasePrice              float64 `yaml:"machine_base_price" json:"machine_base_price"`
	VehicleBasePrice              float64 `yaml:"vehicle_base_price" json:"vehicle_base_price"`
	WholesalePriceFactor          float64 `yaml:"wholesale_price_factor" json:"wholesale_price_factor"` // Stock purchase price as a fraction of retail
}

// Movement stores the routing thresholds shared by the router and its tests.
type Movement struct {
	ArrivalThreshold float64 `yaml:"arrival_threshold" json:"arrival_threshold"` // Euclidean snap distance to a machine
	RoadEpsilon      float64 `yaml:"road_epsilon" json:"road_epsilon"`           // "on road" tolerance
	ParkingThreshold float64 `yaml:"parking_threshold" json:"parking_threshold"` // Manhattan tolerance at the parking spot
	ApproachStep     float64 `yaml:"approach_step" json:"approach_step"`         // Off-road units travelled per tick
}

// RoadConfig is the one and only definition of the road grid.
type RoadConfig struct {
	VerticalX   []float64 `yaml:"vertical_x" json:"vertical_x"`
	HorizontalY []float64 `yaml:"horizontal_y" json:"horizontal_y"`
}

// StartMachine seeds one machine into a fresh world.
type StartMachine struct {
	Name     string  `yaml:"name"`
	ZoneType string  `yaml:"zone_type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
}

// StartVehicle seeds one vehicle into a fresh world.
type StartVehicle struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// StartState lists the entities present when a fresh world boots.
type StartState struct {
	Machines []StartMachine `yaml:"machines"`
	Vehicles []StartVehicle `yaml:"vehicles"`
}

// Config is the root struct mapping to the entire 'world.yaml' file.
type Config struct {
	Sim      SimConfig     `yaml:"sim" json:"sim"`
	Balance  Balance       `yaml:"balance" json:"balance"`
	Movement Movement      `yaml:"movement" json:"movement"`
	Roads    RoadConfig    `yaml:"roads" json:"roads"`
	Products []Product     `yaml:"products" json:"products"`
	Zones    []ZoneProfile `yaml:"zones" json:"zones"`
	Start    StartState    `yaml:"start" json:"start"`
}

// LoadConfig reads and validates a world file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run on.
func (c *Config) Validate() error {
	if c.Sim.TicksPerHour <= 0 {
		return fmt.Errorf("sim.ticks_per_hour must be positive, got %d", c.Sim.TicksPerHour)
	}
	if 60%c.Sim.TicksPerHour != 0 {
		return fmt.Errorf("sim.ticks_per_hour must divide 60, got %d", c.Sim.TicksPerHour)
	}
	if c.Sim.HoursPerDay <= 0 {
		return fmt.Errorf("sim.hours_per_day must be positive, got %d", c.Sim.HoursPerDay)
	}
	if c.Sim.TickSeconds <= 0 {
		return fmt.Errorf("sim.tick_seconds must be positive, got %d", c.Sim.TickSeconds)
	}
	if c.Balance.MachineCapacityMax <= 0 {
		return fmt.Errorf("balance.machine_capacity_max must be positive, got %d", c.Balance.MachineCapacityMax)
	}
	if c.Movement.ApproachStep <= 0 {
		return fmt.Errorf("movement.approach_step must be positive, got %v", c.Movement.ApproachStep)
	}
	if len(c.Roads.VerticalX) == 0 || len(c.Roads.HorizontalY) == 0 {
		return fmt.Errorf("roads must define at least one vertical and one horizontal line")
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("catalog must define at least one product")
	}
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.Key == "" {
			return fmt.Errorf("product with empty key")
		}
		if seen[p.Key] {
			return fmt.Errorf("duplicate product key %q", p.Key)
		}
		seen[p.Key] = true
		if p.ShelfLifeDays <= 0 {
			return fmt.Errorf("product %q: shelf_life_days must be positive", p.Key)
		}
	}
	for _, z := range c.Zones {
		if z.Type == "" {
			return fmt.Errorf("zone archetype with empty type")
		}
	}
	return nil
}

// ZoneProfileByType finds a zone archetype. Returns nil if not found.
func (c *Config) ZoneProfileByType(t string) *ZoneProfile {
	for i := range c.Zones {
		if c.Zones[i].Type == t {
			return &c.Zones[i]
		}
	}
	return nil
}
