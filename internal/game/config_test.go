package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero ticks per hour", func(c *Config) { c.Sim.TicksPerHour = 0 }, "ticks_per_hour"},
		{"ticks per hour not dividing 60", func(c *Config) { c.Sim.TicksPerHour = 7 }, "divide 60"},
		{"zero hours per day", func(c *Config) { c.Sim.HoursPerDay = 0 }, "hours_per_day"},
		{"zero tick seconds", func(c *Config) { c.Sim.TickSeconds = 0 }, "tick_seconds"},
		{"zero machine capacity", func(c *Config) { c.Balance.MachineCapacityMax = 0 }, "machine_capacity_max"},
		{"zero approach step", func(c *Config) { c.Movement.ApproachStep = 0 }, "approach_step"},
		{"no roads", func(c *Config) { c.Roads.VerticalX = nil }, "roads"},
		{"no products", func(c *Config) { c.Products = nil }, "at least one product"},
		{"empty product key", func(c *Config) { c.Products[0].Key = "" }, "empty key"},
		{"duplicate product key", func(c *Config) { c.Products[1].Key = c.Products[0].Key }, "duplicate"},
		{"zero shelf life", func(c *Config) { c.Products[0].ShelfLifeDays = 0 }, "shelf_life_days"},
		{"empty zone type", func(c *Config) { c.Zones[0].Type = "" }, "zone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted a broken config")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	if err := testConfig().Validate(); err != nil {
		t.Fatalf("Validate rejected the baseline config: %v", err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	raw := `
sim:
  ticks_per_hour: 6
  hours_per_day: 24
  tick_seconds: 2
  rng_seed: 42
balance:
  starting_cash: 500.0
  starting_reputation: 1000
  gas_price_per_unit: 0.05
  empty_machine_penalty_hours: 2.0
  reputation_penalty_per_empty_hour: 3.0
  disposal_cost_per_expired_item: 0.25
  machine_capacity_max: 100
  vehicle_capacity_max: 200
  warehouse_capacity_max: 1000
  machine_base_price: 250.0
  vehicle_base_price: 400.0
  wholesale_price_factor: 0.5
movement:
  arrival_threshold: 0.2
  road_epsilon: 0.1
  parking_threshold: 0.5
  approach_step: 0.5
roads:
  vertical_x: [3, 6]
  horizontal_y: [0, 4, 8]
products:
  - key: item_cola
    name: Cola
    base_demand: 0.10
    base_price: 1.50
    shelf_life_days: 30
zones:
  - type: office
    traffic_multiplier: 1.2
    demand_curve:
      9: 1.5
      12: 2.0
start:
  machines:
    - name: Lobby Machine
      zone_type: office
      x: 3
      y: 4
  vehicles:
    - name: Van 1
      x: 3
      y: 0
`
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Sim.RNGSeed != 42 {
		t.Fatalf("rng_seed = %d, want 42", cfg.Sim.RNGSeed)
	}
	if cfg.Balance.WholesalePriceFactor != 0.5 {
		t.Fatalf("wholesale_price_factor = %v, want 0.5", cfg.Balance.WholesalePriceFactor)
	}
	if len(cfg.Products) != 1 || cfg.Products[0].Key != "item_cola" {
		t.Fatalf("products = %+v", cfg.Products)
	}
	z := cfg.ZoneProfileByType("office")
	if z == nil {
		t.Fatal("office archetype missing")
	}
	if z.DemandCurve[12] != 2.0 {
		t.Fatalf("demand_curve[12] = %v, want 2.0", z.DemandCurve[12])
	}
	if len(cfg.Start.Machines) != 1 || cfg.Start.Machines[0].ZoneType != "office" {
		t.Fatalf("start.machines = %+v", cfg.Start.Machines)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig should fail on a missing file")
	}
}

func TestZoneProfileByTypeUnknown(t *testing.T) {
	if got := testConfig().ZoneProfileByType("mall"); got != nil {
		t.Fatalf("unknown archetype should be nil, got %+v", got)
	}
}
