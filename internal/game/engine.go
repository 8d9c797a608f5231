/*
Package game
File: engine.go
Description:
    The simulation engine. Owns the authoritative State snapshot, the RNG
    stream and the real-time cadence, and advances the world one tick at a
    time through a fixed pipeline:

        sales -> spoilage -> movement -> transfers -> economy -> clock

    One tick runs start-to-finish under the engine lock; external intents
    (purchases, route assignments, restocks) are applied between ticks via
    Apply and the setter methods. Observers subscribe to a channel that
    receives the full snapshot after every tick.
*/

package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Recorder receives each completed tick for out-of-band indexing (e.g. the
// SQLite ledger). Implementations must not block the caller for long.
type Recorder interface {
	RecordTick(st State, events []Event)
}

// Engine drives the simulation.
type Engine struct {
	mu      sync.Mutex
	cfg     *Config
	catalog *Catalog
	clock   Clock
	router  *Router
	rng     *rand.Rand
	state   State

	running bool
	paused  bool
	cancel  context.CancelFunc

	subMu sync.Mutex
	subs  map[chan State]struct{}

	recorder Recorder
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRecorder attaches a tick recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithRNG overrides the seeded RNG (used by deterministic tests).
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// NewEngine builds an engine with the starting state from config.
func NewEngine(cfg *Config, opts ...Option) *Engine {
	seed := cfg.Sim.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	roads := NewRoadNetwork(cfg.Roads, cfg.Movement.RoadEpsilon)
	clock := NewClock(cfg.Sim)

	e := &Engine{
		cfg:     cfg,
		catalog: NewCatalog(cfg.Products),
		clock:   clock,
		router:  NewRouter(roads, cfg.Movement),
		rng:     rand.New(rand.NewSource(seed)),
		subs:    make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = e.startingState()
	return e
}

// startingState seeds the world from config.
func (e *Engine) startingState() State {
	st := State{
		Time:       e.clock.FromTicks(0),
		Cash:       e.cfg.Balance.StartingCash,
		Reputation: e.cfg.Balance.StartingReputation,
	}
	for _, sm := range e.cfg.Start.Machines {
		profile := e.cfg.ZoneProfileByType(sm.ZoneType)
		if profile == nil {
			log.Printf("ENGINE: start machine %q has unknown zone type %q, skipping", sm.Name, sm.ZoneType)
			continue
		}
		st.Machines = append(st.Machines, NewMachine(sm.Name, *profile, sm.X, sm.Y))
	}
	for _, sv := range e.cfg.Start.Vehicles {
		st.Vehicles = append(st.Vehicles, NewVehicle(sv.Name, sv.X, sv.Y))
	}
	return st
}

// Catalog exposes the product catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Config exposes the loaded configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Clock exposes the game clock.
func (e *Engine) Clock() Clock {
	return e.clock
}

// StepState runs the full tick pipeline over an arbitrary snapshot and
// returns the successor. It consumes the engine's RNG stream but does not
// touch the engine's own state; controllers that own their entity lists
// externally (and tests) call this directly.
func (e *Engine) StepState(st State) (State, []Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step(st)
}

// step is the tick pipeline. Caller holds e.mu.
func (e *Engine) step(st State) (State, []Event) {
	t := st.Time
	var events []Event

	// 1. Sales pass.
	machines := make([]Machine, len(st.Machines))
	for i, m := range st.Machines {
		res := RunSales(m, e.catalog, t, e.clock, e.rng)
		machines[i] = res.Machine
		events = append(events, res.Events...)
	}

	// 2. Spoilage pass.
	for i, m := range machines {
		res := RunSpoilage(m, e.catalog, t, e.cfg.Balance.DisposalCostPerExpiredItem)
		machines[i] = res.Machine
		events = append(events, res.Events...)
	}

	// 3. Movement pass, against the post-sales machine list.
	vehicles := make([]Vehicle, len(st.Vehicles))
	for i, v := range st.Vehicles {
		vehicles[i] = e.router.Step(v, machines)
	}

	// 4. Transfer pass.
	tr := RunTransfers(machines, vehicles, e.catalog, e.cfg.Balance.MachineCapacityMax, t)
	events = append(events, tr.Events...)

	// 5. Economy pass.
	penalty := ReputationPenalty(tr.Machines, e.cfg.Balance)
	fuel := FuelCost(tr.Vehicles, e.cfg.Balance.GasPricePerUnit)

	// 6. Advance the clock.
	next := State{
		Time:       e.clock.NextTick(t),
		Machines:   tr.Machines,
		Vehicles:   tr.Vehicles,
		Cash:       st.Cash - fuel,
		Reputation: ApplyReputation(st.Reputation, penalty),
	}
	return next, events
}

// Tick forces a single synchronous tick on the engine's own state. Safe to
// call with or without the cadence running.
func (e *Engine) Tick() {
	e.mu.Lock()
	next, events := e.step(e.state)
	e.state = next
	rec := e.recorder
	e.mu.Unlock()

	if rec != nil {
		rec.RecordTick(next, events)
	}
	e.publish(next)
}

// Start launches the real-time cadence. Idempotent: a running engine ignores
// further calls. The cadence stops when ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true
	interval := time.Duration(e.cfg.Sim.TickSeconds) * time.Second
	e.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.mu.Lock()
				paused := e.paused
				e.mu.Unlock()
				if paused {
					continue
				}
				e.Tick()
			}
		}
	}()
}

// Stop halts the cadence. Idempotent; after Stop returns no further tick
// will begin, and the last-produced snapshot stays intact.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
}

// Pause suspends ticking without tearing down the cadence. Idempotent.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

// Resume lifts a pause. Idempotent.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
}

// Paused reports whether the cadence is currently suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Snapshot returns a deep copy of the last tick-coherent state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Apply runs a mutation against the authoritative state between ticks. If fn
// returns an error the state is left untouched.
func (e *Engine) Apply(fn func(*State) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	working := e.state.Clone()
	if err := fn(&working); err != nil {
		return err
	}
	e.state = working
	return nil
}

// AddMachine merges a newly purchased machine into the snapshot.
func (e *Engine) AddMachine(m Machine) {
	_ = e.Apply(func(st *State) error {
		st.Machines = append(st.Machines, m)
		return nil
	})
}

// AddVehicle merges a newly purchased vehicle into the snapshot.
func (e *Engine) AddVehicle(v Vehicle) {
	_ = e.Apply(func(st *State) error {
		st.Vehicles = append(st.Vehicles, v)
		return nil
	})
}

// UpdateMachines replaces the machine list wholesale.
func (e *Engine) UpdateMachines(machines []Machine) {
	_ = e.Apply(func(st *State) error {
		st.Machines = machines
		return nil
	})
}

// UpdateVehicles replaces the vehicle list wholesale.
func (e *Engine) UpdateVehicles(vehicles []Vehicle) {
	_ = e.Apply(func(st *State) error {
		st.Vehicles = vehicles
		return nil
	})
}

// UpdateCash sets the wallet balance.
func (e *Engine) UpdateCash(amount float64) {
	_ = e.Apply(func(st *State) error {
		st.Cash = amount
		return nil
	})
}

// ReloadBalance swaps in freshly loaded balance values at a tick boundary
// (SIGHUP hot reload). The clock, roads and catalog stay fixed for the run.
func (e *Engine) ReloadBalance(b Balance) {
	e.mu.Lock()
	e.cfg.Balance = b
	e.mu.Unlock()
	log.Printf("ENGINE: balance reloaded")
}

// Subscribe registers an observer. The returned channel receives the full
// snapshot after every tick; the cancel func unregisters it. Slow observers
// miss snapshots rather than stalling the tick.
func (e *Engine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)
	e.subMu.Lock()
	e.subs[ch] = struct{}{}
	e.subMu.Unlock()

	cancel := func() {
		e.subMu.Lock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
		e.subMu.Unlock()
	}
	return ch, cancel
}

// publish fans a snapshot out to all subscribers without blocking.
func (e *Engine) publish(st State) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- st.Clone():
		default:
			// Subscriber is behind; drop this snapshot for them.
		}
	}
}
