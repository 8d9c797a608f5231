/*
Package game
File: machine.go
Description:
    The per-machine tick passes: probabilistic sales and spoilage.

    Both passes clone the machine they are given and return the mutated copy;
    the engine assembles the results into the next snapshot. No cross-machine
    effects: each machine's outcome depends only on its own state, the clock
    and the RNG stream.
*/

package game

import "math/rand"

// SaleResult is the outcome of running the sales pass on one machine.
type SaleResult struct {
	Machine Machine
	Events  []Event
}

// RunSales advances one machine through one tick of sales.
//
// A broken or empty machine sells nothing; it only accrues its
// hours-since-restock counter (the basis for the empty-machine reputation
// penalty). Otherwise every catalog product gets one independent uniform
// draw against its sale probability. Draws happen in catalog declaration
// order so a seeded run replays identically.
func RunSales(m Machine, catalog *Catalog, t GameTime, clock Clock, rng *rand.Rand) SaleResult {
	next := m.Clone()

	if next.Condition == ConditionBroken || next.IsEmpty() {
		next.HoursSinceRestock += float64(clock.TickMinutes()) / 60.0
		return SaleResult{Machine: next}
	}

	var events []Event
	for _, p := range catalog.Products() {
		if next.Inventory.Quantity(p.Key) == 0 {
			continue
		}
		if rng.Float64() >= SaleProbability(p, next.Zone, t.Hour) {
			continue
		}
		sold := next.Inventory.Remove(p.Key, 1)
		if sold == 0 {
			continue
		}
		next.CurrentCash += p.BasePrice
		next.TotalSales++
		events = append(events, Event{
			Tick:      t.Tick,
			Kind:      EventSale,
			MachineID: next.ID,
			Product:   p.Key,
			Qty:       1,
			Amount:    p.BasePrice,
		})
	}
	return SaleResult{Machine: next, Events: events}
}

// RunSpoilage removes every lot that has reached its shelf life on the
// current day and debits the disposal cost per spoiled unit. Always applied,
// broken machines included.
func RunSpoilage(m Machine, catalog *Catalog, t GameTime, disposalCostPerItem float64) SaleResult {
	next := m.Clone()

	var events []Event
	for _, it := range next.Inventory.Expired(catalog, t.Day) {
		delete(next.Inventory, it.Product)
		cost := disposalCostPerItem * float64(it.Quantity)
		next.CurrentCash -= cost
		events = append(events, Event{
			Tick:      t.Tick,
			Kind:      EventSpoil,
			MachineID: next.ID,
			Product:   it.Product,
			Qty:       it.Quantity,
			Amount:    -cost,
		})
	}
	return SaleResult{Machine: next, Events: events}
}
