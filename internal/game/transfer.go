/*
Package game
File: transfer.go
Description:
    The restock transfer pass. Every vehicle that reached its stop this tick
    (status restocking) unloads into the destination machine, bounded by the
    machine's capacity, then moves on to its next stop.

    The one hard rule: a restocking vehicle ALWAYS leaves the restocking
    state in this pass. Full machine, empty truck, vanished destination -
    whatever happened, the route index advances and the vehicle reverts to
    traveling (or idle when the route is done). Nothing may park forever.
*/

package game

import "log"

// TransferResult is the outcome of the transfer pass over the whole fleet.
type TransferResult struct {
	Machines []Machine
	Vehicles []Vehicle
	Events   []Event
}

// RunTransfers processes every restocking vehicle against the machine list
// and returns the updated copies of both.
func RunTransfers(machines []Machine, vehicles []Vehicle, catalog *Catalog, capacityMax int, t GameTime) TransferResult {
	nextMachines := make([]Machine, len(machines))
	for i, m := range machines {
		nextMachines[i] = m.Clone()
	}
	nextVehicles := make([]Vehicle, len(vehicles))
	var events []Event

	for i, v := range vehicles {
		nv := v.Clone()
		if nv.Status != StatusRestocking {
			nextVehicles[i] = nv
			continue
		}

		dest := machineByID(nextMachines, nv.Destination())
		if dest == nil {
			// The machine disappeared between arrival and transfer. Skip the
			// stop; holding the vehicle here would break the progress rule.
			log.Printf("TRANSFER: vehicle %s stop %d has no machine %q, skipping stop",
				nv.ID, nv.RouteIndex, nv.Destination())
			advanceRoute(&nv)
			nextVehicles[i] = nv
			continue
		}

		moved := 0
		availableSpace := capacityMax - dest.TotalStock()
		if availableSpace > 0 && nv.TotalLoad() > 0 {
			// Greedy per-product transfer in catalog order until the machine
			// is full or the truck is empty. Remainder stays on the vehicle.
			for _, p := range catalog.Products() {
				if availableSpace == 0 {
					break
				}
				have := nv.Inventory[p.Key]
				if have == 0 {
					continue
				}
				qty := have
				if qty > availableSpace {
					qty = availableSpace
				}
				nv.Inventory[p.Key] -= qty
				if nv.Inventory[p.Key] == 0 {
					delete(nv.Inventory, p.Key)
				}
				dest.Inventory.Add(p.Key, qty, t.Day)
				availableSpace -= qty
				moved += qty
				events = append(events, Event{
					Tick:      t.Tick,
					Kind:      EventRestock,
					MachineID: dest.ID,
					VehicleID: nv.ID,
					Product:   p.Key,
					Qty:       qty,
				})
			}
		}

		if moved > 0 {
			dest.HoursSinceRestock = 0
		}
		advanceRoute(&nv)
		nextVehicles[i] = nv
	}

	return TransferResult{Machines: nextMachines, Vehicles: nextVehicles, Events: events}
}

// advanceRoute moves a vehicle past its current stop.
func advanceRoute(v *Vehicle) {
	v.RouteIndex++
	if v.RouteComplete() {
		v.Status = StatusIdle
	} else {
		v.Status = StatusTraveling
	}
}
