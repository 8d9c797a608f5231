/*
Package api
File: handlers.go
Description:
    HTTP handlers for the fleet controller: the layer between user intent
    and the simulation engine. It owns the warehouse, performs all pre-tick
    validation (funds, capacity, stock) and merges accepted intents into the
    engine state between ticks.

    Key responsibilities:
    - Input validation (schema check, does the entity exist, can we afford it)
    - State modification through engine.Apply (never mid-tick)
    - Rejecting an intent must leave every entity untouched
*/

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/everforgeworks/vendfleet/internal/game"
)

// Request DTOs. These structs define exactly what the client sends us.

type BuyMachineRequest struct {
	Name     string  `json:"name"`
	ZoneType string  `json:"zone_type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type BuyVehicleRequest struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type BuyStockRequest struct {
	Product string `json:"product"`
	Qty     int    `json:"qty"`
}

type LoadVehicleRequest struct {
	VehicleID string `json:"vehicle_id"`
	Product   string `json:"product"`
	Qty       int    `json:"qty"`
}

type AssignRouteRequest struct {
	VehicleID string   `json:"vehicle_id"`
	Route     []string `json:"route"`
}

// Controller wires the REST surface to the engine and owns the warehouse.
type Controller struct {
	engine *game.Engine

	mu        sync.Mutex
	warehouse map[string]int // product key -> units
}

// NewController builds the controller with an empty warehouse.
func NewController(engine *game.Engine) *Controller {
	return &Controller{
		engine:    engine,
		warehouse: make(map[string]int),
	}
}

// Register installs every route on the mux.
func (c *Controller) Register(mux *http.ServeMux, hub *Hub) {
	// Information endpoints
	mux.HandleFunc("/api/state", c.HandleGetState)
	mux.HandleFunc("/api/catalog", c.HandleGetCatalog)
	mux.HandleFunc("/api/warehouse", c.HandleGetWarehouse)

	// Intent endpoints
	mux.HandleFunc("/api/machines/buy", c.HandleBuyMachine)
	mux.HandleFunc("/api/vehicles/buy", c.HandleBuyVehicle)
	mux.HandleFunc("/api/stock/buy", c.HandleBuyStock)
	mux.HandleFunc("/api/vehicles/load", c.HandleLoadVehicle)
	mux.HandleFunc("/api/vehicles/route", c.HandleAssignRoute)

	// Cadence control
	mux.HandleFunc("/api/sim/pause", c.HandlePause)
	mux.HandleFunc("/api/sim/resume", c.HandleResume)

	// Real-time snapshot stream
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})
}

// readIntent slurps the body and validates it against the named schema.
func readIntent(r *http.Request, schemaName string, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if err := validateIntent(schemaName, body); err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// HandleGetState returns the last tick-coherent snapshot.
func (c *Controller) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.engine.Snapshot())
}

// HandleGetCatalog returns the product catalog.
func (c *Controller) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.engine.Catalog().Products())
}

// HandleGetWarehouse returns the warehouse stock levels.
func (c *Controller) HandleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.warehouse))
	for k, q := range c.warehouse {
		out[k] = q
	}
	writeJSON(w, out)
}

// HandleBuyMachine purchases a machine and places it at a grid position with
// a fresh zone of the requested archetype.
func (c *Controller) HandleBuyMachine(w http.ResponseWriter, r *http.Request) {
	var req BuyMachineRequest
	if err := readIntent(r, "buy_machine", &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := c.engine.Config()
	profile := cfg.ZoneProfileByType(req.ZoneType)
	if profile == nil {
		http.Error(w, "Unknown zone type", http.StatusNotFound)
		return
	}

	machine := game.NewMachine(req.Name, *profile, req.X, req.Y)
	price := cfg.Balance.MachineBasePrice

	err := c.engine.Apply(func(st *game.State) error {
		if st.Cash < price {
			return fmt.Errorf("insufficient funds: have %.2f, need %.2f", st.Cash, price)
		}
		st.Cash -= price
		st.Machines = append(st.Machines, machine)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusPaymentRequired)
		return
	}
	writeJSON(w, machine)
}

// HandleBuyVehicle purchases a vehicle at a grid position.
func (c *Controller) HandleBuyVehicle(w http.ResponseWriter, r *http.Request) {
	var req BuyVehicleRequest
	if err := readIntent(r, "buy_vehicle", &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vehicle := game.NewVehicle(req.Name, req.X, req.Y)
	price := c.engine.Config().Balance.VehicleBasePrice

	err := c.engine.Apply(func(st *game.State) error {
		if st.Cash < price {
			return fmt.Errorf("insufficient funds: have %.2f, need %.2f", st.Cash, price)
		}
		st.Cash -= price
		st.Vehicles = append(st.Vehicles, vehicle)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusPaymentRequired)
		return
	}
	writeJSON(w, vehicle)
}

// HandleBuyStock buys product into the warehouse at the wholesale price.
func (c *Controller) HandleBuyStock(w http.ResponseWriter, r *http.Request) {
	var req BuyStockRequest
	if err := readIntent(r, "buy_stock", &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := c.engine.Config()
	product := c.engine.Catalog().Get(req.Product)
	if product == nil {
		http.Error(w, "Unknown product", http.StatusNotFound)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 1. Capacity check against the whole warehouse.
	total := 0
	for _, q := range c.warehouse {
		total += q
	}
	if total+req.Qty > cfg.Balance.WarehouseCapacityMax {
		http.Error(w, "Warehouse is full", http.StatusConflict)
		return
	}

	// 2. Funds check + debit inside the engine boundary.
	cost := product.BasePrice * cfg.Balance.WholesalePriceFactor * float64(req.Qty)
	err := c.engine.Apply(func(st *game.State) error {
		if st.Cash < cost {
			return fmt.Errorf("insufficient funds: have %.2f, need %.2f", st.Cash, cost)
		}
		st.Cash -= cost
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusPaymentRequired)
		return
	}

	// 3. Credit the warehouse.
	c.warehouse[req.Product] += req.Qty
	writeJSON(w, map[string]interface{}{
		"product":   req.Product,
		"qty":       req.Qty,
		"cost":      cost,
		"warehouse": c.warehouse[req.Product],
	})
}

// HandleLoadVehicle moves stock from the warehouse onto a vehicle, bounded
// by the vehicle's capacity. Runs before the next tick; stock must be on the
// truck before the engine can deliver it.
func (c *Controller) HandleLoadVehicle(w http.ResponseWriter, r *http.Request) {
	var req LoadVehicleRequest
	if err := readIntent(r, "load_vehicle", &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := c.engine.Config()
	if !c.engine.Catalog().Has(req.Product) {
		http.Error(w, "Unknown product", http.StatusNotFound)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.warehouse[req.Product] < req.Qty {
		http.Error(w, "Insufficient warehouse stock", http.StatusConflict)
		return
	}

	err := c.engine.Apply(func(st *game.State) error {
		for i := range st.Vehicles {
			v := &st.Vehicles[i]
			if v.ID != req.VehicleID {
				continue
			}
			if v.TotalLoad()+req.Qty > cfg.Balance.VehicleCapacityMax {
				return fmt.Errorf("vehicle %s over capacity: %d + %d > %d",
					v.ID, v.TotalLoad(), req.Qty, cfg.Balance.VehicleCapacityMax)
			}
			v.Inventory[req.Product] += req.Qty
			return nil
		}
		return fmt.Errorf("vehicle %q not found", req.VehicleID)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	c.warehouse[req.Product] -= req.Qty
	if c.warehouse[req.Product] == 0 {
		delete(c.warehouse, req.Product)
	}
	writeJSON(w, map[string]interface{}{"vehicle_id": req.VehicleID, "product": req.Product, "qty": req.Qty})
}

// HandleAssignRoute replaces a vehicle's stop sequence. Every stop must name
// a machine that exists right now; the engine tolerates machines vanishing
// later, but accepting a route we already know is broken helps nobody.
func (c *Controller) HandleAssignRoute(w http.ResponseWriter, r *http.Request) {
	var req AssignRouteRequest
	if err := readIntent(r, "assign_route", &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := c.engine.Apply(func(st *game.State) error {
		for _, stop := range req.Route {
			if st.MachineByID(stop) == nil {
				return fmt.Errorf("route references unknown machine %q", stop)
			}
		}
		for i := range st.Vehicles {
			v := &st.Vehicles[i]
			if v.ID != req.VehicleID {
				continue
			}
			v.Route = append([]string(nil), req.Route...)
			v.RouteIndex = 0
			v.Status = game.StatusTraveling
			return nil
		}
		return fmt.Errorf("vehicle %q not found", req.VehicleID)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]interface{}{"vehicle_id": req.VehicleID, "stops": len(req.Route)})
}

// HandlePause suspends the tick cadence.
func (c *Controller) HandlePause(w http.ResponseWriter, r *http.Request) {
	c.engine.Pause()
	writeJSON(w, map[string]bool{"paused": true})
}

// HandleResume lifts a pause.
func (c *Controller) HandleResume(w http.ResponseWriter, r *http.Request) {
	c.engine.Resume()
	writeJSON(w, map[string]bool{"paused": false})
}
