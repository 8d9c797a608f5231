package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/everforgeworks/vendfleet/internal/game"
)

func testEngine() *game.Engine {
	cfg := &game.Config{
		Sim: game.SimConfig{TicksPerHour: 6, HoursPerDay: 24, TickSeconds: 1, RNGSeed: 1},
		Balance: game.Balance{
			StartingCash:         500,
			StartingReputation:   1000,
			MachineCapacityMax:   100,
			VehicleCapacityMax:   50,
			WarehouseCapacityMax: 100,
			MachineBasePrice:     250,
			VehicleBasePrice:     400,
			WholesalePriceFactor: 0.5,
			GasPricePerUnit:      0.05,
		},
		Movement: game.Movement{ArrivalThreshold: 0.2, RoadEpsilon: 0.1, ParkingThreshold: 0.5, ApproachStep: 0.5},
		Roads:    game.RoadConfig{VerticalX: []float64{3}, HorizontalY: []float64{0}},
		Products: []game.Product{
			{Key: "item_cola", Name: "Cola", BaseDemand: 0.1, BasePrice: 1.50, ShelfLifeDays: 30},
		},
		Zones: []game.ZoneProfile{
			{Type: "office", TrafficMultiplier: 1.0},
		},
	}
	return game.NewEngine(cfg)
}

func post(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleBuyMachine(t *testing.T) {
	c := NewController(testEngine())

	rec := post(t, c.HandleBuyMachine, `{"name":"Lobby","zone_type":"office","x":3,"y":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	st := c.engine.Snapshot()
	if len(st.Machines) != 1 || st.Machines[0].Name != "Lobby" {
		t.Fatalf("machines = %+v", st.Machines)
	}
	if st.Cash != 250 {
		t.Fatalf("cash after purchase = %v, want 250", st.Cash)
	}
}

func TestHandleBuyMachineInsufficientFunds(t *testing.T) {
	c := NewController(testEngine())
	c.engine.UpdateCash(100)
	before := c.engine.Snapshot()

	rec := post(t, c.HandleBuyMachine, `{"name":"Lobby","zone_type":"office","x":3,"y":4}`)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}

	after := c.engine.Snapshot()
	if after.Cash != before.Cash || len(after.Machines) != 0 {
		t.Fatal("rejected purchase mutated the state")
	}
}

func TestHandleBuyMachineUnknownZone(t *testing.T) {
	c := NewController(testEngine())
	rec := post(t, c.HandleBuyMachine, `{"name":"Lobby","zone_type":"moonbase","x":0,"y":0}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleBuyMachineMalformedBody(t *testing.T) {
	c := NewController(testEngine())
	rec := post(t, c.HandleBuyMachine, `{"name":"Lobby"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBuyStock(t *testing.T) {
	c := NewController(testEngine())

	rec := post(t, c.HandleBuyStock, `{"product":"item_cola","qty":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	// 40 * 1.50 * 0.5 = 30 debited.
	if cash := c.engine.Snapshot().Cash; cash != 470 {
		t.Fatalf("cash = %v, want 470", cash)
	}
	if c.warehouse["item_cola"] != 40 {
		t.Fatalf("warehouse = %+v", c.warehouse)
	}
}

func TestHandleBuyStockWarehouseFull(t *testing.T) {
	c := NewController(testEngine())
	c.warehouse["item_cola"] = 90 // capacity 100

	rec := post(t, c.HandleBuyStock, `{"product":"item_cola","qty":20}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if c.warehouse["item_cola"] != 90 {
		t.Fatal("rejected purchase touched the warehouse")
	}
	if cash := c.engine.Snapshot().Cash; cash != 500 {
		t.Fatalf("rejected purchase debited cash: %v", cash)
	}
}

func TestHandleBuyStockUnknownProduct(t *testing.T) {
	c := NewController(testEngine())
	rec := post(t, c.HandleBuyStock, `{"product":"item_caviar","qty":5}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func testVehicle(id string) game.Vehicle {
	return game.Vehicle{
		ID: id, Name: id,
		Status:    game.StatusIdle,
		Inventory: make(map[string]int),
	}
}

func TestHandleLoadVehicle(t *testing.T) {
	c := NewController(testEngine())
	c.engine.AddVehicle(testVehicle("v1"))
	c.warehouse["item_cola"] = 30

	rec := post(t, c.HandleLoadVehicle, `{"vehicle_id":"v1","product":"item_cola","qty":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if _, ok := c.warehouse["item_cola"]; ok {
		t.Fatal("drained product should be deleted from the warehouse")
	}
	st := c.engine.Snapshot()
	if got := st.Vehicles[0].Inventory["item_cola"]; got != 30 {
		t.Fatalf("vehicle load = %d, want 30", got)
	}
}

func TestHandleLoadVehicleOverCapacity(t *testing.T) {
	c := NewController(testEngine())
	v := testVehicle("v1")
	v.Inventory["item_cola"] = 45 // capacity 50
	c.engine.AddVehicle(v)
	c.warehouse["item_cola"] = 30

	rec := post(t, c.HandleLoadVehicle, `{"vehicle_id":"v1","product":"item_cola","qty":10}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if c.warehouse["item_cola"] != 30 {
		t.Fatal("rejected load touched the warehouse")
	}
	if got := c.engine.Snapshot().Vehicles[0].Inventory["item_cola"]; got != 45 {
		t.Fatalf("rejected load touched the vehicle: %d", got)
	}
}

func TestHandleLoadVehicleInsufficientWarehouse(t *testing.T) {
	c := NewController(testEngine())
	c.engine.AddVehicle(testVehicle("v1"))
	c.warehouse["item_cola"] = 5

	rec := post(t, c.HandleLoadVehicle, `{"vehicle_id":"v1","product":"item_cola","qty":10}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandleAssignRoute(t *testing.T) {
	c := NewController(testEngine())

	m := game.Machine{ID: "m1", Name: "Lobby", Condition: game.ConditionOK, Inventory: make(game.Stock)}
	c.engine.AddMachine(m)
	v := testVehicle("v1")
	v.Route = []string{"m-old"}
	v.RouteIndex = 1
	c.engine.AddVehicle(v)

	rec := post(t, c.HandleAssignRoute, `{"vehicle_id":"v1","route":["m1"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got := c.engine.Snapshot().Vehicles[0]
	if len(got.Route) != 1 || got.Route[0] != "m1" {
		t.Fatalf("route = %v", got.Route)
	}
	if got.RouteIndex != 0 {
		t.Fatalf("route index = %d, want 0", got.RouteIndex)
	}
	if got.Status != game.StatusTraveling {
		t.Fatalf("status = %s, want traveling", got.Status)
	}
}

func TestHandleAssignRouteUnknownMachine(t *testing.T) {
	c := NewController(testEngine())
	v := testVehicle("v1")
	v.Route = []string{"m-old"}
	c.engine.AddVehicle(v)

	rec := post(t, c.HandleAssignRoute, `{"vehicle_id":"v1","route":["m-gone"]}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := c.engine.Snapshot().Vehicles[0].Route[0]; got != "m-old" {
		t.Fatalf("rejected route replaced the old one: %v", got)
	}
}

func TestHandleGetState(t *testing.T) {
	c := NewController(testEngine())

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	c.HandleGetState(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var st game.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("state payload is not valid JSON: %v", err)
	}
	if st.Cash != 500 {
		t.Fatalf("cash = %v, want 500", st.Cash)
	}
}

func TestHandleGetCatalog(t *testing.T) {
	c := NewController(testEngine())

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	c.HandleGetCatalog(rec, req)

	var products []game.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("catalog payload: %v", err)
	}
	if len(products) != 1 || products[0].Key != "item_cola" {
		t.Fatalf("catalog = %+v", products)
	}
}

func TestHandlePauseResume(t *testing.T) {
	c := NewController(testEngine())

	post(t, c.HandlePause, "")
	if !c.engine.Paused() {
		t.Fatal("pause endpoint did not pause the engine")
	}
	post(t, c.HandleResume, "")
	if c.engine.Paused() {
		t.Fatal("resume endpoint did not resume the engine")
	}
}
