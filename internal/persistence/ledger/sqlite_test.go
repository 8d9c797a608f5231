package ledger

import (
	"path/filepath"
	"testing"

	"github.com/everforgeworks/vendfleet/internal/game"
)

func testState(tick int) game.State {
	return game.State{
		Time:       game.GameTime{Day: 1, Hour: 9, Minute: 0, Tick: tick},
		Cash:       500,
		Reputation: 1000,
	}
}

func TestLedgerRecordAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "ledger.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	s.RecordTick(testState(1), []game.Event{
		{Tick: 1, Kind: game.EventSale, MachineID: "m1", Product: "item_cola", Qty: 1, Amount: 1.50},
		{Tick: 1, Kind: game.EventSale, MachineID: "m1", Product: "item_chips", Qty: 1, Amount: 2.00},
	})
	s.RecordTick(testState(2), []game.Event{
		{Tick: 2, Kind: game.EventRestock, MachineID: "m1", VehicleID: "v1", Product: "item_cola", Qty: 10},
	})

	// Close drains the writer queue before shutting the database down.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	sales, err := reopened.EventCount(game.EventSale)
	if err != nil {
		t.Fatalf("EventCount: %v", err)
	}
	if sales != 2 {
		t.Fatalf("sale events = %d, want 2", sales)
	}
	restocks, err := reopened.EventCount(game.EventRestock)
	if err != nil {
		t.Fatal(err)
	}
	if restocks != 1 {
		t.Fatalf("restock events = %d, want 1", restocks)
	}

	var ticks int
	if err := reopened.db.QueryRow(`SELECT COUNT(*) FROM ticks`).Scan(&ticks); err != nil {
		t.Fatal(err)
	}
	if ticks != 2 {
		t.Fatalf("tick rows = %d, want 2", ticks)
	}

	var blob []byte
	if err := reopened.db.QueryRow(`SELECT detail_zst FROM ticks WHERE tick = 1`).Scan(&blob); err != nil {
		t.Fatal(err)
	}
	if len(blob) == 0 {
		t.Fatal("tick row carries no detail blob")
	}
}

func TestLedgerSameTickOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	st := testState(7)
	s.RecordTick(st, nil)
	st.Cash = 123
	s.RecordTick(st, nil)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	var n int
	if err := reopened.db.QueryRow(`SELECT COUNT(*) FROM ticks WHERE tick = 7`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("replayed tick left %d rows, want 1", n)
	}
	var cash float64
	if err := reopened.db.QueryRow(`SELECT cash FROM ticks WHERE tick = 7`).Scan(&cash); err != nil {
		t.Fatal(err)
	}
	if cash != 123 {
		t.Fatalf("replayed tick cash = %v, want the later value 123", cash)
	}
}

func TestLedgerClosedHandleIgnoresWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Must not panic on the closed channel, and a second Close is a no-op.
	s.RecordTick(testState(1), nil)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLedgerRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open(\"\") should fail")
	}
}
