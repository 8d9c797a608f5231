/*
Package ledger
File: sqlite.go
Description:
    An append-only SQLite index of simulation activity: one summary row per
    tick plus one row per sale/spoil/restock event, with the full snapshot
    stored as a zstd-compressed JSON blob for offline analysis.

    This is a secondary index for analytics and debugging, not save/load:
    the simulation never reads it back. Writes go through a single writer
    goroutine fed by a buffered channel so a slow disk can never stall a
    tick.
*/

package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/vendfleet/internal/game"
)

// SQLite is the ledger handle. Implements game.Recorder.
type SQLite struct {
	db  *sql.DB
	enc *zstd.Encoder

	ch   chan record
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type record struct {
	state  game.State
	events []game.Event
}

// Open creates (or reopens) the ledger database at path.
func Open(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty ledger path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{
		db:  db,
		enc: enc,
		// Sized for bursty ticks (many machines selling at once) without
		// stalling the engine.
		ch: make(chan record, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL is a fair
	// durability tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS ticks (
	tick        INTEGER PRIMARY KEY,
	day         INTEGER NOT NULL,
	hour        INTEGER NOT NULL,
	minute      INTEGER NOT NULL,
	cash        REAL    NOT NULL,
	reputation  INTEGER NOT NULL,
	machines    INTEGER NOT NULL,
	vehicles    INTEGER NOT NULL,
	detail_zst  BLOB
);
CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	tick        INTEGER NOT NULL,
	kind        TEXT    NOT NULL,
	machine_id  TEXT,
	vehicle_id  TEXT,
	product     TEXT,
	qty         INTEGER,
	amount      REAL
);
CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// RecordTick enqueues a completed tick. Never blocks: if the writer is
// behind, the tick's detail is dropped and a warning logged.
func (s *SQLite) RecordTick(st game.State, events []game.Event) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- record{state: st, events: events}:
	default:
		log.Printf("LEDGER: writer behind, dropping tick %d", st.Time.Tick)
	}
}

// Close drains pending writes and shuts the database down.
func (s *SQLite) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLite) loop() {
	for rec := range s.ch {
		if err := s.write(rec); err != nil {
			log.Printf("LEDGER: write tick %d: %v", rec.state.Time.Tick, err)
		}
	}
}

func (s *SQLite) write(rec record) error {
	detail, err := json.Marshal(rec.state)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}
	blob := s.enc.EncodeAll(detail, nil)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	t := rec.state.Time
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO ticks (tick, day, hour, minute, cash, reputation, machines, vehicles, detail_zst)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Tick, t.Day, t.Hour, t.Minute,
		rec.state.Cash, rec.state.Reputation,
		len(rec.state.Machines), len(rec.state.Vehicles), blob,
	); err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}

	for _, ev := range rec.events {
		if _, err := tx.Exec(
			`INSERT INTO events (tick, kind, machine_id, vehicle_id, product, qty, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.Tick, ev.Kind, ev.MachineID, ev.VehicleID, ev.Product, ev.Qty, ev.Amount,
		); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// EventCount returns the number of recorded events of one kind. Used by the
// admin surface and tests.
func (s *SQLite) EventCount(kind string) (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM events WHERE kind = ?`, kind)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
