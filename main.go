/*
Package main
File: main.go
Description: Server entry point. Loads the world configuration, boots the
simulation engine and the real-time WebSocket hub, wires the REST intent
surface, and runs until interrupted.
*/

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/everforgeworks/vendfleet/internal/api"
	"github.com/everforgeworks/vendfleet/internal/game"
	"github.com/everforgeworks/vendfleet/internal/persistence/ledger"
)

func main() {
	worldPath := flag.String("world", "world.yaml", "path to the world configuration")
	ledgerPath := flag.String("ledger", "data/ledger.db", "path to the tick ledger database ('' disables)")
	addr := flag.String("addr", ":8081", "listen address")
	flag.Parse()

	// 1. Load the world configuration
	cfg, err := game.LoadConfig(*worldPath)
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Open the tick ledger (optional)
	var opts []game.Option
	if *ledgerPath != "" {
		led, err := ledger.Open(*ledgerPath)
		if err != nil {
			log.Fatalf("Ledger Fail: %v", err)
		}
		defer led.Close()
		opts = append(opts, game.WithRecorder(led))
	}

	// 3. Build the engine and start the cadence
	engine := game.NewEngine(cfg, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)
	defer engine.Stop()

	// 4. Real-time hub: every tick's snapshot goes to every observer
	hub := api.NewHub()
	go hub.Run()

	snapshots, unsubscribe := engine.Subscribe()
	defer unsubscribe()
	go func() {
		for st := range snapshots {
			hub.BroadcastSnapshot(st)
		}
	}()

	// 5. Hot-reload: SIGHUP refreshes balance values without a restart
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for range sigChan {
			log.Println("SIGNAL: Reloading balance...")
			fresh, err := game.LoadConfig(*worldPath)
			if err != nil {
				log.Printf("Reload failed, keeping current balance: %v", err)
				continue
			}
			engine.ReloadBalance(fresh.Balance)
			hub.BroadcastNotice("balance_reloaded", fresh.Balance)
		}
	}()

	// 6. REST surface
	mux := http.NewServeMux()
	controller := api.NewController(engine)
	controller.Register(mux, hub)

	log.Printf("VENDFLEET Server live on %s", *addr)
	log.Printf("World: %s | Tick: every %ds | Machines: %d | Vehicles: %d",
		*worldPath, cfg.Sim.TickSeconds, len(cfg.Start.Machines), len(cfg.Start.Vehicles))

	if err := http.ListenAndServe(*addr, corsMiddleware(mux)); err != nil {
		log.Fatal(err)
	}
}

// corsMiddleware lets the desktop client talk to the server across domains.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
