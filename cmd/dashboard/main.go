// dashboard serves the interactive immune-cell analysis views over the store
// produced by loadcounts: a filterable frequency table, the responder
// comparison with Welch's t-test results, and the baseline subset summaries.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/carbocation/pfx"

	"github.com/loblawbio/cellscope/countdb"
)

var global *Global

// Config defaults come from the environment; flags override.
type Config struct {
	DB   string `env:"CELLSCOPE_DB" envDefault:"cell_data.db"`
	Port int    `env:"CELLSCOPE_PORT" envDefault:"8050"`
}

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		syscall.SIGTERM,
	)

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	dbPath := flag.String("db", cfg.DB, "Path to the sqlite database produced by loadcounts.")
	port := flag.Int("port", cfg.Port, "Port for HTTP server")
	flag.Parse()

	// Analysis assumes ingestion has already succeeded
	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatalln(pfx.Err(fmt.Errorf("store %s is not readable (run loadcounts first): %w", *dbPath, err)))
	}

	db, err := countdb.Open(*dbPath)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	defer db.Close()

	log.Println("Loading analysis snapshot from", *dbPath)
	snapshot, err := BuildSnapshot(db)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	log.Printf("Snapshot ready: %d frequency records, %d cohort records, %d baseline samples\n",
		len(snapshot.Frequency), len(snapshot.Cohort), snapshot.Baseline.Samples)

	global = &Global{
		Site:    "Loblaw Bio",
		Company: "Loblaw Bio",
		Email:   "data@loblawbio.example",
		log:     log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		db:      db,

		snapshot: snapshot,
	}

	global.log.Println("Launching", global.Site, "dashboard")

	handler, err := router(global)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	go func() {
		global.log.Println("Starting HTTP server on port", *port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, *port), handler); err != nil {
			errors <- err
		}
	}()

	select {
	case err := <-errors:
		global.log.Println("Exiting due to error:", err)
	case s := <-sig:
		global.log.Println("Exiting due to signal:", s)
	}
}
