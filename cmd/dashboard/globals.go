package main

import (
	"github.com/jmoiron/sqlx"
)

// Global carries the process-wide state shared by all handlers. The snapshot
// is built once before the listener starts and is read-only afterward.
type Global struct {
	log logger
	db  *sqlx.DB

	Site    string
	Company string
	Email   string

	snapshot *Snapshot
}

// Snapshot returns the immutable analysis snapshot built at startup.
func (g *Global) Snapshot() *Snapshot {
	return g.snapshot
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
