// Package dataset loads the menu nutrition CSV into an immutable in-memory
// table. The table is built exactly once at process start and is shared
// read-only by all request handlers; no row is ever mutated after load, so
// concurrent readers need no locking.
package dataset

import "github.com/google/uuid"

// Table is the immutable collection of MenuItem records produced by Load.
type Table struct {
	id   uuid.UUID
	rows []MenuItem
}

// NewTable builds a table directly from records, assigning a fresh snapshot
// ID. Load is the production path; this exists for fixtures and tooling.
func NewTable(rows []MenuItem) *Table {
	return &Table{id: uuid.New(), rows: rows}
}

// ID returns the snapshot identifier assigned at load. It changes on every
// restart and lets clients detect that the backing dataset was swapped.
func (t *Table) ID() uuid.UUID {
	return t.id
}

// Rows returns the loaded records. Callers must treat the slice as read-only.
func (t *Table) Rows() []MenuItem {
	return t.rows
}

// Len returns the number of loaded records.
func (t *Table) Len() int {
	return len(t.rows)
}
