package inspect

import (
	"errors"
	"strings"
)

// ErrNoPending is returned when a value or name arrives with no
// declaration awaiting it.
var ErrNoPending = errors.New("no pending declaration")

// Record describes one quantity declared in the witness or formalization
// section of a transcript.
type Record struct {
	// Handle is the identifier as written in the transcript.
	Handle string
	// Type is the declared type (witness only).
	Type string
	// Accessor is the call that produced a witness value.
	Accessor string
	// Statement is the expression of a formalization declaration.
	Statement string
	// Value is set once the line carrying it has been seen.
	Value    string
	HasValue bool
	// Name is the display name; empty until resolved.
	Name string
}

// DisplayValue returns the value, or "null" when none was seen.
func (r *Record) DisplayValue() string {
	if !r.HasValue {
		return "null"
	}
	return r.Value
}

// VarTable accumulates declared quantities for a whole transcript, keyed
// by handle and iterated in first-insertion order. At most one record is
// pending (declared but not yet completed) at a time.
type VarTable struct {
	order   []string
	records map[string]*Record
	pending string
}

// NewVarTable returns an empty table.
func NewVarTable() *VarTable {
	return &VarTable{records: make(map[string]*Record)}
}

// Declare inserts rec, replacing any record with the same handle while
// keeping that handle's first position, and makes it the pending one.
func (t *VarTable) Declare(rec *Record) {
	if _, ok := t.records[rec.Handle]; !ok {
		t.order = append(t.order, rec.Handle)
	}
	t.records[rec.Handle] = rec
	t.pending = rec.Handle
}

// Get returns the record for handle.
func (t *VarTable) Get(handle string) (*Record, bool) {
	rec, ok := t.records[handle]
	return rec, ok
}

// Pending returns the record awaiting its value or name.
func (t *VarTable) Pending() (*Record, error) {
	if t.pending == "" {
		return nil, ErrNoPending
	}
	return t.records[t.pending], nil
}

// HasPending reports whether a declaration is awaiting completion.
func (t *VarTable) HasPending() bool {
	return t.pending != ""
}

// Settle clears the pending record.
func (t *VarTable) Settle() {
	t.pending = ""
}

// Len returns the number of distinct handles.
func (t *VarTable) Len() int {
	return len(t.order)
}

// Handles returns the handles in insertion order.
func (t *VarTable) Handles() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Substitute replaces every occurrence of each known handle in s with its
// display name, visiting handles in insertion order. Handles without a
// name are left as they are.
func (t *VarTable) Substitute(s string) string {
	for _, h := range t.order {
		rec := t.records[h]
		if rec.Name == "" || h == "" {
			continue
		}
		s = strings.ReplaceAll(s, h, rec.Name)
	}
	return s
}
