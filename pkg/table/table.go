// Package table implements ember's open-addressing hash table: linear
// probing, tombstone deletion, and a 0.75 load-factor growth trigger,
// ported directly from original_source/table.c. The VM uses one Table for
// globals and another as the string interner, which is why this lives in
// its own package rather than as a method on *vm.VM: both consumers need
// identical probing semantics, in particular the sentinel behavior
// described in Set's doc comment below, which a plain Go map cannot
// reproduce.
package table

import "github.com/kristofer/ember/pkg/value"

const maxLoad = 0.75

type entry struct {
	key *value.ObjString
	val value.Value
	// tombstone marks a deleted slot. A tombstone's val has no meaning; an
	// empty slot and a tombstone both have a nil key and are only
	// distinguished by this flag, matching original_source/table.c's use of IS_NIL(entry->val) to mean
	// "this key slot has never held a real key" vs. a deleted one.
	tombstone bool
}

// Table is an open-addressing hash table keyed by interned strings.
type Table struct {
	count    int
	entries  []entry
	capacity int
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// Count returns the number of occupied slots: live keys plus any
// tombstones left by Delete since the table last grew.
func (t *Table) Count() int { return t.count }

func findEntry(entries []entry, capacity int, key *value.ObjString) int {
	i := int(key.Hash) % capacity
	tombstone := -1
	for {
		e := &entries[i]
		if e.key == nil {
			if !e.tombstone {
				if tombstone != -1 {
					return tombstone
				}
				return i
			}
			if tombstone == -1 {
				tombstone = i
			}
		} else if e.key == key {
			return i
		}
		i = (i + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)
	t.count = 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.key == nil {
			continue
		}
		dest := findEntry(entries, capacity, old.key)
		entries[dest].key = old.key
		entries[dest].val = old.val
		t.count++
	}
	t.entries = entries
	t.capacity = capacity
}

func growCapacity(c int) int {
	if c < 8 {
		return 8
	}
	return c * 2
}

// Get looks up key and reports whether it is present. On a miss it
// returns value.Nil and false.
func (t *Table) Get(key *value.ObjString) (value.Value, bool) {
	if t.count == 0 {
		return value.Nil, false
	}
	i := findEntry(t.entries, t.capacity, key)
	e := &t.entries[i]
	if e.key == nil {
		return value.Nil, false
	}
	return e.val, true
}

// Set inserts or overwrites key's value and reports whether key was newly
// added (true) or already present (false).
//
// This is the primitive the spec's SET_GLOBAL opcode relies on being able
// to tell "key was absent" from "key maps to the nil value", which is the
// precise distinction a Go map's `v, ok := m[k]` comma-ok form also gives
// — but SET_GLOBAL in particular needs it to distinguish "never defined"
// (runtime error: assigning an undefined global) from "defined, currently
// nil" (fine, overwrite), while the key itself may occupy a tombstoned
// slot from an prior Delete. A bare map's delete() leaves no tombstone to
// reason about, so it can't represent "this slot was deleted, not merely
// empty" for callers that need that (Table itself, via findEntry's probe
// sequence); Set and Get are built on that primitive so the rest of the
// VM can use the same comma-ok shape without caring about the tombstone
// machinery underneath.
func (t *Table) Set(key *value.ObjString, val value.Value) bool {
	if float64(t.count+1) > float64(t.capacity)*maxLoad {
		t.adjustCapacity(growCapacity(t.capacity))
	}
	i := findEntry(t.entries, t.capacity, key)
	e := &t.entries[i]
	isNewKey := e.key == nil
	if isNewKey && !e.tombstone {
		t.count++
	}
	e.key = key
	e.val = val
	e.tombstone = false
	return isNewKey
}

// Delete removes key, leaving a tombstone behind so later probes for
// other keys that collided with it still terminate correctly.
func (t *Table) Delete(key *value.ObjString) bool {
	if t.count == 0 {
		return false
	}
	i := findEntry(t.entries, t.capacity, key)
	e := &t.entries[i]
	if e.key == nil {
		return false
	}
	e.key = nil
	e.val = value.Value{}
	e.tombstone = true
	return true
}

// AddAll copies every live entry from t into dest.
func (t *Table) AddAll(dest *Table) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			dest.Set(e.key, e.val)
		}
	}
}

// FindString looks up an interned string by content rather than pointer,
// which is the whole reason interning can dedupe: before allocating a new
// ObjString, the VM checks here first.
func (t *Table) FindString(chars string, hash uint32) *value.ObjString {
	if t.count == 0 {
		return nil
	}
	i := int(hash) % t.capacity
	for {
		e := &t.entries[i]
		if e.key == nil {
			if !e.tombstone {
				return nil
			}
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		i = (i + 1) % t.capacity
	}
}
