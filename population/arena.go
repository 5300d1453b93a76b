package population

import "github.com/pthm-cable/evogrid/components"

// AncestorRecord is an archived parent: its identity and heritable state at
// the end of its generation.
type AncestorRecord struct {
	Generation int
	Slot       int
	Genome     components.Genome
	Fitness    float64
	// Parent is the record's own first-parent ancestor, -1 for founders.
	Parent components.AncestorID
}

type arenaKey struct {
	generation int
	slot       int
}

// Arena archives parents by generation and slot so lineages can refer to
// them by index instead of holding whole ancestor graphs.
type Arena struct {
	records []AncestorRecord
	index   map[arenaKey]components.AncestorID
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{index: make(map[arenaKey]components.AncestorID)}
}

// Archive records the member once and returns its ID. Archiving the same
// generation and slot again returns the existing ID.
func (a *Arena) Archive(m Member) components.AncestorID {
	key := arenaKey{generation: m.Lineage.Generation, slot: m.Lineage.Slot}
	if id, ok := a.index[key]; ok {
		return id
	}

	parent := components.AncestorID(-1)
	if n := len(m.Lineage.Ancestors); n > 0 {
		parent = m.Lineage.Ancestors[n-1]
	}

	id := components.AncestorID(len(a.records))
	a.records = append(a.records, AncestorRecord{
		Generation: m.Lineage.Generation,
		Slot:       m.Lineage.Slot,
		Genome:     *m.Genome,
		Fitness:    m.Vitals.Fitness,
		Parent:     parent,
	})
	a.index[key] = id
	return id
}

// Get returns the record for an ID.
func (a *Arena) Get(id components.AncestorID) (AncestorRecord, bool) {
	if id < 0 || int(id) >= len(a.records) {
		return AncestorRecord{}, false
	}
	return a.records[id], true
}

// Lookup finds the ID archived for a generation and slot.
func (a *Arena) Lookup(generation, slot int) (components.AncestorID, bool) {
	id, ok := a.index[arenaKey{generation: generation, slot: slot}]
	return id, ok
}

// Len returns the number of archived records.
func (a *Arena) Len() int {
	return len(a.records)
}

// Chain resolves a lineage into records, oldest first. Unknown IDs are skipped.
func (a *Arena) Chain(l components.Lineage) []AncestorRecord {
	chain := make([]AncestorRecord, 0, len(l.Ancestors))
	for _, id := range l.Ancestors {
		if r, ok := a.Get(id); ok {
			chain = append(chain, r)
		}
	}
	return chain
}
