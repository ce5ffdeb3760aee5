package source

import (
	"slices"
	"sync"
)

type StringID uint32

const NoStringID StringID = 0

// Interner maps equal strings to one StringID. Safe for concurrent use, so
// independent generation runs may share a single instance.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, adding it when seen for the first time.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// own copy so the caller's buffer can be reused
	cpy := string([]byte(s))
	id = StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id was produced by this interner.
func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all strings in id order.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
