package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Bag collects diagnostics from concurrent producers (one per unit).
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items возвращает копию диагностик.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Sort сортирует диагностики по: file, line, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Line != dj.Primary.Line {
			return di.Primary.Line < dj.Primary.Line
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary, d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
