package costcontrol

import (
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// NoRig labels sessions whose directory matched no known rig.
const NoRig = "(none)"

type bucket struct {
	cost     decimal.Decimal
	sessions int
}

// Tracker accumulates session costs by role and by rig for the run summary.
type Tracker struct {
	mu       sync.RWMutex
	total    decimal.Decimal
	sessions int
	byRole   map[string]*bucket
	byRig    map[string]*bucket
}

// NewTracker creates an empty cost tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byRole: make(map[string]*bucket),
		byRig:  make(map[string]*bucket),
	}
}

// Record adds one session's cost. An empty rig is counted under NoRig.
func (t *Tracker) Record(role, rig string, cost float64) {
	if rig == "" {
		rig = NoRig
	}
	d := decimal.NewFromFloat(cost)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = t.total.Add(d)
	t.sessions++
	addLocked(t.byRole, role, d)
	addLocked(t.byRig, rig, d)
}

func addLocked(m map[string]*bucket, key string, d decimal.Decimal) {
	b, ok := m[key]
	if !ok {
		b = &bucket{}
		m[key] = b
	}
	b.cost = b.cost.Add(d)
	b.sessions++
}

// Total returns the summed cost across all recorded sessions.
func (t *Tracker) Total() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total.InexactFloat64()
}

// Sessions returns the number of recorded sessions.
func (t *Tracker) Sessions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions
}

// ByRole returns per-role totals, most expensive first.
func (t *Tracker) ByRole() []Breakdown {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return snapshot(t.byRole)
}

// ByRig returns per-rig totals, most expensive first.
func (t *Tracker) ByRig() []Breakdown {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return snapshot(t.byRig)
}

func snapshot(m map[string]*bucket) []Breakdown {
	rows := lo.MapToSlice(m, func(name string, b *bucket) Breakdown {
		return Breakdown{Name: name, Cost: b.cost.InexactFloat64(), Sessions: b.sessions}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cost != rows[j].Cost {
			return rows[i].Cost > rows[j].Cost
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
