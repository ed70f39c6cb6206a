// Package display is the in-process page the dashboard paints into: a set of
// named targets holding text, a width, a style, list items or a chart drawing.
package display

import (
	"sync"
)

// Target identifiers used by the dashboard page
const (
	CurrentDate        = "currentDate"
	PeriodSelect       = "periodSelect"
	SolarProd          = "solarProd"
	TotalCons          = "totalCons"
	CostSave           = "costSave"
	CO2Offset          = "co2Offset"
	EnergyBalanceChart = "energyBalanceChart"
	ConsumptionChart   = "consumptionChart"
	BatteryLevel       = "batteryLevel"
	BatteryText        = "batteryText"
	EVPower            = "evPower"
	EVTimeEstimate     = "evTimeEstimate"
	EVCost             = "evCost"
	EVStatusBadge      = "evStatusBadge"
	InsightsList       = "insightsList"
)

// DefaultLayout lists every target of the full dashboard page in display order
var DefaultLayout = []string{
	CurrentDate,
	PeriodSelect,
	SolarProd,
	TotalCons,
	CostSave,
	CO2Offset,
	EnergyBalanceChart,
	ConsumptionChart,
	BatteryLevel,
	BatteryText,
	EVPower,
	EVTimeEstimate,
	EVCost,
	EVStatusBadge,
	InsightsList,
}

// Layout returns DefaultLayout without the omitted targets
func Layout(omit []string) []string {
	skip := make(map[string]bool, len(omit))
	for _, id := range omit {
		skip[id] = true
	}

	ids := make([]string, 0, len(DefaultLayout))
	for _, id := range DefaultLayout {
		if !skip[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Page holds the display targets. Writers are expected to be a single render
// loop; the lock exists so views can read consistent copies concurrently.
type Page struct {
	mu       sync.RWMutex
	elements map[string]*Element
	order    []string
	version  uint64
	onChange func()
}

// NewPage creates a page containing exactly the given targets
func NewPage(ids ...string) *Page {
	p := &Page{
		elements: make(map[string]*Element, len(ids)),
	}
	for _, id := range ids {
		if _, exists := p.elements[id]; exists {
			continue
		}
		p.elements[id] = &Element{id: id, page: p}
		p.order = append(p.order, id)
	}
	return p
}

// Lookup returns the target with the given id, if the page has one
func (p *Page) Lookup(id string) (*Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok := p.elements[id]
	return el, ok
}

// Has reports whether the page contains the target
func (p *Page) Has(id string) bool {
	_, ok := p.Lookup(id)
	return ok
}

// IDs returns the target ids in layout order
func (p *Page) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]string(nil), p.order...)
}

// Version increases on every mutation
func (p *Page) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.version
}

// OnChange registers the single listener notified by Notify
func (p *Page) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Notify tells the listener that a render finished
func (p *Page) Notify() {
	p.mu.RLock()
	fn := p.onChange
	p.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// Snapshot copies the state of every target
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		Version:  p.version,
		Order:    append([]string(nil), p.order...),
		Elements: make(map[string]State, len(p.elements)),
	}
	for id, el := range p.elements {
		snap.Elements[id] = el.state()
	}
	return snap
}

// Snapshot is a point-in-time copy of a page
type Snapshot struct {
	Version  uint64           `json:"version"`
	Order    []string         `json:"order"`
	Elements map[string]State `json:"elements"`
}

// Get returns the state of a target and whether the page has it
func (s Snapshot) Get(id string) (State, bool) {
	st, ok := s.Elements[id]
	return st, ok
}

// Text returns the text of a target, or "" when absent
func (s Snapshot) Text(id string) string {
	return s.Elements[id].Text
}
