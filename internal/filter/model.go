package filter

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Model holds every filter dimension and derives ActiveFilters after each mutation.
//
// Contract:
// - Every exported mutation recomputes the snapshot before returning.
// - Subscribers are called synchronously, in mutation order, with the new snapshot.
// - Subscribers must not call back into the Model.
type Model struct {
	log *zap.Logger

	mu     sync.Mutex
	order  []Key
	chips  map[Key]*ChipDimension
	dates  map[Key]*DateRangeDimension
	ranges map[Key]*RangeDimension

	active ActiveFilters
	subs   map[int]func(ActiveFilters)
	nextID int
}

func NewModel(spec Spec, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		log:    log,
		chips:  map[Key]*ChipDimension{},
		dates:  map[Key]*DateRangeDimension{},
		ranges: map[Key]*RangeDimension{},
		subs:   map[int]func(ActiveFilters){},
	}
	for _, k := range spec.Chips {
		m.chips[k] = newChipDimension(k)
		m.order = append(m.order, k)
	}
	for _, k := range spec.Dates {
		m.dates[k] = &DateRangeDimension{key: k}
		m.order = append(m.order, k)
	}
	for _, r := range spec.Ranges {
		m.ranges[r.Key] = newRangeDimension(r.Key, r.Min, r.Max)
		m.order = append(m.order, r.Key)
	}
	m.active = m.derive()
	return m
}

// Keys lists dimensions in declaration order.
func (m *Model) Keys() []Key {
	return append([]Key(nil), m.order...)
}

func (m *Model) Kind(key Key) (Kind, bool) {
	if _, ok := m.chips[key]; ok {
		return KindChips, true
	}
	if _, ok := m.dates[key]; ok {
		return KindDateRange, true
	}
	if _, ok := m.ranges[key]; ok {
		return KindRange, true
	}
	return 0, false
}

func (m *Model) Active() ActiveFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Candidates returns a copy of a chip dimension's candidate list.
func (m *Model) Candidates(key Key) ([]Chip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.chips[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, key)
	}
	return d.Candidates(), nil
}

// Subscribe registers fn and returns a function that removes it.
func (m *Model) Subscribe(fn func(ActiveFilters)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Model) SetCandidates(key Key, items []Chip) error {
	return m.mutate(func() error {
		d, ok := m.chips[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		d.setCandidates(items)
		return nil
	})
}

func (m *Model) Toggle(key Key, id ChipID) error {
	return m.mutate(func() error {
		d, ok := m.chips[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		d.toggle(id)
		return nil
	})
}

func (m *Model) SetSelected(key Key, ids []ChipID, selected bool) error {
	return m.mutate(func() error {
		d, ok := m.chips[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		d.setSelected(ids, selected)
		return nil
	})
}

func (m *Model) SetDateRange(key Key, r DateRange) error {
	return m.mutate(func() error {
		d, ok := m.dates[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		d.value = r
		return nil
	})
}

// SetRange clamps r into the dimension's configured bounds.
func (m *Model) SetRange(key Key, r Range) error {
	return m.mutate(func() error {
		d, ok := m.ranges[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, key)
		}
		d.set(r)
		return nil
	})
}

// Reset clears every selection and returns ranges to their bounds.
func (m *Model) Reset() {
	_ = m.mutate(func() error {
		for _, d := range m.chips {
			d.clear()
		}
		for _, d := range m.dates {
			d.value = DateRange{}
		}
		for _, d := range m.ranges {
			d.reset()
		}
		return nil
	})
}

// Apply merges p into the current selection.
func (m *Model) Apply(p Preset) {
	m.Reconcile(nil, []Preset{p})
}

// Remove retracts p's assertions.
func (m *Model) Remove(p Preset) {
	m.Reconcile([]Preset{p}, nil)
}

// Reconcile removes then applies presets as one mutation.
func (m *Model) Reconcile(remove, apply []Preset) {
	_ = m.mutate(func() error {
		for _, p := range remove {
			m.removeLocked(p)
		}
		for _, p := range apply {
			m.applyLocked(p)
		}
		return nil
	})
}

// IsApplied reports whether every assertion of p holds. Range assertions are compared
// after clamping to the dimension's bounds. Assertions on unknown dimensions are ignored.
func (m *Model) IsApplied(p Preset) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range p.Assertions {
		switch {
		case a.Range != nil:
			d, ok := m.ranges[a.Key]
			if ok && !d.value.Equal(d.clamped(*a.Range)) {
				return false
			}
		case a.DateRange != nil:
			d, ok := m.dates[a.Key]
			if ok && !d.value.Equal(*a.DateRange) {
				return false
			}
		default:
			d, ok := m.chips[a.Key]
			if ok && !d.allSelected(a.ChipIDs) {
				return false
			}
		}
	}
	return true
}

func (m *Model) applyLocked(p Preset) {
	for _, a := range p.Assertions {
		switch {
		case a.Range != nil:
			if d, ok := m.ranges[a.Key]; ok {
				d.set(*a.Range)
				continue
			}
		case a.DateRange != nil:
			if d, ok := m.dates[a.Key]; ok {
				d.value = *a.DateRange
				continue
			}
		default:
			if d, ok := m.chips[a.Key]; ok {
				d.setSelected(a.ChipIDs, true)
				continue
			}
		}
		m.log.Debug("preset assertion ignored", zap.String("preset", p.Label), zap.String("dimension", string(a.Key)))
	}
}

func (m *Model) removeLocked(p Preset) {
	for _, a := range p.Assertions {
		switch {
		case a.Range != nil:
			if d, ok := m.ranges[a.Key]; ok {
				d.reset()
			}
		case a.DateRange != nil:
			if d, ok := m.dates[a.Key]; ok {
				d.value = DateRange{}
			}
		default:
			if d, ok := m.chips[a.Key]; ok {
				d.setSelected(a.ChipIDs, false)
			}
		}
	}
}

func (m *Model) mutate(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	m.active = m.derive()
	for _, sub := range m.subs {
		sub(m.active)
	}
	return nil
}

func (m *Model) derive() ActiveFilters {
	af := ActiveFilters{
		Chips:  make(map[Key][]Chip, len(m.chips)),
		Dates:  make(map[Key]DateRange, len(m.dates)),
		Ranges: make(map[Key]RangeState, len(m.ranges)),
	}
	for k, d := range m.chips {
		af.Chips[k] = d.selected()
	}
	for k, d := range m.dates {
		af.Dates[k] = d.value
	}
	for k, d := range m.ranges {
		af.Ranges[k] = d.State()
	}
	return af
}
