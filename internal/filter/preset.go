package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"procurement/internal/status"
)

// Assertion is one per-dimension claim of a preset. Exactly one of ChipIDs, DateRange
// and Range is meaningful; a nil DateRange and Range means a chip assertion.
type Assertion struct {
	Key       Key        `json:"id"`
	ChipIDs   []ChipID   `json:"chipIds,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
	Range     *Range     `json:"range,omitempty"`
}

type Preset struct {
	Label      string      `json:"label"`
	Assertions []Assertion `json:"appliedFilters"`
	BuiltIn    bool        `json:"-"`
}

// Key is the normalized label presets are stored under.
func (p Preset) Key() string {
	return NormalizeLabel(p.Label)
}

// NormalizeLabel lower-cases a label and turns spaces into underscores.
// Examples:
// - "My Orders" -> "my_orders"
// - " Open  orders " -> "open__orders"
func NormalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	return strings.ReplaceAll(l, " ", "_")
}

// PresetFromActive captures af as a preset. Empty chip selections, unbounded date
// ranges and ranges at their default bounds carry no assertion.
func PresetFromActive(label string, af ActiveFilters) Preset {
	p := Preset{Label: label}

	for _, k := range sortedKeys(af.Chips) {
		ids := af.SelectedIDs(k)
		if len(ids) == 0 {
			continue
		}
		p.Assertions = append(p.Assertions, Assertion{Key: k, ChipIDs: ids})
	}
	for _, k := range sortedKeys(af.Dates) {
		d := af.Dates[k]
		if d.IsZero() {
			continue
		}
		p.Assertions = append(p.Assertions, Assertion{Key: k, DateRange: &d})
	}
	for _, k := range sortedKeys(af.Ranges) {
		r := af.Ranges[k]
		if r.IsDefault() {
			continue
		}
		rng := r.Range
		p.Assertions = append(p.Assertions, Assertion{Key: k, Range: &rng})
	}
	return p
}

func sortedKeys[V any](m map[Key]V) []Key {
	out := make([]Key, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuiltInOptions parameterizes the static presets.
type BuiltInOptions struct {
	UserID        ChipID
	Now           time.Time
	HighValueFrom decimal.Decimal
	QuotePriceMax decimal.Decimal
}

func BuiltInPresets(opts BuiltInOptions) []Preset {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := yearStart.AddDate(1, 0, 0).Add(-time.Millisecond)

	presets := []Preset{
		{
			Label: "Open orders",
			Assertions: []Assertion{{
				Key: KeyStatuses,
				ChipIDs: []ChipID{
					ChipID(status.StatusInProgress), ChipID(status.StatusCompleted),
					ChipID(status.StatusApprovalsReceived), ChipID(status.StatusApproved),
				},
			}},
		},
		{
			Label:      "Created this year",
			Assertions: []Assertion{{Key: KeyCreated, DateRange: &DateRange{Start: &yearStart, End: &yearEnd}}},
		},
		{
			Label:      "High value",
			Assertions: []Assertion{{Key: KeyQuotePrice, Range: &Range{Start: opts.HighValueFrom, End: opts.QuotePriceMax}}},
		},
	}
	if opts.UserID != "" {
		presets = append([]Preset{{
			Label:      "My orders",
			Assertions: []Assertion{{Key: KeyOwners, ChipIDs: []ChipID{opts.UserID}}},
		}}, presets...)
	}
	for i := range presets {
		presets[i].BuiltIn = true
	}
	return presets
}
