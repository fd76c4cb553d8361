package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/status"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(OrderSpec(decimal.Zero, decimal.NewFromInt(10000)), nil)
	require.NoError(t, m.SetCandidates(KeyStatuses, StatusChips(status.DefaultMetadata())))
	require.NoError(t, m.SetCandidates(KeyOwners, []Chip{
		{ID: "1", Label: "Ada"}, {ID: "2", Label: "Grace"}, {ID: "3", Label: "Linus"},
	}))
	require.NoError(t, m.SetCandidates(KeySuppliers, []Chip{
		{ID: "10", Label: "ACME"}, {ID: "11", Label: "Globex"},
	}))
	return m
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestModel_ToggleRecomputesAndNotifies(t *testing.T) {
	m := newTestModel(t)
	var got []ActiveFilters
	unsubscribe := m.Subscribe(func(af ActiveFilters) { got = append(got, af) })

	require.NoError(t, m.Toggle(KeyOwners, "1"))
	require.Len(t, got, 1)
	assert.Equal(t, []ChipID{"1"}, got[0].SelectedIDs(KeyOwners))
	assert.Equal(t, []ChipID{"1"}, m.Active().SelectedIDs(KeyOwners))

	require.NoError(t, m.Toggle(KeyOwners, "1"))
	assert.Empty(t, m.Active().SelectedIDs(KeyOwners))

	unsubscribe()
	require.NoError(t, m.Toggle(KeyOwners, "2"))
	assert.Len(t, got, 2)
}

func TestModel_SetCandidatesDropsSelection(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.SetSelected(KeyOwners, []ChipID{"1", "2"}, true))
	require.NoError(t, m.SetCandidates(KeyOwners, []Chip{{ID: "1", Label: "Ada"}, {ID: "4", Label: "Ken"}}))
	assert.Empty(t, m.Active().SelectedIDs(KeyOwners))
}

func TestModel_SetSelectedIgnoresUnknownIDs(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.SetSelected(KeySuppliers, []ChipID{"10", "99"}, true))
	assert.Equal(t, []ChipID{"10"}, m.Active().SelectedIDs(KeySuppliers))
}

func TestModel_UnknownDimension(t *testing.T) {
	m := newTestModel(t)
	err := m.Toggle("nope", "1")
	assert.True(t, errors.Is(err, ErrUnknownDimension))
	err = m.SetRange(KeyCreated, Range{})
	assert.True(t, errors.Is(err, ErrUnknownDimension))
}

func TestModel_SetRangeClampsToBounds(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.SetRange(KeyQuotePrice, Range{Start: dec(-5), End: dec(20000)}))
	r, ok := m.Active().Range(KeyQuotePrice)
	require.True(t, ok)
	assert.True(t, r.Start.Equal(dec(0)))
	assert.True(t, r.End.Equal(dec(10000)))
	assert.True(t, r.IsDefault())
}

func presetShapes() []Preset {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return []Preset{
		{Label: "chips", Assertions: []Assertion{{Key: KeyOwners, ChipIDs: []ChipID{"1", "3"}}}},
		{Label: "dates", Assertions: []Assertion{{Key: KeyCreated, DateRange: &DateRange{Start: &start, End: &end}}}},
		{Label: "range", Assertions: []Assertion{{Key: KeyQuotePrice, Range: &Range{Start: dec(100), End: dec(500)}}}},
	}
}

func TestModel_ApplyThenRemove(t *testing.T) {
	for _, p := range presetShapes() {
		t.Run(p.Label, func(t *testing.T) {
			m := newTestModel(t)
			m.Apply(p)
			assert.True(t, m.IsApplied(p))
			m.Remove(p)
			assert.False(t, m.IsApplied(p))
		})
	}
}

func TestModel_ApplyIsAdditive(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.Toggle(KeyOwners, "2"))
	p := Preset{Label: "p", Assertions: []Assertion{{Key: KeyOwners, ChipIDs: []ChipID{"1"}}}}
	m.Apply(p)
	assert.ElementsMatch(t, []ChipID{"1", "2"}, m.Active().SelectedIDs(KeyOwners))
	assert.True(t, m.IsApplied(p))
}

func TestModel_DisjointPresetsCommute(t *testing.T) {
	shapes := presetShapes()
	for i := range shapes {
		for j := range shapes {
			if i == j {
				continue
			}
			m := newTestModel(t)
			a, b := shapes[i], shapes[j]
			m.Apply(a)
			m.Apply(b)
			m.Remove(a)
			assert.True(t, m.IsApplied(b), "%s must survive removing %s", b.Label, a.Label)
			assert.False(t, m.IsApplied(a))
		}
	}
}

func TestModel_RemoveResetsRangeToBounds(t *testing.T) {
	m := newTestModel(t)
	p := Preset{Label: "r", Assertions: []Assertion{{Key: KeyQuotePrice, Range: &Range{Start: dec(100), End: dec(500)}}}}
	m.Apply(p)
	m.Remove(p)
	r, _ := m.Active().Range(KeyQuotePrice)
	assert.True(t, r.Start.Equal(dec(0)))
	assert.True(t, r.End.Equal(dec(10000)))
}

func TestModel_OutOfBoundsRangeIsAppliedAfterApply(t *testing.T) {
	m := newTestModel(t)
	p := Preset{Label: "big", Assertions: []Assertion{{Key: KeyQuotePrice, Range: &Range{Start: dec(5000), End: dec(20000)}}}}
	m.Apply(p)

	r, _ := m.Active().Range(KeyQuotePrice)
	assert.True(t, r.Start.Equal(dec(5000)))
	assert.True(t, r.End.Equal(dec(10000)))
	assert.True(t, m.IsApplied(p))

	m.Remove(p)
	assert.False(t, m.IsApplied(p))
}

func TestModel_PresetWithMissingCandidateIsNotApplied(t *testing.T) {
	m := newTestModel(t)
	p := Preset{Label: "mine", Assertions: []Assertion{{Key: KeyOwners, ChipIDs: []ChipID{"99"}}}}
	m.Apply(p)
	assert.Empty(t, m.Active().SelectedIDs(KeyOwners))
	assert.False(t, m.IsApplied(p))
}

func TestModel_UnknownAssertionIsSkipped(t *testing.T) {
	m := newTestModel(t)
	p := Preset{Label: "mixed", Assertions: []Assertion{
		{Key: "costUnits", ChipIDs: []ChipID{"x"}},
		{Key: KeySuppliers, ChipIDs: []ChipID{"11"}},
	}}
	m.Apply(p)
	assert.Equal(t, []ChipID{"11"}, m.Active().SelectedIDs(KeySuppliers))
	assert.True(t, m.IsApplied(p))
	m.Remove(p)
	assert.Empty(t, m.Active().SelectedIDs(KeySuppliers))
}

func TestPresetFromActive_RoundTrip(t *testing.T) {
	src := newTestModel(t)
	require.NoError(t, src.SetSelected(KeyStatuses, []ChipID{ChipID(status.StatusSent), ChipID(status.StatusSettled)}, true))
	require.NoError(t, src.Toggle(KeySuppliers, "10"))
	from := time.Date(2023, 2, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, src.SetDateRange(KeyLastUpdated, DateRange{Start: &from}))
	require.NoError(t, src.SetRange(KeyQuotePrice, Range{Start: dec(250), End: dec(9000)}))

	p := PresetFromActive("Round trip", src.Active())
	b, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded Preset
	require.NoError(t, json.Unmarshal(b, &decoded))

	dst := newTestModel(t)
	assert.False(t, dst.IsApplied(decoded))
	dst.Apply(decoded)
	assert.True(t, dst.IsApplied(decoded))
	assert.Len(t, decoded.Assertions, 4)
}

func TestPresetFromActive_SkipsUnconstrainedDimensions(t *testing.T) {
	p := PresetFromActive("empty", newTestModel(t).Active())
	assert.Empty(t, p.Assertions)
}

func TestModel_ResetClearsEverything(t *testing.T) {
	m := newTestModel(t)
	for _, p := range presetShapes() {
		m.Apply(p)
	}
	assert.False(t, m.Active().Empty())
	m.Reset()
	assert.True(t, m.Active().Empty())
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "my_orders", NormalizeLabel("My Orders"))
	assert.Equal(t, "high_value_q3", NormalizeLabel("  High value Q3 "))
	assert.Equal(t, "", NormalizeLabel("   "))
}

func TestBookingYearChips_NewestFirst(t *testing.T) {
	chips := BookingYearChips(2022, 2024)
	require.Len(t, chips, 3)
	assert.Equal(t, ChipID("2024"), chips[0].ID)
	assert.Equal(t, ChipID("2022"), chips[2].ID)
}
