package filter

import (
	"bytes"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DateRange bounds are inclusive instants; nil means unbounded.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

func (r DateRange) Equal(o DateRange) bool {
	return equalInstant(r.Start, o.Start) && equalInstant(r.End, o.End)
}

func equalInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// UnmarshalJSON accepts RFC 3339 strings, plain dates, epoch milliseconds and null.
// Unparseable bounds decode as unbounded instead of failing the whole value.
func (r *DateRange) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start json.RawMessage `json:"start"`
		End   json.RawMessage `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Start = parseInstant(raw.Start)
	r.End = parseInstant(raw.End)
	return nil
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseInstant(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		for _, layout := range instantLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

type DateRangeDimension struct {
	key   Key
	value DateRange
}

func (d *DateRangeDimension) Key() Key         { return d.key }
func (d *DateRangeDimension) Value() DateRange { return d.value }

// Range is a closed numeric interval.
type Range struct {
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
}

func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// RangeState is a range together with the bounds it is clamped to.
type RangeState struct {
	Range
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Lower returns the start bound when it constrains the range.
func (r RangeState) Lower() (decimal.Decimal, bool) {
	return r.Start, r.Start.GreaterThan(r.Min)
}

// Upper returns the end bound when it constrains the range.
func (r RangeState) Upper() (decimal.Decimal, bool) {
	return r.End, r.End.LessThan(r.Max)
}

func (r RangeState) IsDefault() bool {
	return r.Start.Equal(r.Min) && r.End.Equal(r.Max)
}

type RangeDimension struct {
	key      Key
	min, max decimal.Decimal
	value    Range
}

func newRangeDimension(key Key, min, max decimal.Decimal) *RangeDimension {
	if max.LessThan(min) {
		min, max = max, min
	}
	return &RangeDimension{key: key, min: min, max: max, value: Range{Start: min, End: max}}
}

func (d *RangeDimension) Key() Key { return d.key }

func (d *RangeDimension) set(r Range) {
	d.value = d.clamped(r)
}

// clamped is r as set would store it.
func (d *RangeDimension) clamped(r Range) Range {
	return Range{Start: d.clamp(r.Start), End: d.clamp(r.End)}
}

func (d *RangeDimension) reset() {
	d.value = Range{Start: d.min, End: d.max}
}

func (d *RangeDimension) clamp(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(d.min) {
		return d.min
	}
	if v.GreaterThan(d.max) {
		return d.max
	}
	return v
}

func (d *RangeDimension) State() RangeState {
	return RangeState{Range: d.value, Min: d.min, Max: d.max}
}
