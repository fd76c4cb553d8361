package status

import (
	"errors"
	"sort"
	"time"
)

// ErrNotApplicable is returned by Future for orders whose status has no place on the
// linear progress display.
var ErrNotApplicable = errors.New("progress display not applicable")

const DefaultDateLayout = "02.01.2006"

// Step is one entry of the progress display.
type Step struct {
	Status      Status     `json:"status"`
	Label       string     `json:"label"`
	SubLabel    string     `json:"subLabel,omitempty"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// Progress is a fixed-width step list and the index of the order's current step.
// Current is -1 when the order's status is not part of the steps.
type Progress struct {
	Steps   []Step `json:"steps"`
	Current int    `json:"current"`
}

type Projector struct {
	Metadata   MetadataTable
	DateLayout string
	Location   *time.Location
}

func NewProjector(md MetadataTable) Projector {
	if md == nil {
		md = DefaultMetadata()
	}
	return Projector{Metadata: md, DateLayout: DefaultDateLayout, Location: time.Local}
}

// Future projects the canonical sequence starting at IN_PROGRESS and marks current.
func (p Projector) Future(g Graph, current Status) (Progress, error) {
	if current == StatusDeleted {
		return Progress{}, ErrNotApplicable
	}
	seq := ProjectLinearSequence(g, StatusInProgress)
	out := Progress{Steps: make([]Step, 0, len(seq)), Current: -1}
	for i, s := range seq {
		out.Steps = append(out.Steps, p.step(s, nil))
		if s == current {
			out.Current = i
		}
	}
	return out, nil
}

// WithHistory emits one step per history entry followed by the remaining canonical steps
// after current. History is sorted by timestamp unless a timestamp is missing, in which case
// the given order is kept.
func (p Projector) WithHistory(g Graph, current Status, history []HistoryEntry) Progress {
	entries := orderHistory(history)

	out := Progress{Steps: make([]Step, 0, len(entries)), Current: len(entries) - 1}
	for _, e := range entries {
		ts := e.Timestamp
		if ts.IsZero() {
			out.Steps = append(out.Steps, p.step(e.Status, nil))
			continue
		}
		out.Steps = append(out.Steps, p.step(e.Status, &ts))
	}

	if current == StatusDeleted {
		return out
	}
	for _, s := range futureAfter(g, current) {
		out.Steps = append(out.Steps, p.step(s, nil))
	}
	return out
}

func (p Projector) step(s Status, ts *time.Time) Step {
	md := p.Metadata.Lookup(s)
	st := Step{
		Status:      s,
		Label:       md.Label,
		Description: md.Description,
		Icon:        md.Icon,
		Timestamp:   ts,
	}
	if ts != nil {
		layout := p.DateLayout
		if layout == "" {
			layout = DefaultDateLayout
		}
		loc := p.Location
		if loc == nil {
			loc = time.Local
		}
		st.SubLabel = ts.In(loc).Format(layout)
	}
	return st
}

// futureAfter returns the canonical steps after current. Statuses off the canonical path
// (for example REJECTED) get the longest path continuing from themselves.
func futureAfter(g Graph, current Status) []Status {
	canonical := ProjectLinearSequence(g, StatusInProgress)
	for i, s := range canonical {
		if s == current {
			return canonical[i+1:]
		}
	}
	return ProjectLinearSequence(g, current)[1:]
}

func orderHistory(history []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(history))
	copy(out, history)
	for _, e := range out {
		if e.Timestamp.IsZero() {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
