package filter

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ChipID identifies a categorical candidate. Persisted values may be JSON numbers
// (person, supplier ids) or strings (statuses, cost centers); both decode.
type ChipID string

func (id *ChipID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ChipID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ChipID(n.String())
	return nil
}

type Chip struct {
	ID       ChipID `json:"id"`
	Label    string `json:"label"`
	Tooltip  string `json:"tooltip,omitempty"`
	Selected bool   `json:"isSelected"`
}

// ChipDimension is a categorical filter dimension.
type ChipDimension struct {
	key   Key
	chips []Chip
}

func newChipDimension(key Key) *ChipDimension {
	return &ChipDimension{key: key}
}

func (d *ChipDimension) Key() Key { return d.key }

// setCandidates replaces the candidate list wholesale; prior selection is not carried over.
func (d *ChipDimension) setCandidates(items []Chip) {
	d.chips = append([]Chip(nil), items...)
}

func (d *ChipDimension) toggle(id ChipID) bool {
	for i := range d.chips {
		if d.chips[i].ID == id {
			d.chips[i].Selected = !d.chips[i].Selected
			return true
		}
	}
	return false
}

// setSelected ignores ids that are not candidates.
func (d *ChipDimension) setSelected(ids []ChipID, selected bool) {
	want := make(map[ChipID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range d.chips {
		if want[d.chips[i].ID] {
			d.chips[i].Selected = selected
		}
	}
}

func (d *ChipDimension) clear() {
	for i := range d.chips {
		d.chips[i].Selected = false
	}
}

func (d *ChipDimension) Candidates() []Chip {
	return append([]Chip(nil), d.chips...)
}

func (d *ChipDimension) selected() []Chip {
	out := []Chip{}
	for _, c := range d.chips {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

func (d *ChipDimension) allSelected(ids []ChipID) bool {
	sel := make(map[ChipID]bool, len(d.chips))
	for _, c := range d.chips {
		if c.Selected {
			sel[c.ID] = true
		}
	}
	for _, id := range ids {
		if !sel[id] {
			return false
		}
	}
	return true
}
