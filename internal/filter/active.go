package filter

// ActiveFilters is a snapshot of every dimension's current selection.
// It is derived by the Model and never mutated in place by consumers.
type ActiveFilters struct {
	Chips  map[Key][]Chip     `json:"chips"`
	Dates  map[Key]DateRange  `json:"dates"`
	Ranges map[Key]RangeState `json:"ranges"`
}

func (a ActiveFilters) SelectedIDs(key Key) []ChipID {
	chips := a.Chips[key]
	if len(chips) == 0 {
		return nil
	}
	out := make([]ChipID, 0, len(chips))
	for _, c := range chips {
		out = append(out, c.ID)
	}
	return out
}

func (a ActiveFilters) Date(key Key) DateRange {
	return a.Dates[key]
}

func (a ActiveFilters) Range(key Key) (RangeState, bool) {
	r, ok := a.Ranges[key]
	return r, ok
}

// Empty reports whether nothing constrains the order list.
func (a ActiveFilters) Empty() bool {
	for _, c := range a.Chips {
		if len(c) > 0 {
			return false
		}
	}
	for _, d := range a.Dates {
		if !d.IsZero() {
			return false
		}
	}
	for _, r := range a.Ranges {
		if !r.IsDefault() {
			return false
		}
	}
	return true
}
