// Package query turns the board's pagination, sort, filter and search state into
// the descriptor sent to the order service.
package query

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
	// None clears sorting.
	None Direction = ""
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc, None:
		return d, nil
	default:
		return None, fmt.Errorf("invalid sort direction: %q", s)
	}
}

type SortKey struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// SortState is an ordered sort list; earlier entries take priority.
// Each field appears at most once.
type SortState []SortKey

// With returns the state after the user sets field to dir. An existing entry keeps
// its position. None clears the entire list.
func (s SortState) With(field string, dir Direction) SortState {
	if dir == None {
		return nil
	}
	out := make(SortState, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Field == field {
			out[i].Direction = dir
			return out
		}
	}
	return append(out, SortKey{Field: field, Direction: dir})
}

func (s SortState) Direction(field string) Direction {
	for _, k := range s {
		if k.Field == field {
			return k.Direction
		}
	}
	return None
}

// Params renders the state as remote "field,direction" tokens.
func (s SortState) Params() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for _, k := range s {
		out = append(out, ToRemoteField(k.Field)+","+string(k.Direction))
	}
	return out
}

// ParseSortParams reads remote "field,direction" tokens back into internal casing.
// Malformed tokens are skipped; a missing direction means ascending.
func ParseSortParams(tokens []string) SortState {
	var out SortState
	for _, tok := range tokens {
		field, dir, _ := strings.Cut(strings.TrimSpace(tok), ",")
		if field == "" {
			continue
		}
		d, err := ParseDirection(dir)
		if err != nil {
			continue
		}
		if d == None {
			d = Asc
		}
		out = out.With(FromRemoteField(field), d)
	}
	return out
}
