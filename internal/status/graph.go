package status

import (
	"fmt"
	"time"
)

// Graph maps a status to its permitted successors in declared order.
// It is read-only once loaded.
type Graph map[Status][]Status

// HistoryEntry is one server-recorded status change of an order.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (g Graph) Successors(s Status) []Status {
	return g[s]
}

func (g Graph) CanTransition(from, to Status) bool {
	for _, next := range g[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GraphFromWire converts the remote transition listing into a Graph.
// Unknown status tokens are rejected so a server/client drift is visible.
func GraphFromWire(raw map[string][]string) (Graph, error) {
	g := make(Graph, len(raw))
	for from, nexts := range raw {
		f, err := ParseStatus(from)
		if err != nil {
			return nil, fmt.Errorf("transition graph: %w", err)
		}
		out := make([]Status, 0, len(nexts))
		for _, n := range nexts {
			s, err := ParseStatus(n)
			if err != nil {
				return nil, fmt.Errorf("transition graph: successor of %s: %w", f, err)
			}
			out = append(out, s)
		}
		g[f] = out
	}
	return g, nil
}
