package status

import (
	"strconv"
	"strings"
)

// ProjectLinearSequence returns the longest simple path through g that starts at start.
//
// Rules:
// - DELETED and the IN_PROGRESS re-entry state are never chosen as successors.
// - A status already on the path is never chosen again, so cyclic graphs terminate.
// - When several successors lead to equally long tails, the first declared one wins.
//
// The search is exhaustive and memoized on (status, visited set). It runs on an explicit
// stack so the depth of the graph does not grow the goroutine stack.
func ProjectLinearSequence(g Graph, start Status) []Status {
	idx := indexStatuses(g, start)

	type frame struct {
		cur     Status
		visited visitSet
		next    int
		best    Status
		bestLen int
		found   bool
	}

	memoLen := map[string]int{}
	memoNext := map[string]Status{}

	root := newVisitSet(len(idx)).with(idx[start])
	stack := []frame{{cur: start, visited: root}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		succ := g[f.cur]
		pushed := false

		for f.next < len(succ) {
			s := succ[f.next]
			if excludedSuccessor(s) || f.visited.has(idx[s]) {
				f.next++
				continue
			}
			v := f.visited.with(idx[s])
			if l, ok := memoLen[v.key(s)]; ok {
				if !f.found || l > f.bestLen {
					f.best, f.bestLen, f.found = s, l, true
				}
				f.next++
				continue
			}
			stack = append(stack, frame{cur: s, visited: v})
			pushed = true
			break
		}
		if pushed {
			continue
		}

		k := f.visited.key(f.cur)
		memoLen[k] = f.bestLen + 1
		if f.found {
			memoNext[k] = f.best
		}
		stack = stack[:len(stack)-1]
	}

	out := []Status{start}
	cur, visited := start, root
	for {
		n, ok := memoNext[visited.key(cur)]
		if !ok {
			return out
		}
		visited = visited.with(idx[n])
		out = append(out, n)
		cur = n
	}
}

func excludedSuccessor(s Status) bool {
	return s == StatusDeleted || s == StatusInProgress
}

func indexStatuses(g Graph, start Status) map[Status]int {
	idx := map[Status]int{}
	add := func(s Status) {
		if _, ok := idx[s]; !ok {
			idx[s] = len(idx)
		}
	}
	add(start)
	// Declared order is not stable for map keys, but indices only need to be unique.
	for from, nexts := range g {
		add(from)
		for _, n := range nexts {
			add(n)
		}
	}
	return idx
}

// visitSet is an immutable bitset over graph node indices.
type visitSet []uint64

func newVisitSet(n int) visitSet {
	return make(visitSet, (n+63)/64)
}

func (v visitSet) has(i int) bool {
	return v[i/64]&(1<<(uint(i)%64)) != 0
}

func (v visitSet) with(i int) visitSet {
	out := make(visitSet, len(v))
	copy(out, v)
	out[i/64] |= 1 << (uint(i) % 64)
	return out
}

func (v visitSet) key(cur Status) string {
	var b strings.Builder
	b.WriteString(string(cur))
	for _, w := range v {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(w, 16))
	}
	return b.String()
}
