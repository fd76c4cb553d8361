package board

import (
	"sync"
	"time"
)

const maxNotices = 50

type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// notices is a bounded queue of user-facing messages; the oldest are dropped first.
type notices struct {
	mu    sync.Mutex
	items []Notice
	now   func() time.Time
}

func (n *notices) push(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notice{Message: msg, At: n.now()})
	if over := len(n.items) - maxNotices; over > 0 {
		n.items = append([]Notice(nil), n.items[over:]...)
	}
}

func (n *notices) drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
