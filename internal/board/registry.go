package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"procurement/internal/kvstore"
)

var ErrMissingUser = errors.New("missing user id")

const openTimeout = 30 * time.Second

// Registry hands out one Board per user, opening it on first use. Each board's state is
// stored under its own key prefix of the shared store.
type Registry struct {
	deps Deps
	log  *zap.Logger

	group  singleflight.Group
	mu     sync.Mutex
	boards map[string]*Board
}

func NewRegistry(d Deps) *Registry {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Store == nil {
		d.Store = kvstore.NewMemory()
	}
	return &Registry{deps: d, log: d.Logger, boards: map[string]*Board{}}
}

func (r *Registry) Get(ctx context.Context, userID string) (*Board, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	r.mu.Lock()
	b, ok := r.boards[userID]
	r.mu.Unlock()
	if ok {
		return b, nil
	}

	v, err, _ := r.group.Do(userID, func() (any, error) {
		r.mu.Lock()
		existing, ok := r.boards[userID]
		r.mu.Unlock()
		if ok {
			return existing, nil
		}

		// A cancelled request must not abort an open other callers are waiting on.
		octx, cancel := context.WithTimeout(context.WithoutCancel(ctx), openTimeout)
		defer cancel()

		d := r.deps
		d.Store = kvstore.WithPrefix(r.deps.Store, "user:"+userID+":")
		opened, err := Open(octx, userID, d)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.boards[userID] = opened
		r.mu.Unlock()
		return opened, nil
	})
	if err != nil {
		r.log.Warn("open board failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return v.(*Board), nil
}

// Close closes every open board.
func (r *Registry) Close() {
	r.mu.Lock()
	boards := r.boards
	r.boards = map[string]*Board{}
	r.mu.Unlock()
	for _, b := range boards {
		b.Close()
	}
}
