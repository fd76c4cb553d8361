package status

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type LoaderFunc func(ctx context.Context) (Graph, error)

// GraphCache memoizes the transition graph for the process lifetime.
// Concurrent first calls share a single remote load. Failures are returned to every
// waiting caller and are not cached, so the next call retries.
type GraphCache struct {
	load LoaderFunc
	log  *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	graph Graph
}

func NewGraphCache(load LoaderFunc, log *zap.Logger) *GraphCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &GraphCache{load: load, log: log}
}

func (c *GraphCache) Get(ctx context.Context) (Graph, error) {
	c.mu.RLock()
	g := c.graph
	c.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	v, err, _ := c.group.Do("graph", func() (any, error) {
		c.mu.RLock()
		cached := c.graph
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		loaded, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			loaded = Graph{}
		}
		c.mu.Lock()
		c.graph = loaded
		c.mu.Unlock()
		c.log.Info("transition graph loaded", zap.Int("states", len(loaded)))
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Graph), nil
}
