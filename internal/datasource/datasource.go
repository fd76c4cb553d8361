// Package datasource coordinates pagination, sort, filters and search into debounced
// order queries and publishes the resolved page.
package datasource

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"procurement/internal/debounce"
	"procurement/internal/filter"
	"procurement/internal/order"
	"procurement/internal/query"
	"procurement/pkg/orderapi"
)

const DefaultPageSize = 25

type Querier interface {
	QueryOrders(ctx context.Context, params url.Values) (orderapi.OrderPage, error)
}

type Resolver interface {
	ResolvePage(ctx context.Context, orders []orderapi.Order) ([]order.Display, error)
}

// Snapshot is the published state. Rows and pagination reflect the last good page;
// Sort and Search reflect the latest requested state.
type Snapshot struct {
	Rows          []order.Display `json:"rows"`
	PageIndex     int             `json:"pageIndex"`
	PageSize      int             `json:"pageSize"`
	Total         int64           `json:"totalElements"`
	Sort          query.SortState `json:"sort"`
	SortIndicator *query.SortKey  `json:"sortIndicator,omitempty"`
	Search        string          `json:"search"`
	Loading       bool            `json:"loading"`
	Error         string          `json:"error,omitempty"`
	RequestID     string          `json:"requestId,omitempty"`
}

type Options struct {
	Window   time.Duration
	PageSize int
	Timeout  time.Duration
	Logger   *zap.Logger
}

type DataSource struct {
	querier  Querier
	resolver Resolver
	log      *zap.Logger
	timeout  time.Duration
	deb      *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pageIndex int
	pageSize  int
	sort      query.SortState
	filters   filter.ActiveFilters
	search    string
	seq       uint64
	snap      Snapshot
	subs      map[int]func(Snapshot)
	nextSub   int

	// pending counts issued fetches that have not finished; idle is signalled on ds.mu
	// when it drops to zero.
	pending int
	idle    *sync.Cond

	notify sync.Mutex
}

func New(q Querier, r Resolver, opts Options) *DataSource {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	ds := &DataSource{
		querier:  q,
		resolver: r,
		log:      opts.Logger,
		timeout:  opts.Timeout,
		ctx:      ctx,
		cancel:   cancel,
		pageSize: opts.PageSize,
		subs:     map[int]func(Snapshot){},
	}
	ds.idle = sync.NewCond(&ds.mu)
	ds.snap.PageSize = opts.PageSize
	ds.deb = debounce.New(opts.Window, ds.fetch)
	return ds
}

// SetPage changes pagination. A non-positive size keeps the current size.
func (ds *DataSource) SetPage(index, size int) {
	ds.mu.Lock()
	if index < 0 {
		index = 0
	}
	ds.pageIndex = index
	if size > 0 {
		ds.pageSize = size
	}
	ds.mu.Unlock()
	ds.deb.Trigger()
}

// SetSort sets one field's direction; query.None clears all sorting.
func (ds *DataSource) SetSort(field string, dir query.Direction) {
	ds.mu.Lock()
	ds.sort = ds.sort.With(field, dir)
	ds.mu.Unlock()
	ds.deb.Trigger()
}

// SetFilters replaces the active filters and returns to the first page.
func (ds *DataSource) SetFilters(af filter.ActiveFilters) {
	ds.mu.Lock()
	ds.filters = af
	ds.pageIndex = 0
	ds.mu.Unlock()
	ds.deb.Trigger()
}

// SetSearch replaces the search term and returns to the first page.
func (ds *DataSource) SetSearch(s string) {
	ds.mu.Lock()
	ds.search = s
	ds.pageIndex = 0
	ds.mu.Unlock()
	ds.deb.Trigger()
}

// Refresh schedules a fetch of the current state.
func (ds *DataSource) Refresh() {
	ds.deb.Trigger()
}

// Flush issues a pending fetch now instead of waiting for the window.
func (ds *DataSource) Flush() bool {
	return ds.deb.Flush()
}

// Wait blocks until every issued fetch has completed, including fetches issued while
// waiting.
func (ds *DataSource) Wait() {
	ds.mu.Lock()
	for ds.pending > 0 {
		ds.idle.Wait()
	}
	ds.mu.Unlock()
}

func (ds *DataSource) Snapshot() Snapshot {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.snapshotLocked()
}

// Descriptor is the query the current state composes to.
func (ds *DataSource) Descriptor() query.Descriptor {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return query.Compose(ds.pageIndex, ds.pageSize, ds.sort, ds.filters, ds.search)
}

// Subscribe registers fn for every published page. Calls are serialized in publish order.
func (ds *DataSource) Subscribe(fn func(Snapshot)) func() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	id := ds.nextSub
	ds.nextSub++
	ds.subs[id] = fn
	return func() {
		ds.mu.Lock()
		delete(ds.subs, id)
		ds.mu.Unlock()
	}
}

// Close drops pending fetches, cancels in-flight ones and waits for them.
// No fetch is issued and nothing is published once it returns.
func (ds *DataSource) Close() {
	ds.deb.Stop()
	ds.mu.Lock()
	ds.cancel()
	ds.mu.Unlock()
	ds.Wait()
}

func (ds *DataSource) fetch() {
	ds.mu.Lock()
	if ds.ctx.Err() != nil {
		ds.mu.Unlock()
		return
	}
	ds.seq++
	seq := ds.seq
	desc := query.Compose(ds.pageIndex, ds.pageSize, ds.sort, ds.filters, ds.search)
	ds.snap.Loading = true
	ds.pending++
	ds.mu.Unlock()

	go ds.run(seq, desc)
}

func (ds *DataSource) run(seq uint64, desc query.Descriptor) {
	defer ds.done()
	ctx, cancel := context.WithTimeout(ds.ctx, ds.timeout)
	defer cancel()

	reqID := uuid.NewString()
	log := ds.log.With(zap.Uint64("seq", seq), zap.String("request_id", reqID))
	log.Debug("querying orders",
		zap.Int("page", desc.PageIndex),
		zap.Int("size", desc.PageSize),
		zap.Strings("sort", desc.Sort.Params()),
	)

	page, err := ds.querier.QueryOrders(ctx, desc.Values())
	var rows []order.Display
	if err == nil {
		rows, err = ds.resolver.ResolvePage(ctx, page.Content)
	}

	ds.mu.Lock()
	if ds.ctx.Err() != nil {
		ds.mu.Unlock()
		log.Debug("order page dropped after close")
		return
	}
	if latest := ds.seq; seq != latest {
		ds.mu.Unlock()
		log.Warn("stale order page discarded", zap.Uint64("latest", latest))
		return
	}
	ds.snap.Loading = false
	if err != nil {
		ds.snap.Error = err.Error()
		log.Warn("order query failed", zap.Error(err))
	} else {
		ds.apply(desc, page, rows)
		ds.snap.RequestID = reqID
	}
	snap := ds.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(ds.subs))
	for _, fn := range ds.subs {
		subs = append(subs, fn)
	}
	ds.notify.Lock()
	ds.mu.Unlock()
	defer ds.notify.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (ds *DataSource) done() {
	ds.mu.Lock()
	ds.pending--
	if ds.pending == 0 {
		ds.idle.Broadcast()
	}
	ds.mu.Unlock()
}

func (ds *DataSource) apply(desc query.Descriptor, page orderapi.OrderPage, rows []order.Display) {
	if rows == nil {
		rows = []order.Display{}
	}
	ds.snap.Rows = rows
	ds.snap.Error = ""
	ds.snap.Total = page.TotalElements
	ds.snap.PageIndex = page.PageNumber
	ds.snap.PageSize = page.PageSize
	if ds.snap.PageSize <= 0 {
		ds.snap.PageSize = desc.PageSize
	}

	ds.snap.SortIndicator = nil
	used := desc.Sort
	if len(used) == 0 {
		used = query.ParseSortParams(page.Sort)
	}
	if len(used) > 0 {
		first := used[0]
		ds.snap.SortIndicator = &first
	}
}

func (ds *DataSource) snapshotLocked() Snapshot {
	s := ds.snap
	s.Rows = append([]order.Display{}, ds.snap.Rows...)
	s.Sort = append(query.SortState(nil), ds.sort...)
	s.Search = ds.search
	return s
}
