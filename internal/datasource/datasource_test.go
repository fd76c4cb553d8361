package datasource

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/filter"
	"procurement/internal/order"
	"procurement/internal/query"
	"procurement/pkg/orderapi"
)

type fakeQuerier struct {
	mu      sync.Mutex
	calls   []url.Values
	release chan struct{}
	fail    error
	echo    []string
}

func (f *fakeQuerier) QueryOrders(ctx context.Context, params url.Values) (orderapi.OrderPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	fail := f.fail
	f.mu.Unlock()

	if params.Get("searchTerm") == "slow" && f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return orderapi.OrderPage{}, ctx.Err()
		}
	}
	if fail != nil {
		return orderapi.OrderPage{}, fail
	}
	size := params.Get("size")
	n := 2
	if size == "50" {
		n = 3
	}
	content := make([]orderapi.Order, n)
	for i := range content {
		content[i] = orderapi.Order{ID: int64(i + 1), BesyNumber: params.Get("searchTerm")}
	}
	return orderapi.OrderPage{Content: content, PageNumber: 0, TotalElements: 42, Sort: f.echo}, nil
}

func (f *fakeQuerier) Calls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.calls...)
}

type passResolver struct{}

func (passResolver) ResolvePage(_ context.Context, orders []orderapi.Order) ([]order.Display, error) {
	out := make([]order.Display, len(orders))
	for i, o := range orders {
		out[i] = order.Display{ID: o.ID, BesyNumber: o.BesyNumber}
	}
	return out, nil
}

func newSource(t *testing.T, q Querier, window time.Duration) *DataSource {
	t.Helper()
	ds := New(q, passResolver{}, Options{Window: window})
	t.Cleanup(ds.Close)
	return ds
}

func TestPageSizeBurstCollapsesToOneFetch(t *testing.T) {
	q := &fakeQuerier{}
	ds := newSource(t, q, 30*time.Millisecond)

	ds.SetPage(0, 25)
	ds.SetPage(0, 50)

	require.Eventually(t, func() bool { return len(q.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	ds.Wait()

	calls := q.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "50", calls[0].Get("size"))
	assert.Equal(t, 50, ds.Snapshot().PageSize)
	assert.Len(t, ds.Snapshot().Rows, 3)
}

func TestFlushPublishesResolvedPage(t *testing.T) {
	q := &fakeQuerier{}
	ds := newSource(t, q, time.Hour)

	var published []Snapshot
	var mu sync.Mutex
	ds.Subscribe(func(s Snapshot) {
		mu.Lock()
		published = append(published, s)
		mu.Unlock()
	})

	ds.SetFilters(filter.ActiveFilters{Chips: map[filter.Key][]filter.Chip{
		filter.KeyStatuses: {{ID: "SENT"}},
	}})
	require.True(t, ds.Flush())
	ds.Wait()

	calls := q.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"SENT"}, calls[0]["statuses"])

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, published, 1)
	assert.Equal(t, int64(42), published[0].Total)
	assert.Len(t, published[0].Rows, 2)
	assert.False(t, published[0].Loading)
	assert.NotEmpty(t, published[0].RequestID)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	q := &fakeQuerier{release: make(chan struct{})}
	ds := newSource(t, q, time.Hour)

	ds.SetSearch("slow")
	require.True(t, ds.Flush())
	ds.SetSearch("fast")
	require.True(t, ds.Flush())

	require.Eventually(t, func() bool { return len(q.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		rows := ds.Snapshot().Rows
		return len(rows) > 0 && rows[0].BesyNumber == "fast"
	}, time.Second, 5*time.Millisecond)

	close(q.release)
	ds.Wait()
	assert.Equal(t, "fast", ds.Snapshot().Rows[0].BesyNumber)
}

func TestFailureKeepsLastGoodPage(t *testing.T) {
	q := &fakeQuerier{}
	ds := newSource(t, q, time.Hour)

	ds.Refresh()
	ds.Flush()
	ds.Wait()
	require.Len(t, ds.Snapshot().Rows, 2)

	q.mu.Lock()
	q.fail = errors.New("service unavailable")
	q.mu.Unlock()

	ds.SetPage(1, 0)
	ds.Flush()
	ds.Wait()

	snap := ds.Snapshot()
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, 0, snap.PageIndex)
	assert.Contains(t, snap.Error, "service unavailable")
}

func TestSortIndicator(t *testing.T) {
	q := &fakeQuerier{echo: []string{"lastUpdatedTime,desc"}}
	ds := newSource(t, q, time.Hour)

	ds.Refresh()
	ds.Flush()
	ds.Wait()
	ind := ds.Snapshot().SortIndicator
	require.NotNil(t, ind)
	assert.Equal(t, query.SortKey{Field: "last_updated_time", Direction: query.Desc}, *ind)

	ds.SetSort("quote_price", query.Asc)
	ds.SetSort("status", query.Desc)
	ds.Flush()
	ds.Wait()
	snap := ds.Snapshot()
	require.NotNil(t, snap.SortIndicator)
	assert.Equal(t, "quote_price", snap.SortIndicator.Field)
	assert.Equal(t, []string{"quotePrice,asc", "status,desc"}, q.Calls()[1]["sort"])

	ds.SetSort("status", query.None)
	assert.Empty(t, ds.Snapshot().Sort)
}

func TestFilterChangeResetsPageIndex(t *testing.T) {
	ds := newSource(t, &fakeQuerier{}, time.Hour)
	ds.SetPage(4, 10)
	ds.SetFilters(filter.ActiveFilters{})
	d := ds.Descriptor()
	assert.Equal(t, 0, d.PageIndex)
	assert.Equal(t, 10, d.PageSize)
}

func TestCloseCancelsInFlightWithoutPublishing(t *testing.T) {
	q := &fakeQuerier{release: make(chan struct{})}
	ds := New(q, passResolver{}, Options{Window: time.Hour})

	var published int
	var mu sync.Mutex
	ds.Subscribe(func(Snapshot) {
		mu.Lock()
		published++
		mu.Unlock()
	})

	ds.SetSearch("slow")
	require.True(t, ds.Flush())
	require.Eventually(t, func() bool { return len(q.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	ds.Close()
	ds.Refresh()
	ds.Flush()
	ds.Wait()

	assert.Len(t, q.Calls(), 1)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, published)
}

func TestWaitCoversFetchesIssuedWhileWaiting(t *testing.T) {
	q := &fakeQuerier{release: make(chan struct{})}
	ds := newSource(t, q, time.Hour)

	ds.SetSearch("slow")
	require.True(t, ds.Flush())
	require.Eventually(t, func() bool { return len(q.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	waited := make(chan struct{})
	go func() {
		ds.Wait()
		close(waited)
	}()

	ds.SetSearch("fast")
	require.True(t, ds.Flush())
	require.Eventually(t, func() bool { return len(q.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	select {
	case <-waited:
		t.Fatal("Wait returned while a fetch was still blocked")
	case <-time.After(30 * time.Millisecond):
	}

	close(q.release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after every fetch finished")
	}
	assert.Equal(t, "fast", ds.Snapshot().Rows[0].BesyNumber)
}
