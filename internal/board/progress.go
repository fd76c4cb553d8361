package board

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"procurement/internal/order"
	"procurement/internal/status"
	"procurement/pkg/orderapi"
)

type OrderHistory interface {
	GetOrder(ctx context.Context, id int64) (orderapi.Order, error)
	GetOrderStatusHistory(ctx context.Context, id int64) ([]orderapi.StatusHistoryEntry, error)
}

// ProgressTracker projects an order onto the progress display. It degrades to an empty
// display when the transition graph is unavailable and to future-only steps when the
// history is unavailable or empty.
type ProgressTracker struct {
	orders    OrderHistory
	graph     *status.GraphCache
	projector status.Projector
	log       *zap.Logger
}

func NewProgressTracker(orders OrderHistory, graph *status.GraphCache, projector status.Projector, log *zap.Logger) *ProgressTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressTracker{orders: orders, graph: graph, projector: projector, log: log}
}

func empty() status.Progress {
	return status.Progress{Steps: []status.Step{}, Current: -1}
}

func (t *ProgressTracker) ForOrder(ctx context.Context, id int64) (status.Progress, error) {
	o, err := t.orders.GetOrder(ctx, id)
	if err != nil {
		return status.Progress{}, err
	}
	current := status.Status(o.Status)

	g, err := t.graph.Get(ctx)
	if err != nil {
		t.log.Warn("transition graph unavailable", zap.Int64("order_id", id), zap.Error(err))
		return empty(), nil
	}

	raw, err := t.orders.GetOrderStatusHistory(ctx, id)
	if err != nil {
		t.log.Warn("status history unavailable", zap.Int64("order_id", id), zap.Error(err))
		raw = nil
	}
	if len(raw) > 0 {
		return t.projector.WithHistory(g, current, historyEntries(raw)), nil
	}

	p, err := t.projector.Future(g, current)
	if errors.Is(err, status.ErrNotApplicable) {
		return empty(), nil
	}
	if err != nil {
		return status.Progress{}, err
	}
	return p, nil
}

// historyEntries keeps malformed timestamps as zero values; the projector then keeps
// the given order.
func historyEntries(raw []orderapi.StatusHistoryEntry) []status.HistoryEntry {
	out := make([]status.HistoryEntry, 0, len(raw))
	for _, e := range raw {
		h := status.HistoryEntry{Status: status.Status(e.Status)}
		if ts := order.ParseTime(e.Timestamp); ts != nil {
			h.Timestamp = *ts
		}
		out = append(out, h)
	}
	return out
}

// GraphLoader adapts the order service's raw transition map to a status.LoaderFunc.
func GraphLoader(load func(ctx context.Context) (map[string][]string, error)) status.LoaderFunc {
	return func(ctx context.Context) (status.Graph, error) {
		raw, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return status.GraphFromWire(raw)
	}
}
