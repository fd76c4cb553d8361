package filter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"procurement/internal/debounce"
	"procurement/internal/kvstore"
)

// AutoSave persists the model's snapshot under kvstore.KeyActiveFilters after every
// change, debounced by window. The returned stop func flushes a pending write and
// unsubscribes.
func AutoSave(m *Model, store kvstore.Store, window time.Duration, log *zap.Logger) (stop func()) {
	if log == nil {
		log = zap.NewNop()
	}
	d := debounce.New(window, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := kvstore.SetJSON(ctx, store, kvstore.KeyActiveFilters, m.Active()); err != nil {
			log.Warn("persist active filters failed", zap.Error(err))
		}
	})
	unsubscribe := m.Subscribe(func(ActiveFilters) { d.Trigger() })
	return func() {
		unsubscribe()
		d.Flush()
		d.Stop()
	}
}

// LoadActive reads the last persisted snapshot. A corrupt value is cleared and reported,
// and ok is false.
func LoadActive(ctx context.Context, store kvstore.Store, log *zap.Logger, notify Notifier) (ActiveFilters, bool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	af, found, err := kvstore.LookupJSON[ActiveFilters](ctx, store, kvstore.KeyActiveFilters)
	if err != nil {
		if !errors.Is(err, kvstore.ErrCorrupt) {
			return ActiveFilters{}, false, err
		}
		log.Warn("active filters corrupt, clearing", zap.Error(err))
		if rmErr := store.Remove(ctx, kvstore.KeyActiveFilters); rmErr != nil {
			log.Warn("clear active filters failed", zap.Error(rmErr))
		}
		if notify != nil {
			notify("Your last filter selection could not be restored and was reset.")
		}
		return ActiveFilters{}, false, nil
	}
	return af, found, nil
}

// Restore reapplies a persisted snapshot on top of the model's current selection.
// Ids that are not candidates and dimensions the model does not know are skipped.
func (m *Model) Restore(af ActiveFilters) {
	m.Apply(PresetFromActive("", af))
}
