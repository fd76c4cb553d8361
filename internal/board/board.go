// Package board composes one user's order board: filters, presets, columns, the paginated
// data source, persistence and notices.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"procurement/internal/columns"
	"procurement/internal/datasource"
	"procurement/internal/filter"
	"procurement/internal/kvstore"
	"procurement/internal/query"
	"procurement/internal/status"
	"procurement/pkg/config"
)

var ErrUnsortable = errors.New("column is not sortable")

type Deps struct {
	Orders   datasource.Querier
	Catalog  Catalog
	Resolver datasource.Resolver
	Store    kvstore.Store
	Metadata status.MetadataTable
	Config   config.BoardConfig
	Logger   *zap.Logger
	Now      func() time.Time
}

type Board struct {
	userID  string
	log     *zap.Logger
	catalog Catalog
	notices *notices

	model   *filter.Model
	presets *filter.PresetStore
	columns *columns.Selection
	data    *datasource.DataSource

	unsubscribe  func()
	stopAutoSave func()
}

// Open builds a board and restores its persisted state. Candidate listing failures are
// reported as notices and do not fail Open.
func Open(ctx context.Context, userID string, d Deps) (*Board, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Metadata == nil {
		d.Metadata = status.DefaultMetadata()
	}
	if d.Store == nil {
		d.Store = kvstore.NewMemory()
	}
	cfg := d.Config
	log := d.Logger.With(zap.String("user_id", userID))
	now := d.Now()

	b := &Board{
		userID:  userID,
		log:     log,
		catalog: d.Catalog,
		notices: &notices{now: d.Now},
	}

	b.model = filter.NewModel(filter.OrderSpec(cfg.QuotePriceMin, cfg.QuotePriceMax), log)
	if err := b.model.SetCandidates(filter.KeyStatuses, filter.StatusChips(d.Metadata)); err != nil {
		return nil, err
	}
	firstYear := cfg.FirstBookingYear
	if firstYear <= 0 {
		firstYear = now.Year()
	}
	if err := b.model.SetCandidates(filter.KeyBookingYears, filter.BookingYearChips(firstYear, now.Year())); err != nil {
		return nil, err
	}
	if b.catalog != nil {
		_ = b.ReloadCandidates(ctx)
	}

	builtIn := filter.BuiltInPresets(filter.BuiltInOptions{
		UserID:        filter.ChipID(userID),
		Now:           now,
		HighValueFrom: cfg.HighValueFrom,
		QuotePriceMax: cfg.QuotePriceMax,
	})
	b.presets = filter.NewPresetStore(b.model, d.Store, builtIn, log, b.notices.push)
	if err := b.presets.Load(ctx); err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}

	af, ok, err := filter.LoadActive(ctx, d.Store, log, b.notices.push)
	if err != nil {
		return nil, fmt.Errorf("load active filters: %w", err)
	}
	if ok {
		b.model.Restore(af)
	}

	b.columns = columns.NewSelection(d.Store, log)
	if err := b.columns.Load(ctx); err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}

	b.data = datasource.New(d.Orders, d.Resolver, datasource.Options{
		Window:   cfg.DebounceWindow,
		PageSize: cfg.DefaultPageSize,
		Logger:   log,
	})
	b.data.SetFilters(b.model.Active())
	b.unsubscribe = b.model.Subscribe(b.data.SetFilters)
	b.stopAutoSave = filter.AutoSave(b.model, d.Store, cfg.PersistDebounce, log)

	log.Info("board opened", zap.Int("saved_presets", len(b.presets.List())-len(builtIn)))
	return b, nil
}

func (b *Board) UserID() string               { return b.userID }
func (b *Board) Filters() *filter.Model       { return b.model }
func (b *Board) Presets() *filter.PresetStore { return b.presets }
func (b *Board) Columns() *columns.Selection  { return b.columns }
func (b *Board) Data() *datasource.DataSource { return b.data }
func (b *Board) Notices() []Notice            { return b.notices.drain() }
func (b *Board) Notify(msg string)            { b.notices.push(msg) }

// SetSort sorts by a sortable column; query.None clears all sorting.
func (b *Board) SetSort(field string, dir query.Direction) error {
	if dir != query.None && !columns.IsSortable(field) {
		return fmt.Errorf("%w: %s", ErrUnsortable, field)
	}
	b.data.SetSort(field, dir)
	return nil
}

// ResetFilters clears every dimension and deactivates all presets.
func (b *Board) ResetFilters() {
	b.presets.Deactivate()
	b.model.Reset()
}

// Close flushes the pending filter write and stops the data source.
func (b *Board) Close() {
	b.unsubscribe()
	b.stopAutoSave()
	b.data.Close()
}

type PresetView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	BuiltIn bool   `json:"builtIn"`
	Active  bool   `json:"active"`
	Applied bool   `json:"applied"`
}

type View struct {
	UserID  string               `json:"userId"`
	Data    datasource.Snapshot  `json:"data"`
	Filters filter.ActiveFilters `json:"filters"`
	Presets []PresetView         `json:"presets"`
	Columns []columns.Column     `json:"columns"`
}

func (b *Board) PresetViews() []PresetView {
	list := b.presets.List()
	out := make([]PresetView, 0, len(list))
	for _, p := range list {
		key := p.Key()
		out = append(out, PresetView{
			Key:     key,
			Label:   p.Label,
			BuiltIn: p.BuiltIn,
			Active:  b.presets.IsActive(key),
			Applied: b.presets.IsApplied(key),
		})
	}
	return out
}

func (b *Board) SelectedColumns() []columns.Column {
	ids := b.columns.Selected()
	out := make([]columns.Column, 0, len(ids))
	for _, id := range ids {
		if c, ok := columns.Lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) View() View {
	return View{
		UserID:  b.userID,
		Data:    b.data.Snapshot(),
		Filters: b.model.Active(),
		Presets: b.PresetViews(),
		Columns: b.SelectedColumns(),
	}
}
