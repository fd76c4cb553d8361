// Package columns holds the order table's column catalogue and the user's
// persisted column selection.
package columns

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"procurement/internal/kvstore"
)

type Column struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

// Catalogue is every column the order table can show, in display order.
var Catalogue = []Column{
	{ID: "id", Label: "ID", Sortable: true},
	{ID: "besy_number", Label: "Order number", Sortable: true},
	{ID: "dri", Label: "Reference", Sortable: true},
	{ID: "status", Label: "Status", Sortable: true},
	{ID: "primary_cost_center", Label: "Cost center", Sortable: true},
	{ID: "secondary_cost_center", Label: "Secondary cost center", Sortable: true},
	{ID: "booking_year", Label: "Booking year", Sortable: true},
	{ID: "owner", Label: "Owner", Sortable: true},
	{ID: "delivery_person", Label: "Delivery contact", Sortable: true},
	{ID: "invoice_person", Label: "Invoice contact", Sortable: true},
	{ID: "queries_person", Label: "Queries contact", Sortable: true},
	{ID: "supplier", Label: "Supplier", Sortable: true},
	{ID: "customer", Label: "Customer", Sortable: true},
	{ID: "quote_price", Label: "Quote price", Sortable: true},
	{ID: "created_date", Label: "Created", Sortable: true},
	{ID: "last_updated_time", Label: "Last updated", Sortable: true},
	{ID: "progress", Label: "Progress", Sortable: false},
	{ID: "actions", Label: "Actions", Sortable: false},
}

// Default is the selection used when nothing is persisted.
var Default = []string{"id", "status", "primary_cost_center", "owner", "supplier", "quote_price", "last_updated_time", "actions"}

func Lookup(id string) (Column, bool) {
	for _, c := range Catalogue {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func IsSortable(id string) bool {
	c, ok := Lookup(id)
	return ok && c.Sortable
}

// Selection is the visible column list, persisted under kvstore.KeySelectedColumns.
type Selection struct {
	store kvstore.Store
	log   *zap.Logger

	mu       sync.Mutex
	selected []string
}

func NewSelection(store kvstore.Store, log *zap.Logger) *Selection {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selection{store: store, log: log, selected: append([]string(nil), Default...)}
}

// Load restores the persisted selection. Unknown ids are dropped; a corrupt or empty
// value falls back to Default and the corrupt value is cleared.
func (s *Selection) Load(ctx context.Context) error {
	ids, err := kvstore.GetJSON(ctx, s.store, kvstore.KeySelectedColumns, []string(nil))
	if err != nil {
		if !errors.Is(err, kvstore.ErrCorrupt) {
			return err
		}
		s.log.Warn("selected columns corrupt, clearing", zap.Error(err))
		_ = s.store.Remove(ctx, kvstore.KeySelectedColumns)
		ids = nil
	}
	valid := sanitize(ids)
	if len(valid) == 0 {
		valid = append([]string(nil), Default...)
	}
	s.mu.Lock()
	s.selected = valid
	s.mu.Unlock()
	return nil
}

func (s *Selection) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

// Set replaces the selection; every id must be in the Catalogue.
func (s *Selection) Set(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, ok := Lookup(id); !ok {
			return fmt.Errorf("unknown column: %s", id)
		}
	}
	next := sanitize(ids)
	s.mu.Lock()
	s.selected = next
	s.mu.Unlock()
	return kvstore.SetJSON(ctx, s.store, kvstore.KeySelectedColumns, next)
}

// sanitize drops unknown and duplicate ids, keeping order.
func sanitize(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := Lookup(id); !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
