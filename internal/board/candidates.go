package board

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"procurement/internal/filter"
	"procurement/pkg/orderapi"
)

// Catalog lists the reference data behind the chip dimensions.
type Catalog interface {
	ListPersons(ctx context.Context) ([]orderapi.Person, error)
	ListSuppliers(ctx context.Context) ([]orderapi.Supplier, error)
	ListCustomers(ctx context.Context) ([]orderapi.Customer, error)
	ListCostCenters(ctx context.Context) ([]orderapi.CostCenter, error)
}

// ReloadCandidates refreshes every remotely listed chip dimension. The current selection
// is reapplied afterwards so ids that still exist stay selected. A listing that fails
// keeps its previous candidates.
func (b *Board) ReloadCandidates(ctx context.Context) error {
	var (
		mu     sync.Mutex
		loaded = map[filter.Key][]filter.Chip{}
	)
	set := func(chips []filter.Chip, keys ...filter.Key) {
		mu.Lock()
		defer mu.Unlock()
		for _, k := range keys {
			loaded[k] = chips
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		persons, err := b.catalog.ListPersons(ctx)
		if err != nil {
			return err
		}
		set(personChips(persons), filter.KeyOwners, filter.KeyDeliveryPersons, filter.KeyInvoicePersons, filter.KeyQueriesPersons)
		return nil
	})
	g.Go(func() error {
		suppliers, err := b.catalog.ListSuppliers(ctx)
		if err != nil {
			return err
		}
		chips := make([]filter.Chip, 0, len(suppliers))
		for _, s := range suppliers {
			chips = append(chips, filter.Chip{ID: filter.ChipID(strconv.FormatInt(s.ID, 10)), Label: s.Name})
		}
		set(chips, filter.KeySuppliers)
		return nil
	})
	g.Go(func() error {
		customers, err := b.catalog.ListCustomers(ctx)
		if err != nil {
			return err
		}
		chips := make([]filter.Chip, 0, len(customers))
		for _, c := range customers {
			chips = append(chips, filter.Chip{ID: filter.ChipID(c.ID), Label: c.Name, Tooltip: c.ID})
		}
		set(chips, filter.KeyCustomers)
		return nil
	})
	g.Go(func() error {
		centers, err := b.catalog.ListCostCenters(ctx)
		if err != nil {
			return err
		}
		chips := make([]filter.Chip, 0, len(centers))
		for _, c := range centers {
			chips = append(chips, filter.Chip{ID: filter.ChipID(c.ID), Label: c.ID, Tooltip: c.Name})
		}
		set(chips, filter.KeyPrimaryCostCenters, filter.KeySecondaryCostCenters)
		return nil
	})
	err := g.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(loaded) > 0 {
		prev := b.model.Active()
		for key, chips := range loaded {
			if setErr := b.model.SetCandidates(key, chips); setErr != nil {
				b.log.Warn("set candidates failed", zap.String("dimension", string(key)), zap.Error(setErr))
			}
		}
		b.model.Restore(prev)
	}
	if err != nil {
		b.log.Warn("load filter options failed", zap.Error(err))
		b.notices.push("Some filter options could not be loaded.")
		return err
	}
	return nil
}

func personChips(persons []orderapi.Person) []filter.Chip {
	chips := make([]filter.Chip, 0, len(persons))
	for _, p := range persons {
		chips = append(chips, filter.Chip{
			ID:      filter.ChipID(strconv.FormatInt(p.ID, 10)),
			Label:   p.DisplayName(),
			Tooltip: p.Email,
		})
	}
	return chips
}
