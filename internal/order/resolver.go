package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"procurement/internal/status"
	"procurement/pkg/orderapi"
)

// Source is the subset of the order service used to resolve references.
type Source interface {
	GetPerson(ctx context.Context, id int64) (orderapi.Person, error)
	GetSupplier(ctx context.Context, id int64) (orderapi.Supplier, error)
	GetCustomer(ctx context.Context, id string) (orderapi.Customer, error)
	GetCostCenter(ctx context.Context, id string) (orderapi.CostCenter, error)
}

// Resolver resolves referenced names and caches them for the process lifetime.
// A reference the service reports as missing is shown by its id.
type Resolver struct {
	src Source
	md  status.MetadataTable
	log *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	names map[string]string
}

func NewResolver(src Source, md status.MetadataTable, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if md == nil {
		md = status.DefaultMetadata()
	}
	return &Resolver{src: src, md: md, log: log, names: map[string]string{}}
}

func (r *Resolver) Resolve(ctx context.Context, o orderapi.Order) (Display, error) {
	st := status.Status(o.Status)
	meta := r.md.Lookup(st)
	d := Display{
		ID:              o.ID,
		BesyNumber:      o.BesyNumber,
		DRI:             o.DRI,
		Status:          st,
		StatusLabel:     meta.Label,
		StatusIcon:      meta.Icon,
		BookingYear:     o.BookingYear,
		QuotePrice:      o.QuotePrice,
		CreatedDate:     ParseTime(o.CreatedDate),
		LastUpdatedTime: ParseTime(o.LastUpdatedTime),
	}

	g, ctx := errgroup.WithContext(ctx)
	r.person(ctx, g, o.OwnerID, &d.Owner)
	r.person(ctx, g, o.DeliveryPersonID, &d.DeliveryPerson)
	r.person(ctx, g, o.InvoicePersonID, &d.InvoicePerson)
	r.person(ctx, g, o.QueriesPersonID, &d.QueriesPerson)
	if o.SupplierID != nil {
		id := *o.SupplierID
		g.Go(func() (err error) {
			d.Supplier, err = r.name("supplier:"+strconv.FormatInt(id, 10), func() (string, error) {
				s, err := r.src.GetSupplier(ctx, id)
				return s.Name, err
			})
			return err
		})
	}
	if o.CustomerID != "" {
		id := o.CustomerID
		g.Go(func() (err error) {
			d.Customer, err = r.name("customer:"+id, func() (string, error) {
				c, err := r.src.GetCustomer(ctx, id)
				return c.Name, err
			})
			return err
		})
	}
	r.costCenter(ctx, g, o.PrimaryCostCenterID, &d.PrimaryCostCenter)
	r.costCenter(ctx, g, o.SecondaryCostCenterID, &d.SecondaryCostCenter)

	if err := g.Wait(); err != nil {
		return Display{}, fmt.Errorf("resolve order %d: %w", o.ID, err)
	}
	return d, nil
}

// ResolvePage resolves every order of a page. The result is in input order and
// is only returned once every row has resolved.
func (r *Resolver) ResolvePage(ctx context.Context, orders []orderapi.Order) ([]Display, error) {
	out := make([]Display, len(orders))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, o := range orders {
		g.Go(func() error {
			d, err := r.Resolve(ctx, o)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) person(ctx context.Context, g *errgroup.Group, id *int64, dst *string) {
	if id == nil {
		return
	}
	pid := *id
	g.Go(func() (err error) {
		*dst, err = r.name("person:"+strconv.FormatInt(pid, 10), func() (string, error) {
			p, err := r.src.GetPerson(ctx, pid)
			return p.DisplayName(), err
		})
		return err
	})
}

func (r *Resolver) costCenter(ctx context.Context, g *errgroup.Group, id string, dst *string) {
	if id == "" {
		return
	}
	g.Go(func() (err error) {
		*dst, err = r.name("costcenter:"+id, func() (string, error) {
			c, err := r.src.GetCostCenter(ctx, id)
			return c.Name, err
		})
		return err
	})
}

func (r *Resolver) name(key string, fetch func() (string, error)) (string, error) {
	r.mu.RLock()
	n, ok := r.names[key]
	r.mu.RUnlock()
	if ok {
		return n, nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		n, err := fetch()
		if err != nil {
			if !orderapi.IsNotFound(err) {
				return "", err
			}
			r.log.Debug("reference not found", zap.String("ref", key))
			_, id, _ := strings.Cut(key, ":")
			n = "#" + id
		}
		r.mu.Lock()
		r.names[key] = n
		r.mu.Unlock()
		return n, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
