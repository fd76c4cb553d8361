package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"procurement/internal/filter"
)

// FilterParams is the order-list filter the order service accepts.
// Empty slices and nil pointers are omitted from the request.
type FilterParams struct {
	PrimaryCostCenters    []string         `json:"primaryCostCenters,omitempty"`
	SecondaryCostCenters  []string         `json:"secondaryCostCenters,omitempty"`
	BookingYears          []string         `json:"bookingYears,omitempty"`
	Statuses              []string         `json:"statuses,omitempty"`
	OwnerIDs              []string         `json:"ownerIds,omitempty"`
	DeliveryPersonIDs     []string         `json:"deliveryPersonIds,omitempty"`
	InvoicePersonIDs      []string         `json:"invoicePersonIds,omitempty"`
	QueriesPersonIDs      []string         `json:"queriesPersonIds,omitempty"`
	CustomerIDs           []string         `json:"customerIds,omitempty"`
	SupplierIDs           []string         `json:"supplierIds,omitempty"`
	CreatedAfter          *time.Time       `json:"createdAfter,omitempty"`
	CreatedBefore         *time.Time       `json:"createdBefore,omitempty"`
	LastUpdatedTimeAfter  *time.Time       `json:"lastUpdatedTimeAfter,omitempty"`
	LastUpdatedTimeBefore *time.Time       `json:"lastUpdatedTimeBefore,omitempty"`
	QuotePriceMin         *decimal.Decimal `json:"quotePriceMin,omitempty"`
	QuotePriceMax         *decimal.Decimal `json:"quotePriceMax,omitempty"`
}

// Descriptor is one page request against the order service.
type Descriptor struct {
	PageIndex int          `json:"page"`
	PageSize  int          `json:"size"`
	Sort      SortState    `json:"sort,omitempty"`
	Filters   FilterParams `json:"filters"`
	Search    string       `json:"searchTerm,omitempty"`
}

// Compose builds the descriptor for the given board state. The result depends only
// on its inputs.
func Compose(pageIndex, pageSize int, sort SortState, active filter.ActiveFilters, search string) Descriptor {
	return Descriptor{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Sort:      append(SortState(nil), sort...),
		Filters:   FiltersFrom(active),
		Search:    strings.TrimSpace(search),
	}
}

func FiltersFrom(a filter.ActiveFilters) FilterParams {
	p := FilterParams{
		PrimaryCostCenters:   ids(a, filter.KeyPrimaryCostCenters),
		SecondaryCostCenters: ids(a, filter.KeySecondaryCostCenters),
		BookingYears:         ids(a, filter.KeyBookingYears),
		Statuses:             ids(a, filter.KeyStatuses),
		OwnerIDs:             ids(a, filter.KeyOwners),
		DeliveryPersonIDs:    ids(a, filter.KeyDeliveryPersons),
		InvoicePersonIDs:     ids(a, filter.KeyInvoicePersons),
		QueriesPersonIDs:     ids(a, filter.KeyQueriesPersons),
		CustomerIDs:          ids(a, filter.KeyCustomers),
		SupplierIDs:          ids(a, filter.KeySuppliers),
	}
	created := a.Date(filter.KeyCreated)
	p.CreatedAfter, p.CreatedBefore = created.Start, created.End
	updated := a.Date(filter.KeyLastUpdated)
	p.LastUpdatedTimeAfter, p.LastUpdatedTimeBefore = updated.Start, updated.End

	if r, ok := a.Range(filter.KeyQuotePrice); ok {
		if lo, constrained := r.Lower(); constrained {
			p.QuotePriceMin = &lo
		}
		if hi, constrained := r.Upper(); constrained {
			p.QuotePriceMax = &hi
		}
	}
	return p
}

func ids(a filter.ActiveFilters, key filter.Key) []string {
	sel := a.SelectedIDs(key)
	if len(sel) == 0 {
		return nil
	}
	out := make([]string, len(sel))
	for i, id := range sel {
		out[i] = string(id)
	}
	return out
}

// Values encodes the descriptor as query parameters. Lists repeat their key and
// instants are ISO-8601 in UTC.
func (d Descriptor) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(d.PageIndex))
	v.Set("size", strconv.Itoa(d.PageSize))
	for _, s := range d.Sort.Params() {
		v.Add("sort", s)
	}
	if d.Search != "" {
		v.Set("searchTerm", d.Search)
	}
	f := d.Filters
	addAll(v, "primaryCostCenters", f.PrimaryCostCenters)
	addAll(v, "secondaryCostCenters", f.SecondaryCostCenters)
	addAll(v, "bookingYears", f.BookingYears)
	addAll(v, "statuses", f.Statuses)
	addAll(v, "ownerIds", f.OwnerIDs)
	addAll(v, "deliveryPersonIds", f.DeliveryPersonIDs)
	addAll(v, "invoicePersonIds", f.InvoicePersonIDs)
	addAll(v, "queriesPersonIds", f.QueriesPersonIDs)
	addAll(v, "customerIds", f.CustomerIDs)
	addAll(v, "supplierIds", f.SupplierIDs)
	addTime(v, "createdAfter", f.CreatedAfter)
	addTime(v, "createdBefore", f.CreatedBefore)
	addTime(v, "lastUpdatedTimeAfter", f.LastUpdatedTimeAfter)
	addTime(v, "lastUpdatedTimeBefore", f.LastUpdatedTimeBefore)
	if f.QuotePriceMin != nil {
		v.Set("quotePriceMin", f.QuotePriceMin.String())
	}
	if f.QuotePriceMax != nil {
		v.Set("quotePriceMax", f.QuotePriceMax.String())
	}
	return v
}

func addAll(v url.Values, key string, vals []string) {
	for _, s := range vals {
		v.Add(key, s)
	}
}

func addTime(v url.Values, key string, t *time.Time) {
	if t == nil {
		return
	}
	v.Set(key, t.UTC().Format(time.RFC3339))
}
