package filter

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"procurement/internal/status"
)

// Key names a filter dimension. Keys double as the remote filter parameter stem.
type Key string

const (
	KeyPrimaryCostCenters   Key = "primaryCostCenters"
	KeySecondaryCostCenters Key = "secondaryCostCenters"
	KeyBookingYears         Key = "bookingYears"
	KeyStatuses             Key = "statuses"
	KeyOwners               Key = "ownerIds"
	KeyDeliveryPersons      Key = "deliveryPersonIds"
	KeyInvoicePersons       Key = "invoicePersonIds"
	KeyQueriesPersons       Key = "queriesPersonIds"
	KeyCustomers            Key = "customerIds"
	KeySuppliers            Key = "supplierIds"
	KeyCreated              Key = "created"
	KeyLastUpdated          Key = "lastUpdatedTime"
	KeyQuotePrice           Key = "quotePrice"
)

type Kind int

const (
	KindChips Kind = iota
	KindDateRange
	KindRange
)

var ErrUnknownDimension = errors.New("unknown filter dimension")

// Spec declares the dimensions of a Model.
type Spec struct {
	Chips  []Key
	Dates  []Key
	Ranges []RangeSpec
}

type RangeSpec struct {
	Key      Key
	Min, Max decimal.Decimal
}

// OrderSpec is the dimension set of the order list.
func OrderSpec(quotePriceMin, quotePriceMax decimal.Decimal) Spec {
	return Spec{
		Chips: []Key{
			KeyPrimaryCostCenters, KeySecondaryCostCenters, KeyBookingYears, KeyStatuses,
			KeyOwners, KeyDeliveryPersons, KeyInvoicePersons, KeyQueriesPersons,
			KeyCustomers, KeySuppliers,
		},
		Dates: []Key{KeyCreated, KeyLastUpdated},
		Ranges: []RangeSpec{
			{Key: KeyQuotePrice, Min: quotePriceMin, Max: quotePriceMax},
		},
	}
}

// StatusChips builds the fixed status candidates from the metadata table.
func StatusChips(md status.MetadataTable) []Chip {
	out := make([]Chip, 0, len(status.All))
	for _, s := range status.All {
		m := md.Lookup(s)
		out = append(out, Chip{ID: ChipID(s), Label: m.Label, Tooltip: m.Description})
	}
	return out
}

// BookingYearChips lists years from newest to oldest.
func BookingYearChips(from, to int) []Chip {
	if to < from {
		from, to = to, from
	}
	out := make([]Chip, 0, to-from+1)
	for y := to; y >= from; y-- {
		s := strconv.Itoa(y)
		out = append(out, Chip{ID: ChipID(s), Label: s})
	}
	return out
}
