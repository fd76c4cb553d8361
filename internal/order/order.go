// Package order turns raw orders from the query service into their display form.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"procurement/internal/status"
)

// Display is a fully resolved order row.
type Display struct {
	ID                  int64           `json:"id"`
	BesyNumber          string          `json:"besyNumber"`
	DRI                 string          `json:"dri"`
	Status              status.Status   `json:"status"`
	StatusLabel         string          `json:"statusLabel"`
	StatusIcon          string          `json:"statusIcon"`
	PrimaryCostCenter   string          `json:"primaryCostCenter"`
	SecondaryCostCenter string          `json:"secondaryCostCenter,omitempty"`
	BookingYear         string          `json:"bookingYear"`
	Owner               string          `json:"owner,omitempty"`
	DeliveryPerson      string          `json:"deliveryPerson,omitempty"`
	InvoicePerson       string          `json:"invoicePerson,omitempty"`
	QueriesPerson       string          `json:"queriesPerson,omitempty"`
	Supplier            string          `json:"supplier,omitempty"`
	Customer            string          `json:"customer,omitempty"`
	QuotePrice          decimal.Decimal `json:"quotePrice"`
	CreatedDate         *time.Time      `json:"createdDate,omitempty"`
	LastUpdatedTime     *time.Time      `json:"lastUpdatedTime,omitempty"`
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTime accepts the instant formats the order service emits. Anything else is nil.
func ParseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
