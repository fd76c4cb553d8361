package orderapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Order is the raw order as returned by the query service. Reference fields carry ids
// only; names are resolved separately.
type Order struct {
	ID                    int64           `json:"id"`
	BesyNumber            string          `json:"besyNumber"`
	DRI                   string          `json:"dri"`
	Status                string          `json:"status"`
	PrimaryCostCenterID   string          `json:"primaryCostCenterId"`
	SecondaryCostCenterID string          `json:"secondaryCostCenterId"`
	BookingYear           string          `json:"bookingYear"`
	OwnerID               *int64          `json:"ownerId"`
	DeliveryPersonID      *int64          `json:"deliveryPersonId"`
	InvoicePersonID       *int64          `json:"invoicePersonId"`
	QueriesPersonID       *int64          `json:"queriesPersonId"`
	SupplierID            *int64          `json:"supplierId"`
	CustomerID            string          `json:"customerId"`
	QuotePrice            decimal.Decimal `json:"quotePrice"`
	CreatedDate           string          `json:"createdDate"`
	LastUpdatedTime       string          `json:"lastUpdatedTime"`
}

type OrderPage struct {
	Content       []Order  `json:"content"`
	PageNumber    int      `json:"pageNumber"`
	PageSize      int      `json:"pageSize"`
	TotalElements int64    `json:"totalElements"`
	Sort          []string `json:"sort,omitempty"`
}

// StatusHistoryEntry keeps the timestamp raw; callers decide how to treat malformed values.
type StatusHistoryEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// LoadTransitionGraph returns the status transition map keyed by status token.
func (c *Client) LoadTransitionGraph(ctx context.Context) (map[string][]string, error) {
	var out map[string][]string
	if _, err := c.doJSON(ctx, http.MethodGet, "/orders/statuses/transitions", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("load transition graph: %w", err)
	}
	return out, nil
}

func (c *Client) QueryOrders(ctx context.Context, params url.Values) (OrderPage, error) {
	var out OrderPage
	if _, err := c.doJSON(ctx, http.MethodGet, "/orders", params, nil, &out); err != nil {
		return OrderPage{}, fmt.Errorf("query orders: %w", err)
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (Order, error) {
	var out Order
	if _, err := c.doJSON(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) GetOrderStatusHistory(ctx context.Context, id int64) ([]StatusHistoryEntry, error) {
	var out []StatusHistoryEntry
	path := "/orders/" + strconv.FormatInt(id, 10) + "/status-history"
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get status history %d: %w", id, err)
	}
	return out, nil
}
