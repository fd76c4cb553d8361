package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"procurement/pkg/orderapi"
)

func TestPage_FiltersSortsAndPaginates(t *testing.T) {
	ds := generate(200, 7)

	all := ds.page(url.Values{"size": {"500"}})
	if all.TotalElements != 200 || len(all.Content) != 200 {
		t.Fatalf("unexpected unfiltered page: total=%d len=%d", all.TotalElements, len(all.Content))
	}

	q := url.Values{
		"statuses":      {"APPROVED", "SENT"},
		"quotePriceMin": {"1000"},
		"sort":          {"quotePrice,desc"},
		"size":          {"5"},
	}
	p := ds.page(q)
	if len(p.Content) > 5 {
		t.Fatalf("page too large: %d", len(p.Content))
	}
	for i, o := range p.Content {
		if o.Status != "APPROVED" && o.Status != "SENT" {
			t.Fatalf("unexpected status %s", o.Status)
		}
		if o.QuotePrice.LessThan(mustDec("1000")) {
			t.Fatalf("quote below min: %s", o.QuotePrice)
		}
		if i > 0 && o.QuotePrice.GreaterThan(p.Content[i-1].QuotePrice) {
			t.Fatalf("not sorted descending at %d", i)
		}
	}

	beyond := ds.page(url.Values{"page": {"99"}, "size": {"25"}})
	if len(beyond.Content) != 0 || beyond.TotalElements != 200 {
		t.Fatalf("expected empty page past the end")
	}
}

func TestHistoryEndsAtCurrentStatus(t *testing.T) {
	ds := generate(50, 3)
	for _, o := range ds.orders {
		h := ds.history[o.ID]
		if len(h) == 0 || h[len(h)-1].Status != o.Status {
			t.Fatalf("order %d: history %v does not end at %s", o.ID, h, o.Status)
		}
	}
}

func TestStatusHistoryRoute(t *testing.T) {
	ds := generate(10, 5)
	srv := httptest.NewServer(routes(ds))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/orders/3/status-history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []orderapi.StatusHistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	want := ds.history[3]
	if len(got) != len(want) || got[len(got)-1].Status != want[len(want)-1].Status {
		t.Fatalf("history mismatch: got %v want %v", got, want)
	}

	missing, err := http.Get(srv.URL + "/api/v1/orders/999/status-history")
	if err != nil {
		t.Fatalf("get missing history: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", missing.StatusCode)
	}
}

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
