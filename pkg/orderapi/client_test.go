package orderapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", "secret", 0)
}

func TestQueryOrders_SendsParamsAndDecodesPage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("size") != "50" || len(q["statuses"]) != 2 {
			t.Fatalf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"id":7,"status":"APPROVED","quotePrice":"120.50","ownerId":3}],
			"pageNumber":1,"pageSize":50,"totalElements":51,"sort":["id,asc"]}`))
	})

	params := url.Values{"size": {"50"}, "statuses": {"APPROVED", "SENT"}}
	page, err := c.QueryOrders(context.Background(), params)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.TotalElements != 51 || page.PageNumber != 1 || len(page.Content) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	o := page.Content[0]
	if o.ID != 7 || o.OwnerID == nil || *o.OwnerID != 3 || o.QuotePrice.String() != "120.5" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if len(page.Sort) != 1 || page.Sort[0] != "id,asc" {
		t.Fatalf("unexpected sort echo: %v", page.Sort)
	}
}

func TestLoadTransitionGraph(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"IN_PROGRESS":["COMPLETED","DELETED"],"APPROVED":[]}`))
	})
	g, err := c.LoadTransitionGraph(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(g["IN_PROGRESS"]) != 2 || g["APPROVED"] == nil {
		t.Fatalf("unexpected graph: %v", g)
	}
}

func TestNon2xxIsStatusError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such person", http.StatusNotFound)
	})
	_, err := c.GetPerson(context.Background(), 9)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMissingBaseURL(t *testing.T) {
	c := &Client{}
	if _, err := c.ListSuppliers(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPersonDisplayName(t *testing.T) {
	cases := map[Person]string{
		{Name: "Ada", Surname: "Lovelace"}: "Ada Lovelace",
		{Surname: "Hopper"}:                "Hopper",
		{Name: "Linus"}:                    "Linus",
	}
	for p, want := range cases {
		if got := p.DisplayName(); got != want {
			t.Fatalf("DisplayName(%+v) = %q, want %q", p, got, want)
		}
	}
}
