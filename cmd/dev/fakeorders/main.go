// Command fakeorders serves an in-memory order query service for local development.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	var (
		addr  = flag.String("addr", ":8080", "listen address")
		count = flag.Int("orders", 120, "number of generated orders")
		seed  = flag.Uint64("seed", 1, "generator seed")
	)
	flag.Parse()

	ds := generate(*count, *seed)

	r := routes(ds, middleware.Logger)

	base := *addr
	if strings.HasPrefix(base, ":") {
		base = "localhost" + base
	}
	fmt.Printf("fake order service on http://%s/api/v1 (%d orders)\n", base, *count)
	if err := http.ListenAndServe(*addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}

func routes(ds *dataset, mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/orders", ds.queryOrders)
		r.Get("/orders/statuses/transitions", ds.transitions)
		r.Get("/orders/{id}", ds.getOrder)
		r.Get("/orders/{id}/status-history", ds.statusHistory)
		r.Get("/persons", ds.listPersons)
		r.Get("/persons/{id}", ds.getPerson)
		r.Get("/suppliers", ds.listSuppliers)
		r.Get("/suppliers/{id}", ds.getSupplier)
		r.Get("/customers", ds.listCustomers)
		r.Get("/customers/{id}", ds.getCustomer)
		r.Get("/cost-centers", ds.listCostCenters)
		r.Get("/cost-centers/{id}", ds.getCostCenter)
	})
	return r
}
