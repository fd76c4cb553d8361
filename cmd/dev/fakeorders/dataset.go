package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"procurement/pkg/orderapi"
)

var transitions = map[string][]string{
	"IN_PROGRESS":        {"COMPLETED", "DELETED"},
	"COMPLETED":          {"APPROVALS_RECEIVED", "IN_PROGRESS", "DELETED"},
	"APPROVALS_RECEIVED": {"APPROVED", "REJECTED", "DELETED"},
	"APPROVED":           {"SENT", "DELETED"},
	"REJECTED":           {"IN_PROGRESS", "DELETED"},
	"SENT":               {"SETTLED"},
	"SETTLED":            {"ARCHIVED"},
	"ARCHIVED":           {},
	"DELETED":            {},
}

// canonical is the happy path each order walks along until it reaches its status.
var canonical = []string{"IN_PROGRESS", "COMPLETED", "APPROVALS_RECEIVED", "APPROVED", "SENT", "SETTLED", "ARCHIVED"}

type dataset struct {
	orders      []orderapi.Order
	history     map[int64][]orderapi.StatusHistoryEntry
	persons     []orderapi.Person
	suppliers   []orderapi.Supplier
	customers   []orderapi.Customer
	costCenters []orderapi.CostCenter
}

func generate(n int, seed uint64) *dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ds := &dataset{
		history: map[int64][]orderapi.StatusHistoryEntry{},
		persons: []orderapi.Person{
			{ID: 1, Name: "Ada", Surname: "Lovelace", Email: "ada@example.org"},
			{ID: 2, Name: "Grace", Surname: "Hopper", Email: "grace@example.org"},
			{ID: 3, Name: "Linus", Surname: "Torvalds", Email: "linus@example.org"},
			{ID: 4, Name: "Barbara", Surname: "Liskov", Email: "barbara@example.org"},
		},
		suppliers: []orderapi.Supplier{{ID: 10, Name: "ACME Lab Supply"}, {ID: 11, Name: "Globex"}, {ID: 12, Name: "Initech"}},
		customers: []orderapi.Customer{{ID: "K-100", Name: "Physics Institute"}, {ID: "K-200", Name: "Chemistry Institute"}},
		costCenters: []orderapi.CostCenter{
			{ID: "4711", Name: "Teaching"}, {ID: "4712", Name: "Research"}, {ID: "4713", Name: "Administration"},
		},
	}

	start := time.Date(2022, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		created := start.Add(time.Duration(rng.IntN(3*365*24)) * time.Hour)
		steps := 1 + rng.IntN(len(canonical))
		st := canonical[steps-1]
		if rng.IntN(12) == 0 {
			st = "DELETED"
		}

		var hist []orderapi.StatusHistoryEntry
		at := created
		for _, s := range canonical[:steps] {
			hist = append(hist, orderapi.StatusHistoryEntry{Status: s, Timestamp: at.Format(time.RFC3339)})
			at = at.Add(time.Duration(24+rng.IntN(240)) * time.Hour)
		}
		if st == "DELETED" {
			hist = append(hist, orderapi.StatusHistoryEntry{Status: st, Timestamp: at.Format(time.RFC3339)})
		}
		ds.history[id] = hist

		owner := ds.persons[rng.IntN(len(ds.persons))].ID
		delivery := ds.persons[rng.IntN(len(ds.persons))].ID
		supplier := ds.suppliers[rng.IntN(len(ds.suppliers))].ID
		ds.orders = append(ds.orders, orderapi.Order{
			ID:                  id,
			BesyNumber:          fmt.Sprintf("B-%05d", id),
			DRI:                 fmt.Sprintf("DRI-%d-%03d", created.Year(), id),
			Status:              st,
			PrimaryCostCenterID: ds.costCenters[rng.IntN(len(ds.costCenters))].ID,
			BookingYear:         strconv.Itoa(created.Year()),
			OwnerID:             &owner,
			DeliveryPersonID:    &delivery,
			SupplierID:          &supplier,
			CustomerID:          ds.customers[rng.IntN(len(ds.customers))].ID,
			QuotePrice:          decimal.New(int64(rng.IntN(1_200_000)), -2),
			CreatedDate:         created.Format(time.RFC3339),
			LastUpdatedTime:     hist[len(hist)-1].Timestamp,
		})
	}
	return ds
}

// match applies the subset of filters the fake understands.
func match(o orderapi.Order, q url.Values) bool {
	in := func(key, v string) bool {
		vals := q[key]
		if len(vals) == 0 {
			return true
		}
		for _, s := range vals {
			if s == v {
				return true
			}
		}
		return false
	}
	idStr := func(p *int64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatInt(*p, 10)
	}
	if !in("statuses", o.Status) || !in("ownerIds", idStr(o.OwnerID)) || !in("supplierIds", idStr(o.SupplierID)) ||
		!in("customerIds", o.CustomerID) || !in("primaryCostCenters", o.PrimaryCostCenterID) ||
		!in("bookingYears", o.BookingYear) || !in("deliveryPersonIds", idStr(o.DeliveryPersonID)) {
		return false
	}
	if v, err := decimal.NewFromString(q.Get("quotePriceMin")); err == nil && o.QuotePrice.LessThan(v) {
		return false
	}
	if v, err := decimal.NewFromString(q.Get("quotePriceMax")); err == nil && o.QuotePrice.GreaterThan(v) {
		return false
	}
	if after, err := time.Parse(time.RFC3339, q.Get("createdAfter")); err == nil && o.CreatedDate < after.Format(time.RFC3339) {
		return false
	}
	if before, err := time.Parse(time.RFC3339, q.Get("createdBefore")); err == nil && o.CreatedDate > before.Format(time.RFC3339) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Get("searchTerm"))); term != "" {
		if !strings.Contains(strings.ToLower(o.BesyNumber+" "+o.DRI), term) {
			return false
		}
	}
	return true
}

func sortOrders(orders []orderapi.Order, tokens []string) {
	type key struct {
		field string
		desc  bool
	}
	var keys []key
	for _, t := range tokens {
		f, d, _ := strings.Cut(t, ",")
		keys = append(keys, key{field: f, desc: strings.EqualFold(d, "desc")})
	}
	if len(keys) == 0 {
		keys = []key{{field: "id"}}
	}
	compare := func(a, b orderapi.Order, field string) int {
		switch field {
		case "quotePrice":
			return a.QuotePrice.Cmp(b.QuotePrice)
		case "createdDate":
			return strings.Compare(a.CreatedDate, b.CreatedDate)
		case "lastUpdatedTime":
			return strings.Compare(a.LastUpdatedTime, b.LastUpdatedTime)
		case "status":
			return strings.Compare(a.Status, b.Status)
		case "bookingYear":
			return strings.Compare(a.BookingYear, b.BookingYear)
		default:
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		for _, k := range keys {
			c := compare(orders[i], orders[j], k.field)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func (ds *dataset) page(q url.Values) orderapi.OrderPage {
	matched := make([]orderapi.Order, 0, len(ds.orders))
	for _, o := range ds.orders {
		if match(o, q) {
			matched = append(matched, o)
		}
	}
	sortOrders(matched, q["sort"])

	page, _ := strconv.Atoi(q.Get("page"))
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 25
	}
	from := min(page*size, len(matched))
	to := min(from+size, len(matched))
	echo := q["sort"]
	if len(echo) == 0 {
		echo = []string{"id,asc"}
	}
	return orderapi.OrderPage{
		Content:       matched[from:to],
		PageNumber:    page,
		PageSize:      size,
		TotalElements: int64(len(matched)),
		Sort:          echo,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (ds *dataset) queryOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ds.page(r.URL.Query()))
}

func (ds *dataset) transitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, transitions)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (ds *dataset) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if ok && id >= 1 && int(id) <= len(ds.orders) {
		writeJSON(w, ds.orders[id-1])
		return
	}
	http.NotFound(w, r)
}

func (ds *dataset) statusHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	h, ok := ds.history[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, h)
}

func (ds *dataset) listPersons(w http.ResponseWriter, r *http.Request) { writeJSON(w, ds.persons) }

func (ds *dataset) getPerson(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	for _, p := range ds.persons {
		if p.ID == id {
			writeJSON(w, p)
			return
		}
	}
	http.NotFound(w, r)
}

func (ds *dataset) listSuppliers(w http.ResponseWriter, r *http.Request) { writeJSON(w, ds.suppliers) }

func (ds *dataset) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	for _, s := range ds.suppliers {
		if s.ID == id {
			writeJSON(w, s)
			return
		}
	}
	http.NotFound(w, r)
}

func (ds *dataset) listCustomers(w http.ResponseWriter, r *http.Request) { writeJSON(w, ds.customers) }

func (ds *dataset) getCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, c := range ds.customers {
		if c.ID == id {
			writeJSON(w, c)
			return
		}
	}
	http.NotFound(w, r)
}

func (ds *dataset) listCostCenters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ds.costCenters)
}

func (ds *dataset) getCostCenter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, c := range ds.costCenters {
		if c.ID == id {
			writeJSON(w, c)
			return
		}
	}
	http.NotFound(w, r)
}
