package orderapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type Person struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

func (p Person) DisplayName() string {
	switch {
	case p.Name != "" && p.Surname != "":
		return p.Name + " " + p.Surname
	case p.Surname != "":
		return p.Surname
	default:
		return p.Name
	}
}

type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CostCenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) ListPersons(ctx context.Context) ([]Person, error) {
	var out []Person
	if _, err := c.doJSON(ctx, http.MethodGet, "/persons", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

func (c *Client) GetPerson(ctx context.Context, id int64) (Person, error) {
	var out Person
	if _, err := c.doJSON(ctx, http.MethodGet, "/persons/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	if _, err := c.doJSON(ctx, http.MethodGet, "/suppliers", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return out, nil
}

func (c *Client) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	var out Supplier
	if _, err := c.doJSON(ctx, http.MethodGet, "/suppliers/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return Supplier{}, fmt.Errorf("get supplier %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if _, err := c.doJSON(ctx, http.MethodGet, "/customers", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var out Customer
	if _, err := c.doJSON(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return Customer{}, fmt.Errorf("get customer %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) ListCostCenters(ctx context.Context) ([]CostCenter, error) {
	var out []CostCenter
	if _, err := c.doJSON(ctx, http.MethodGet, "/cost-centers", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list cost centers: %w", err)
	}
	return out, nil
}

func (c *Client) GetCostCenter(ctx context.Context, id string) (CostCenter, error) {
	var out CostCenter
	if _, err := c.doJSON(ctx, http.MethodGet, "/cost-centers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return CostCenter{}, fmt.Errorf("get cost center %s: %w", id, err)
	}
	return out, nil
}
