// Package catalog reads the drink menu and topping list: reference data
// published as two sheets. Orders copy topping names by value, so catalog
// edits never rewrite past orders.
package catalog

import (
	"context"
	"strings"

	"github.com/hazelbrew/cafe-orderflow/internal/gviz"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// Drink is one menu entry.
type Drink struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Temperature string  `json:"temperature"` // "warm" or "iced"
}

// Topping is an optional extra with its own price.
type Topping struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog fetches reference data from the published sheets.
type Catalog struct {
	client      *gviz.Client
	menuURL     string
	toppingsURL string
}

// New returns a Catalog reading the given sheet export URLs.
func New(client *gviz.Client, menuURL, toppingsURL string) *Catalog {
	return &Catalog{client: client, menuURL: menuURL, toppingsURL: toppingsURL}
}

// Drinks returns the menu. Rows without id or name are dropped; a missing
// temperature defaults to warm.
func (c *Catalog) Drinks(ctx context.Context) ([]Drink, error) {
	table, err := c.client.FetchTable(ctx, c.menuURL)
	if err != nil {
		return nil, &orders.TransportError{Op: "fetch drink menu", Err: err}
	}

	var drinks []Drink
	for _, row := range table.Rows {
		d := Drink{
			ID:          cell(row, 0).String(),
			Name:        cell(row, 1).String(),
			Price:       cell(row, 2).Price(),
			Description: cell(row, 3).String(),
			Temperature: strings.ToLower(cell(row, 4).String()),
		}
		if d.ID == "" || d.Name == "" {
			continue
		}
		if d.Temperature == "" {
			d.Temperature = "warm"
		}
		drinks = append(drinks, d)
	}
	return drinks, nil
}

// Toppings returns the topping list, dropping rows without id or name.
func (c *Catalog) Toppings(ctx context.Context) ([]Topping, error) {
	table, err := c.client.FetchTable(ctx, c.toppingsURL)
	if err != nil {
		return nil, &orders.TransportError{Op: "fetch toppings", Err: err}
	}

	var toppings []Topping
	for _, row := range table.Rows {
		t := Topping{
			ID:    cell(row, 0).String(),
			Name:  cell(row, 1).String(),
			Price: cell(row, 2).Price(),
		}
		if t.ID == "" || t.Name == "" {
			continue
		}
		toppings = append(toppings, t)
	}
	return toppings, nil
}

func cell(row []*gviz.Cell, i int) *gviz.Cell {
	if i >= len(row) {
		return nil
	}
	return row[i]
}
