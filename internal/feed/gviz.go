package feed

import (
	"context"
	"strings"

	"github.com/hazelbrew/cafe-orderflow/internal/gviz"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// Column labels of the orders sheet. The sheet carries one row per
// creation or change, appended by the feed writer.
const (
	colID                  = "id"
	colCustomerID          = "customerId"
	colCustomerName        = "customerName"
	colDrinkName           = "drinkName"
	colSeatingLocation     = "seatingLocation"
	colToppings            = "toppings"
	colSpecialInstructions = "specialInstructions"
	colOrderStatus         = "orderStatus"
	colTimestamp           = "timestamp"
	colRating              = "rating"
	colFeedbackComment     = "feedbackComment"
	colFeedbackTimestamp   = "feedbackTimestamp"
	colCurrent             = "current"
)

// GvizSource reads the spreadsheet-backed feed through its read-only gviz
// export. It has no write path; submissions go through a FormAppender or
// the queue.
type GvizSource struct {
	client *gviz.Client
	url    string
}

// NewGvizSource returns a Source reading the given export URL.
func NewGvizSource(client *gviz.Client, url string) *GvizSource {
	return &GvizSource{client: client, url: url}
}

// Fetch downloads the full history. The export always reflects every
// appended row; there is no caching underneath.
func (s *GvizSource) Fetch(ctx context.Context) ([]Row, error) {
	table, err := s.client.FetchTable(ctx, s.url)
	if err != nil {
		return nil, &orders.TransportError{Op: "fetch feed", Err: err}
	}

	idx := map[string]int{}
	for i, label := range table.Cols {
		idx[label] = i
	}
	cell := func(cells []*gviz.Cell, label string) *gviz.Cell {
		i, ok := idx[label]
		if !ok || i >= len(cells) {
			return nil
		}
		return cells[i]
	}

	var rows []Row
	for _, cells := range table.Rows {
		empty := true
		for _, c := range cells {
			if c != nil {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		o := orders.Order{
			ID:                  cell(cells, colID).String(),
			CustomerID:          cell(cells, colCustomerID).String(),
			CustomerName:        cell(cells, colCustomerName).String(),
			DrinkName:           cell(cells, colDrinkName).String(),
			SeatingLocation:     cell(cells, colSeatingLocation).String(),
			SpecialInstructions: cell(cells, colSpecialInstructions).String(),
			Status:              cell(cells, colOrderStatus).String(),
			Rating:              cell(cells, colRating).Int(),
			FeedbackComment:     cell(cells, colFeedbackComment).String(),
			Current:             cell(cells, colCurrent).String(),
		}

		if t := cell(cells, colToppings); t != nil {
			for _, name := range strings.Split(t.String(), ",") {
				if name = strings.TrimSpace(name); name != "" {
					o.Toppings = append(o.Toppings, name)
				}
			}
		}

		if c := cell(cells, colTimestamp); c != nil {
			ts, err := c.Time()
			if err != nil {
				return nil, &orders.TransportError{Op: "parse feed timestamp", Err: err}
			}
			o.Timestamp = ts
		}
		if c := cell(cells, colFeedbackTimestamp); c != nil {
			ts, err := c.Time()
			if err != nil {
				return nil, &orders.TransportError{Op: "parse feedback timestamp", Err: err}
			}
			o.FeedbackTimestamp = &ts
		}

		rows = append(rows, Row{Order: o})
	}
	return rows, nil
}
