// Package gviz reads Google Visualization ("gviz") query exports: the
// read-only bulk endpoint a published spreadsheet exposes. The response is
// JSON wrapped in a JavaScript callback that has to be stripped before
// parsing.
package gviz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client fetches sheet tables over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client using the given http.Client, or
// http.DefaultClient when nil.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc}
}

// Table is a parsed sheet: column labels plus row cells. Cells are nil when
// the sheet cell is empty.
type Table struct {
	Cols []string
	Rows [][]*Cell
}

// Cell is a single sheet value as decoded from the gviz JSON.
type Cell struct {
	Value interface{}
}

type gvizResponse struct {
	Table struct {
		Cols []struct {
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V interface{} `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// FetchTable downloads and parses one sheet export.
func (c *Client) FetchTable(ctx context.Context, url string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}
	return ParseTable(body)
}

// ParseTable strips the JavaScript wrapper around the gviz payload and
// decodes the table inside it.
func ParseTable(body []byte) (*Table, error) {
	s := string(body)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("malformed gviz response: no JSON object found")
	}

	var resp gvizResponse
	if err := json.Unmarshal([]byte(s[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("decode gviz response: %w", err)
	}

	t := &Table{}
	for _, col := range resp.Table.Cols {
		t.Cols = append(t.Cols, col.Label)
	}
	for _, row := range resp.Table.Rows {
		cells := make([]*Cell, len(row.C))
		for i, c := range row.C {
			if c != nil && c.V != nil {
				cells[i] = &Cell{Value: c.V}
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// String returns the cell as a string, empty for nil cells.
func (c *Cell) String() string {
	if c == nil || c.Value == nil {
		return ""
	}
	switch v := c.Value.(type) {
	case string:
		return v
	case float64:
		// sheet numbers arrive as float64; ids are typically integers
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Price returns the cell as a price, accepting both plain numbers and
// "$4.50"-style strings.
func (c *Cell) Price() float64 {
	if c == nil || c.Value == nil {
		return 0
	}
	switch v := c.Value.(type) {
	case float64:
		return v
	case string:
		p, err := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64)
		if err != nil {
			return 0
		}
		return p
	}
	return 0
}

// Int returns the cell as an integer, 0 for empty or non-numeric cells.
func (c *Cell) Int() int {
	if c == nil || c.Value == nil {
		return 0
	}
	switch v := c.Value.(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Time parses the cell's timestamp. Sheets export dates as
// "Date(2024,0,15,10,30,0)" with a zero-based month; RFC 3339 strings are
// accepted as well. Anything else is an error, never a silent fallback.
func (c *Cell) Time() (time.Time, error) {
	if c == nil || c.Value == nil {
		return time.Time{}, fmt.Errorf("empty timestamp cell")
	}
	s, ok := c.Value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp cell is not a string: %v", c.Value)
	}
	if strings.HasPrefix(s, "Date(") && strings.HasSuffix(s, ")") {
		return parseSheetDate(s)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, err)
	}
	return ts, nil
}

func parseSheetDate(s string) (time.Time, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "Date("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, fmt.Errorf("unparseable date cell %q", s)
	}
	nums := make([]int, 7)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable date cell %q: %w", s, err)
		}
		nums[i] = n
	}
	// month is zero-based in the sheet encoding
	return time.Date(nums[0], time.Month(nums[1]+1), nums[2], nums[3], nums[4], nums[5], nums[6]*int(time.Millisecond), time.UTC), nil
}
