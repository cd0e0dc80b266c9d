package gviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const samplePayload = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","table":{
"cols":[{"label":"id"},{"label":"name"},{"label":"price"}],
"rows":[
{"c":[{"v":1},{"v":"Latte"},{"v":"$4.50"}]},
{"c":[{"v":2},{"v":"Mocha"},{"v":3.75}]},
{"c":[null,{"v":"ghost"},null]}
]}});`

func TestFetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	table, err := NewClient(srv.Client()).FetchTable(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch table: %v", err)
	}

	if len(table.Cols) != 3 || table.Cols[0] != "id" {
		t.Fatalf("cols = %v", table.Cols)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}

	if got := table.Rows[0][0].String(); got != "1" {
		t.Errorf("numeric id cell = %q, want \"1\"", got)
	}
	if got := table.Rows[0][2].Price(); got != 4.50 {
		t.Errorf("dollar price = %v, want 4.50", got)
	}
	if got := table.Rows[1][2].Price(); got != 3.75 {
		t.Errorf("numeric price = %v, want 3.75", got)
	}
	if table.Rows[2][0] != nil {
		t.Error("empty cell should be nil")
	}
}

func TestFetchTable_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.Client()).FetchTable(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestParseTable_NoJSON(t *testing.T) {
	if _, err := ParseTable([]byte("not a gviz payload")); err == nil {
		t.Fatal("expected error for body without JSON object")
	}
}

func TestCellTime_SheetDate(t *testing.T) {
	c := &Cell{Value: "Date(2024,0,15,10,30,5)"}
	ts, err := c.Time()
	if err != nil {
		t.Fatalf("parse sheet date: %v", err)
	}
	want := time.Date(2024, time.January, 15, 10, 30, 5, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("ts = %v, want %v", ts, want)
	}
}

func TestCellTime_RFC3339(t *testing.T) {
	c := &Cell{Value: "2025-03-14T09:30:00Z"}
	ts, err := c.Time()
	if err != nil {
		t.Fatalf("parse RFC3339: %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 {
		t.Fatalf("ts = %v", ts)
	}
}

func TestCellTime_Unparseable(t *testing.T) {
	for _, v := range []interface{}{"yesterday", "Date(nope)", 12.5} {
		c := &Cell{Value: v}
		if _, err := c.Time(); err == nil {
			t.Errorf("value %v: expected parse error", v)
		}
	}
	var empty *Cell
	if _, err := empty.Time(); err == nil {
		t.Error("nil cell: expected parse error")
	}
}
