package orders

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func mkOrder(status string) Order {
	return Order{
		ID:              "o1",
		CustomerID:      "cust_42",
		CustomerName:    "Ana",
		DrinkName:       "Latte",
		SeatingLocation: "Table 3",
		Status:          status,
		Timestamp:       t0,
	}
}

func TestTransition_Adjacency(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusNew, StatusBrewing, true},
		{StatusNew, StatusOnHold, true},
		{StatusNew, StatusCancelled, true},
		{StatusNew, StatusDelivered, false},
		{StatusBrewing, StatusOnHold, true},
		{StatusBrewing, StatusDelivered, true},
		{StatusBrewing, StatusCancelled, true},
		{StatusOnHold, StatusBrewing, true},
		{StatusOnHold, StatusDelivered, true},
		{StatusOnHold, StatusCancelled, true},
		{StatusDelivered, StatusBrewing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusNew, false},
		{StatusCancelled, StatusBrewing, false},
	}

	for _, c := range cases {
		later := t0.Add(time.Minute)
		got, err := Transition(mkOrder(c.from), c.to, ActorStaff, later)
		if c.ok {
			if err != nil {
				t.Errorf("%s -> %s: unexpected error %v", c.from, c.to, err)
				continue
			}
			if got.Status != c.to {
				t.Errorf("%s -> %s: status = %s", c.from, c.to, got.Status)
			}
			if !got.Timestamp.Equal(later) {
				t.Errorf("%s -> %s: timestamp not rewritten", c.from, c.to)
			}
		} else {
			if !IsInvalidState(err) {
				t.Errorf("%s -> %s: want InvalidStateError, got %v", c.from, c.to, err)
			}
			if got.Status != c.from {
				t.Errorf("%s -> %s: order mutated on failed transition", c.from, c.to)
			}
		}
	}
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	got, err := Transition(mkOrder(StatusBrewing), StatusBrewing, ActorStaff, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("same-status transition should be a no-op, got %v", err)
	}
	if !got.Timestamp.Equal(t0) {
		t.Fatal("no-op transition must not bump timestamp")
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	_, err := Transition(mkOrder(StatusNew), "Percolating", ActorStaff, t0)
	if !IsValidation(err) {
		t.Fatalf("want ValidationError for unknown status, got %v", err)
	}
}

func TestTransition_CustomerCanOnlyCancel(t *testing.T) {
	if _, err := Transition(mkOrder(StatusNew), StatusBrewing, ActorCustomer, t0); !IsInvalidState(err) {
		t.Fatalf("customer setting Brewing: want InvalidStateError, got %v", err)
	}

	got, err := Transition(mkOrder(StatusBrewing), StatusCancelled, ActorCustomer, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("customer cancel of Brewing order: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, want Cancelled", got.Status)
	}
}

func TestTransition_CancelRejectedWhenTerminal(t *testing.T) {
	for _, s := range []string{StatusDelivered, StatusCancelled} {
		if _, err := Transition(mkOrder(s), StatusCancelled, ActorCustomer, t0); !IsInvalidState(err) {
			t.Errorf("cancel of %s order: want InvalidStateError, got %v", s, err)
		}
	}
}

func TestAttachFeedback(t *testing.T) {
	o := mkOrder(StatusDelivered)

	got, err := AttachFeedback(o, 5, "Great!", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("attach feedback: %v", err)
	}
	if got.Rating != 5 || got.FeedbackComment != "Great!" || got.FeedbackTimestamp == nil {
		t.Fatalf("feedback fields not set: %+v", got)
	}
	if got.Status != StatusDelivered || !got.Timestamp.Equal(t0) {
		t.Fatal("feedback must not change status or timestamp")
	}

	// second attempt
	if _, err := AttachFeedback(got, 4, "again", t0.Add(time.Hour)); !IsInvalidState(err) {
		t.Fatalf("second feedback: want InvalidStateError, got %v", err)
	}
}

func TestAttachFeedback_RequiresDelivered(t *testing.T) {
	for _, s := range []string{StatusNew, StatusBrewing, StatusOnHold, StatusCancelled} {
		if _, err := AttachFeedback(mkOrder(s), 3, "", t0); !IsInvalidState(err) {
			t.Errorf("feedback on %s order: want InvalidStateError, got %v", s, err)
		}
	}
}

func TestAttachFeedback_RatingBounds(t *testing.T) {
	for _, r := range []int{0, -1, 6, 42} {
		if _, err := AttachFeedback(mkOrder(StatusDelivered), r, "", t0); !IsValidation(err) {
			t.Errorf("rating %d: want ValidationError, got %v", r, err)
		}
	}
}

func TestDraftValidate(t *testing.T) {
	d := Draft{CustomerName: "Ana", DrinkName: "Latte", SeatingLocation: "Table 3"}
	if err := d.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	for _, bad := range []Draft{
		{CustomerName: "Ana", SeatingLocation: "Table 3"},
		{DrinkName: "Latte", SeatingLocation: "Table 3"},
		{CustomerName: "Ana", DrinkName: "Latte"},
	} {
		if err := bad.Validate(); !IsValidation(err) {
			t.Errorf("draft %+v: want ValidationError, got %v", bad, err)
		}
	}
}

func TestNew(t *testing.T) {
	d := Draft{CustomerName: "Ana", DrinkName: "Latte", SeatingLocation: "Table 3"}
	o, err := New(d, "o1", "cust_42", t0)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	if o.Status != StatusNew {
		t.Fatalf("status = %s, want New", o.Status)
	}
	if o.ID != "o1" || o.CustomerID != "cust_42" || o.DrinkName != "Latte" {
		t.Fatalf("fields not preserved: %+v", o)
	}
	if !o.Timestamp.Equal(t0) {
		t.Fatal("timestamp not set")
	}
}

func TestErrNotFoundIsSentinel(t *testing.T) {
	wrapped := &TransportError{Op: "lookup", Err: ErrNotFound}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("TransportError must unwrap to its cause")
	}
}
