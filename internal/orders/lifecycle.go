package orders

import (
	"fmt"
	"time"
)

// Actor identifies who is requesting a transition. Staff drive the full
// workflow; customers may only cancel their own orders.
type Actor int

const (
	ActorStaff Actor = iota
	ActorCustomer
)

// adjacency lists the reachable targets per source status. Delivered and
// Cancelled are terminal.
var adjacency = map[string][]string{
	StatusNew:       {StatusBrewing, StatusOnHold, StatusCancelled},
	StatusBrewing:   {StatusOnHold, StatusDelivered, StatusCancelled},
	StatusOnHold:    {StatusBrewing, StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to string) bool {
	for _, t := range adjacency[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition applies a status change and returns the updated order.
//
// A staff request for the order's current status is a no-op: the order is
// returned unchanged, without a timestamp bump. Customer requests are
// restricted to cancellation of a not-yet-terminal order. Every effective
// transition rewrites Timestamp to now.
func Transition(o Order, to string, actor Actor, now time.Time) (Order, error) {
	if !ValidStatus(to) {
		return o, &ValidationError{Field: "orderStatus", Reason: fmt.Sprintf("unknown status %q", to)}
	}

	if actor == ActorCustomer {
		if to != StatusCancelled {
			return o, &InvalidStateError{OrderID: o.ID, Reason: fmt.Sprintf("customers may only cancel, not set %q", to)}
		}
		if Terminal(o.Status) {
			return o, &InvalidStateError{OrderID: o.ID, Reason: fmt.Sprintf("cannot cancel a %s order", o.Status)}
		}
	}

	if to == o.Status {
		// same-state request, nothing to persist
		return o, nil
	}

	if !CanTransition(o.Status, to) {
		return o, &InvalidStateError{OrderID: o.ID, Reason: fmt.Sprintf("illegal transition %s -> %s", o.Status, to)}
	}

	o.Status = to
	o.Timestamp = now
	return o, nil
}

// AttachFeedback sets the one-time rating and comment on a delivered order.
// It does not change Status or Timestamp.
func AttachFeedback(o Order, rating int, comment string, now time.Time) (Order, error) {
	if rating < 1 || rating > 5 {
		return o, &ValidationError{Field: "rating", Reason: "must be an integer between 1 and 5"}
	}
	if o.Status != StatusDelivered {
		return o, &InvalidStateError{OrderID: o.ID, Reason: fmt.Sprintf("feedback requires a Delivered order, got %s", o.Status)}
	}
	if o.HasFeedback() {
		return o, &InvalidStateError{OrderID: o.ID, Reason: "feedback already submitted"}
	}

	o.Rating = rating
	o.FeedbackComment = comment
	ts := now
	o.FeedbackTimestamp = &ts
	return o, nil
}
