package orders

import "time"

// Order statuses
const (
	StatusNew       = "New"
	StatusBrewing   = "Brewing"
	StatusOnHold    = "On Hold"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// RevisionCurrent marks the latest row for an order id in an append-only feed.
const RevisionCurrent = "Latest"

// Order is the central entity: one customer request for one drink, tracked
// through the status lifecycle. JSON names match the public wire format.
type Order struct {
	ID                  string     `json:"id" dynamodbav:"order_id"`
	CustomerID          string     `json:"customerId" dynamodbav:"customer_id"`
	CustomerName        string     `json:"customerName" dynamodbav:"customer_name"`
	DrinkName           string     `json:"drinkName" dynamodbav:"drink_name"`
	SeatingLocation     string     `json:"seatingLocation" dynamodbav:"seating_location"`
	SpecialInstructions string     `json:"specialInstructions,omitempty" dynamodbav:"special_instructions,omitempty"`
	Toppings            []string   `json:"toppings,omitempty" dynamodbav:"toppings,omitempty"` // topping names, denormalized copy
	Status              string     `json:"orderStatus" dynamodbav:"status"`
	Timestamp           time.Time  `json:"timestamp" dynamodbav:"timestamp"` // last-modified, rewritten on every transition
	Rating              int        `json:"rating,omitempty" dynamodbav:"rating,omitempty"`
	FeedbackComment     string     `json:"feedbackComment,omitempty" dynamodbav:"feedback_comment,omitempty"`
	FeedbackTimestamp   *time.Time `json:"feedbackTimestamp,omitempty" dynamodbav:"feedback_timestamp,omitempty"`
	Current             string     `json:"current,omitempty" dynamodbav:"current,omitempty"` // revision marker, feed backend only
}

// Draft carries the customer-supplied fields of a new order.
type Draft struct {
	CustomerName        string   `json:"customerName"`
	DrinkName           string   `json:"drinkName"`
	SeatingLocation     string   `json:"seatingLocation"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	Toppings            []string `json:"toppings,omitempty"`
}

// Validate checks the draft's required fields.
func (d Draft) Validate() error {
	switch {
	case d.DrinkName == "":
		return &ValidationError{Field: "drinkName", Reason: "required"}
	case d.CustomerName == "":
		return &ValidationError{Field: "customerName", Reason: "required"}
	case d.SeatingLocation == "":
		return &ValidationError{Field: "seatingLocation", Reason: "required"}
	}
	return nil
}

// New builds a fresh order from a validated draft.
func New(d Draft, id, customerID string, now time.Time) (Order, error) {
	if err := d.Validate(); err != nil {
		return Order{}, err
	}
	return Order{
		ID:                  id,
		CustomerID:          customerID,
		CustomerName:        d.CustomerName,
		DrinkName:           d.DrinkName,
		SeatingLocation:     d.SeatingLocation,
		SpecialInstructions: d.SpecialInstructions,
		Toppings:            d.Toppings,
		Status:              StatusNew,
		Timestamp:           now,
	}, nil
}

// HasFeedback reports whether feedback has already been attached.
func (o Order) HasFeedback() bool {
	return o.Rating != 0 || o.FeedbackTimestamp != nil
}

// ValidStatus reports whether s is one of the five known statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusBrewing, StatusOnHold, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func Terminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}
