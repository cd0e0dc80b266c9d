package validation

// CreateOrderRequest is the payload for POST /api/orders. The three
// required fields mirror the order form.
type CreateOrderRequest struct {
	CustomerName        string   `json:"customerName" validate:"required"`
	DrinkName           string   `json:"drinkName" validate:"required"`
	SeatingLocation     string   `json:"seatingLocation" validate:"required"` // e.g. "Table 5, Window Seat"
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	Toppings            []string `json:"toppings,omitempty"`
}

// UpdateStatusRequest is the payload for PATCH /api/orders/{orderId}.
type UpdateStatusRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required,orderstatus"`
}

// FeedbackRequest is the payload for POST /api/orders/{orderId}/feedback.
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}
