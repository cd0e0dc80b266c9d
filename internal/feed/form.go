package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// FormAppender writes to the spreadsheet feed the only way it accepts
// writes: one form submission per row. The forms endpoint appends; the
// sheet-side writer is responsible for marking the new row current.
type FormAppender struct {
	httpClient *http.Client
	url        string
}

// NewFormAppender returns an Appender posting to the given forms endpoint.
func NewFormAppender(hc *http.Client, url string) *FormAppender {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &FormAppender{httpClient: hc, url: url}
}

// Append submits one row. A non-2xx response or network failure is a
// TransportError; the caller surfaces it rather than dropping the write.
func (a *FormAppender) Append(ctx context.Context, sub Submission) error {
	o := sub.Order
	form := url.Values{}
	form.Set("submissionId", sub.ID)
	form.Set(colID, o.ID)
	form.Set(colCustomerID, o.CustomerID)
	form.Set(colCustomerName, o.CustomerName)
	form.Set(colDrinkName, o.DrinkName)
	form.Set(colSeatingLocation, o.SeatingLocation)
	form.Set(colOrderStatus, o.Status)
	form.Set(colTimestamp, o.Timestamp.UTC().Format(time.RFC3339))
	if len(o.Toppings) > 0 {
		form.Set(colToppings, strings.Join(o.Toppings, ", "))
	}
	if o.SpecialInstructions != "" {
		form.Set(colSpecialInstructions, o.SpecialInstructions)
	}
	if o.Rating != 0 {
		form.Set(colRating, strconv.Itoa(o.Rating))
	}
	if o.FeedbackComment != "" {
		form.Set(colFeedbackComment, o.FeedbackComment)
	}
	if o.FeedbackTimestamp != nil {
		form.Set(colFeedbackTimestamp, o.FeedbackTimestamp.UTC().Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, strings.NewReader(form.Encode()))
	if err != nil {
		return &orders.TransportError{Op: "build form submission", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &orders.TransportError{Op: "submit feed row", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &orders.TransportError{Op: "submit feed row", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
