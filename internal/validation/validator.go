package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/hazelbrew/cafe-orderflow/internal/orders"
)

// New returns a configured validator with the custom order-status rule
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterValidation("orderstatus", func(fl validatorv10.FieldLevel) bool {
		return orders.ValidStatus(fl.Field().String())
	})

	return v
}
