package types

import (
	"github.com/go-playground/validator/v10"
)

// CheckoutRequest starts a subscription checkout.
type CheckoutRequest struct {
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// CheckoutResponse carries the hosted payment page URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// Validate validates the CheckoutRequest using the validator.
func (r *CheckoutRequest) Validate() error {
	return validator.New().Struct(r)
}
