package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/daniel/jobtrackr/internal/types"
)

// ---------------------------------------------------------------------
// Billing handlers (/v1/billing)
// ---------------------------------------------------------------------

func (s *Server) handleBillingCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if s.billing == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Billing is not configured")
		return
	}

	var req types.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.userService.Get(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	url, err := s.billing.CreateCheckoutSession(userID, user.Email, req.SuccessURL, req.CancelURL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Checkout failed: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, types.CheckoutResponse{URL: url})
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	sub, err := s.db.GetSubscriptionByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil {
		s.errorResponse(w, http.StatusNotFound, "No subscription")
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}

// handleBillingWebhook receives Stripe events. It authenticates by signature
// verification, not by bearer token.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	if s.billing == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Billing is not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	event, err := s.billing.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	if err := s.billing.HandleWebhookEvent(r.Context(), event); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to process event: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"received": "true"})
}
