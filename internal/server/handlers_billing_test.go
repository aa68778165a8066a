package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/types"
)

func TestHandleGetSubscription(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	t.Run("no subscription", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/billing/subscription", userID, nil)
		rec := httptest.NewRecorder()
		s.handleGetSubscription(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("active subscription", func(t *testing.T) {
		periodEnd := time.Now().Add(30 * 24 * time.Hour)
		require.NoError(t, s.mock.UpsertSubscription(context.Background(), &db.Subscription{
			UserID:               userID,
			StripeCustomerID:     "cus_123",
			StripeSubscriptionID: "sub_123",
			Plan:                 "price_pro",
			Status:               db.SubscriptionStatusActive,
			CurrentPeriodEnd:     &periodEnd,
		}))

		req := authedRequest(http.MethodGet, "/v1/billing/subscription", userID, nil)
		rec := httptest.NewRecorder()
		s.handleGetSubscription(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var sub db.Subscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, "sub_123", sub.StripeSubscriptionID)
		assert.Equal(t, db.SubscriptionStatusActive, sub.Status)
	})
}

func TestHandleBillingCheckout_NotConfigured(t *testing.T) {
	s := newTestServer()
	userID := s.addUser(t, "Dana", "dana@example.com")

	req := authedRequest(http.MethodPost, "/v1/billing/checkout", userID, types.CheckoutRequest{
		SuccessURL: "https://app.example.com/billing/success",
		CancelURL:  "https://app.example.com/billing/cancel",
	})
	rec := httptest.NewRecorder()
	s.handleBillingCheckout(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHandleBillingWebhook_NotConfigured(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", nil)
	rec := httptest.NewRecorder()
	s.handleBillingWebhook(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
