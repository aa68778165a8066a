// Package billing wraps the Stripe SDK for the paid plan: checkout session
// creation and webhook-driven subscription sync.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/daniel/jobtrackr/internal/db"
)

// Store defines the subscription persistence the webhook handler needs.
type Store interface {
	UpsertSubscription(ctx context.Context, s *db.Subscription) error
	UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionID, status string, periodEnd *time.Time) error
	GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*db.Subscription, error)
}

// Config holds the Stripe credentials and the price for the paid plan.
type Config struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
}

// Enabled reports whether billing is configured.
func (c Config) Enabled() bool {
	return c.SecretKey != "" && c.PriceID != ""
}

// Service is a thin wrapper over the Stripe client. Webhook events are the
// source of truth for subscription state; nothing here retries or queues.
type Service struct {
	api   *client.API
	store Store
	cfg   Config
}

// NewService creates a billing service.
func NewService(store Store, cfg Config) *Service {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Service{
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

// CreateCheckoutSession starts a subscription checkout for a user and returns
// the hosted payment page URL. The user ID rides along as metadata so the
// webhook can link the subscription back.
func (s *Service) CreateCheckoutSession(userID uuid.UUID, email, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(successURL),
		CancelURL:     stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": userID.String()},
		},
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

// ParseWebhook verifies the webhook signature and decodes the event. The
// endpoint may be pinned to any Stripe API version, so version mismatch with
// the SDK is not treated as a verification failure.
func (s *Service) ParseWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}

// HandleWebhookEvent applies one verified Stripe event to the subscription
// table. Unknown event types are ignored.
func (s *Service) HandleWebhookEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		return s.syncSubscription(ctx, event)
	case "customer.subscription.deleted":
		return s.cancelSubscription(ctx, event)
	default:
		log.Printf("[billing] Ignoring event %s (%s)", event.ID, event.Type)
		return nil
	}
}

func (s *Service) syncSubscription(ctx context.Context, event stripe.Event) error {
	sub, err := parseSubscription(event)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(sub.Metadata["user_id"])
	if err != nil {
		return fmt.Errorf("subscription %s has no usable user_id metadata: %w", sub.ID, err)
	}

	record := &db.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		CurrentPeriodEnd:     periodEnd(sub),
	}
	if sub.Customer != nil {
		record.StripeCustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		record.Plan = sub.Items.Data[0].Price.ID
	}

	if err := s.store.UpsertSubscription(ctx, record); err != nil {
		return err
	}
	log.Printf("[billing] Synced subscription %s for user %s (%s)", sub.ID, userID, sub.Status)
	return nil
}

func (s *Service) cancelSubscription(ctx context.Context, event stripe.Event) error {
	sub, err := parseSubscription(event)
	if err != nil {
		return err
	}
	if err := s.store.UpdateSubscriptionStatus(ctx, sub.ID, db.SubscriptionStatusCanceled, periodEnd(sub)); err != nil {
		return err
	}
	log.Printf("[billing] Cancelled subscription %s", sub.ID)
	return nil
}

func parseSubscription(event stripe.Event) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to parse subscription from event %s: %w", event.ID, err)
	}
	return &sub, nil
}

func periodEnd(sub *stripe.Subscription) *time.Time {
	if sub.CurrentPeriodEnd == 0 {
		return nil
	}
	t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	return &t
}
