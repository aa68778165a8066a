package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, user_id, stripe_customer_id, stripe_subscription_id, plan, status,
	current_period_end, created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.StripeCustomerID, &s.StripeSubscriptionID,
		&s.Plan, &s.Status, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSubscription creates or updates a subscription keyed by the provider's
// subscription ID. Webhook events arrive out of order, so the latest write wins.
func (db *DB) UpsertSubscription(ctx context.Context, s *Subscription) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO subscriptions (user_id, stripe_customer_id, stripe_subscription_id, plan, status, current_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (stripe_subscription_id)
		 DO UPDATE SET plan = $4, status = $5, current_period_end = $6, updated_at = NOW()`,
		s.UserID, s.StripeCustomerID, s.StripeSubscriptionID, s.Plan, s.Status, s.CurrentPeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// GetSubscriptionByUser retrieves the most recent subscription for a user
func (db *DB) GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	s, err := scanSubscription(db.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// UpdateSubscriptionStatus updates the status (and optionally period end) of a
// subscription identified by the provider's subscription ID.
func (db *DB) UpdateSubscriptionStatus(ctx context.Context, stripeSubscriptionID, status string, periodEnd *time.Time) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE subscriptions SET status = $1, current_period_end = COALESCE($2, current_period_end), updated_at = NOW()
		 WHERE stripe_subscription_id = $3`,
		status, periodEnd, stripeSubscriptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found: %s", stripeSubscriptionID)
	}
	return nil
}
