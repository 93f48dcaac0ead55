package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store persists subscription records.
type Store interface {
	// Find returns the record for a user, or (nil, nil) when absent.
	Find(ctx context.Context, userID int64) (*Subscription, error)
	// CountByPlan counts users currently holding the plan.
	CountByPlan(ctx context.Context, plan Plan) (int, error)
	// Upsert inserts or replaces the record keyed by user_id,
	// including the access counter.
	Upsert(ctx context.Context, sub Subscription) error
	// ResetAccess downgrades a user to the free tier and zeroes the counter.
	ResetAccess(ctx context.Context, userID int64) error
}

// PostgresStore implements Store on a sqlx Postgres handle.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps the provided database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, userID int64) (*Subscription, error) {
	var sub Subscription
	err := s.db.GetContext(ctx, &sub,
		`SELECT user_id, plan, valid_until, access_count
		   FROM subscriptions
		  WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("subscriptions: find user %d: %w", userID, err)
	}
	return &sub, nil
}

func (s *PostgresStore) CountByPlan(ctx context.Context, plan Plan) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE plan = $1`, plan)
	if err != nil {
		return 0, fmt.Errorf("subscriptions: count plan %d: %w", plan, err)
	}
	return count, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, sub Subscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, valid_until, access_count)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		    SET plan = EXCLUDED.plan,
		        valid_until = EXCLUDED.valid_until,
		        access_count = EXCLUDED.access_count`,
		sub.UserID, sub.Plan, sub.ValidUntil, sub.AccessCount)
	if err != nil {
		return fmt.Errorf("subscriptions: upsert user %d: %w", sub.UserID, err)
	}
	return nil
}

func (s *PostgresStore) ResetAccess(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, valid_until, access_count)
		 VALUES ($1, $2, '', 0)
		 ON CONFLICT (user_id) DO UPDATE
		    SET plan = $2,
		        valid_until = '',
		        access_count = 0`,
		userID, PlanFree)
	if err != nil {
		return fmt.Errorf("subscriptions: reset user %d: %w", userID, err)
	}
	return nil
}
