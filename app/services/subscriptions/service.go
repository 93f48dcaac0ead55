package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/ishulazy/Venomm/core/logger"
	"log/slog"
)

// Service applies access policy on top of a Store.
type Service struct {
	store  Store
	limits Limits
	now    func() time.Time
}

// NewService builds a Service with production limits unless overridden.
func NewService(store Store, limits Limits) *Service {
	if limits.Instant <= 0 {
		limits.Instant = DefaultLimits.Instant
	}
	if limits.InstantPlus <= 0 {
		limits.InstantPlus = DefaultLimits.InstantPlus
	}
	return &Service{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
}

// Limits returns the caps the service enforces.
func (s *Service) Limits() Limits { return s.limits }

// Authorize decides whether the user may run gated commands.
// It returns nil on success and an *AccessError carrying the user-facing
// denial message otherwise. Storage faults fail closed as ErrInternal.
func (s *Service) Authorize(ctx context.Context, userID int64) *AccessError {
	sub, err := s.store.Find(ctx, userID)
	if err != nil {
		logger.SVCSubs.Error("lookup failed",
			slog.String("event", "authorize.lookup.fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return ErrInternal
	}
	if sub == nil || !sub.Plan.Paid() {
		return ErrNotApproved
	}

	tierCount, err := s.store.CountByPlan(ctx, sub.Plan)
	if err != nil {
		logger.SVCSubs.Error("tier count failed",
			slog.String("event", "authorize.count.fail"),
			slog.Int64("user_id", userID),
			slog.Int("plan", int(sub.Plan)),
			slog.String("err", err.Error()),
		)
		return ErrInternal
	}

	denial := Evaluate(sub, tierCount, s.limits, s.now())
	if denial != nil {
		logger.SVCSubs.Info("access denied",
			slog.String("event", "authorize.deny"),
			slog.String("outcome", "denied"),
			slog.Int64("user_id", userID),
			slog.Int("plan", int(sub.Plan)),
			slog.String("valid_until", sub.ValidUntil),
			slog.Int("tier_count", tierCount),
			slog.String("reason", denial.Reason),
		)
		return denial
	}

	logger.SVCSubs.Info("access granted",
		slog.String("event", "authorize.allow"),
		slog.String("outcome", "ok"),
		slog.Int64("user_id", userID),
		slog.Int("plan", int(sub.Plan)),
	)
	return nil
}

// Approve grants a plan for the given number of days. A non-positive days
// value grants through today only. Paid tiers must have room: an approval
// into a tier holding cap users or more is refused with *CapacityError.
// The access counter starts over on every approval.
func (s *Service) Approve(ctx context.Context, userID int64, plan Plan, days int) (*Subscription, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("subscriptions: unknown plan %d", plan)
	}

	if plan.Paid() {
		tierCount, err := s.store.CountByPlan(ctx, plan)
		if err != nil {
			return nil, err
		}
		if s.limits.AtApprovalCap(plan, tierCount) {
			cap, _ := s.limits.Cap(plan)
			return nil, &CapacityError{Plan: plan, Cap: cap}
		}
	}

	validUntil := s.now()
	if days > 0 {
		validUntil = validUntil.AddDate(0, 0, days)
	}
	sub := Subscription{
		UserID:     userID,
		Plan:       plan,
		ValidUntil: validUntil.Format(DateLayout),
	}
	if err := s.store.Upsert(ctx, sub); err != nil {
		return nil, err
	}

	logger.SVCSubs.Info("user approved",
		slog.String("event", "approve"),
		slog.String("outcome", "ok"),
		slog.Int64("target_user_id", userID),
		slog.Int("plan", int(plan)),
		slog.Int("days", days),
		slog.String("valid_until", sub.ValidUntil),
	)
	return &sub, nil
}

// Disapprove reverts a user to the free tier. It is idempotent: revoking a
// user who was never approved succeeds and leaves a zeroed record behind.
func (s *Service) Disapprove(ctx context.Context, userID int64) error {
	if err := s.store.ResetAccess(ctx, userID); err != nil {
		return err
	}
	logger.SVCSubs.Info("user disapproved",
		slog.String("event", "disapprove"),
		slog.String("outcome", "ok"),
		slog.Int64("target_user_id", userID),
	)
	return nil
}

// Account returns the stored record for display, (nil, nil) when absent.
func (s *Service) Account(ctx context.Context, userID int64) (*Subscription, error) {
	return s.store.Find(ctx, userID)
}
