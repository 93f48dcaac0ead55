package subscriptions

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/ishulazy/Venomm/core/logger"
	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.L = discard
	logger.SVCSubs = discard
	os.Exit(m.Run())
}

// memStore is an in-memory Store for service tests.
type memStore struct {
	subs     map[int64]Subscription
	failFind bool
}

func newMemStore() *memStore {
	return &memStore{subs: make(map[int64]Subscription)}
}

func (s *memStore) Find(_ context.Context, userID int64) (*Subscription, error) {
	if s.failFind {
		return nil, errors.New("store down")
	}
	sub, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *memStore) CountByPlan(_ context.Context, plan Plan) (int, error) {
	count := 0
	for _, sub := range s.subs {
		if sub.Plan == plan {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Upsert(_ context.Context, sub Subscription) error {
	s.subs[sub.UserID] = sub
	return nil
}

func (s *memStore) ResetAccess(_ context.Context, userID int64) error {
	s.subs[userID] = Subscription{UserID: userID, Plan: PlanFree}
	return nil
}

func newTestService(store Store, limits Limits) *Service {
	svc := NewService(store, limits)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAuthorizeUnknownUser(t *testing.T) {
	svc := newTestService(newMemStore(), DefaultLimits)
	denial := svc.Authorize(context.Background(), 42)
	require.NotNil(t, denial)
	assert.Equal(t, "not_approved", denial.Reason)
	assert.Equal(t, "You are not approved to use this bot. Please contact the administrator.", denial.Message)
}

func TestAuthorizeStoreFailureFailsClosed(t *testing.T) {
	store := newMemStore()
	store.failFind = true
	svc := newTestService(store, DefaultLimits)
	denial := svc.Authorize(context.Background(), 42)
	require.NotNil(t, denial)
	assert.Equal(t, "internal", denial.Reason)
}

func TestApproveThenAuthorize(t *testing.T) {
	svc := newTestService(newMemStore(), DefaultLimits)
	ctx := context.Background()

	sub, err := svc.Approve(ctx, 42, PlanInstant, 30)
	require.NoError(t, err)
	assert.Equal(t, futureDate(30), sub.ValidUntil)

	assert.Nil(t, svc.Authorize(ctx, 42))
}

func TestApproveRejectsUnknownPlan(t *testing.T) {
	svc := newTestService(newMemStore(), DefaultLimits)
	_, err := svc.Approve(context.Background(), 42, Plan(7), 30)
	assert.Error(t, err)
}

func TestApproveDefaultsToToday(t *testing.T) {
	svc := newTestService(newMemStore(), DefaultLimits)
	sub, err := svc.Approve(context.Background(), 42, PlanInstant, 0)
	require.NoError(t, err)
	assert.Equal(t, testNow.Format(DateLayout), sub.ValidUntil)
}

func TestApproveResetsAccessCounter(t *testing.T) {
	store := newMemStore()
	store.subs[42] = Subscription{UserID: 42, Plan: PlanInstant, ValidUntil: futureDate(1), AccessCount: 5}
	svc := newTestService(store, DefaultLimits)

	_, err := svc.Approve(context.Background(), 42, PlanInstantPlus, 30)
	require.NoError(t, err)
	sub, err := svc.Account(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.AccessCount)
}

func TestApproveCapacity(t *testing.T) {
	store := newMemStore()
	limits := Limits{Instant: 2, InstantPlus: 2}
	svc := newTestService(store, limits)
	ctx := context.Background()

	_, err := svc.Approve(ctx, 1, PlanInstant, 30)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, 2, PlanInstant, 30)
	require.NoError(t, err)

	// Third approval hits the cap.
	_, err = svc.Approve(ctx, 3, PlanInstant, 30)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, PlanInstant, capErr.Plan)
	assert.Equal(t, "Approval failed: Instant Plan 🧡 limit reached (2 users).", capErr.UserMessage())

	// Re-approving an existing member is still refused while the tier is full.
	_, err = svc.Approve(ctx, 1, PlanInstant, 30)
	assert.ErrorAs(t, err, &capErr)

	// The other tier is unaffected.
	_, err = svc.Approve(ctx, 3, PlanInstantPlus, 30)
	assert.NoError(t, err)
}

func TestFullTierStillGrantsAccess(t *testing.T) {
	// Approvals stop at the cap, but members of an exactly-full tier keep
	// access: count == cap denies new approvals yet passes evaluation.
	store := newMemStore()
	limits := Limits{Instant: 2, InstantPlus: 2}
	svc := newTestService(store, limits)
	ctx := context.Background()

	_, err := svc.Approve(ctx, 1, PlanInstant, 30)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, 2, PlanInstant, 30)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 3, PlanInstant, 30)
	assert.Error(t, err)

	assert.Nil(t, svc.Authorize(ctx, 1))
	assert.Nil(t, svc.Authorize(ctx, 2))
}

func TestAuthorizeExpired(t *testing.T) {
	store := newMemStore()
	store.subs[42] = Subscription{UserID: 42, Plan: PlanInstant, ValidUntil: futureDate(-1)}
	svc := newTestService(store, DefaultLimits)

	denial := svc.Authorize(context.Background(), 42)
	require.NotNil(t, denial)
	assert.Equal(t, "plan_expired", denial.Reason)
}

func TestDisapproveIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, DefaultLimits)
	ctx := context.Background()

	_, err := svc.Approve(ctx, 42, PlanInstant, 30)
	require.NoError(t, err)

	require.NoError(t, svc.Disapprove(ctx, 42))
	denial := svc.Authorize(ctx, 42)
	require.NotNil(t, denial)
	assert.Equal(t, "not_approved", denial.Reason)

	// Revoking again, or revoking a user never approved, also succeeds.
	require.NoError(t, svc.Disapprove(ctx, 42))
	require.NoError(t, svc.Disapprove(ctx, 777))

	sub, err := svc.Account(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, PlanFree, sub.Plan)
	assert.Equal(t, 0, sub.AccessCount)
	assert.Empty(t, sub.ValidUntil)
}

func TestAccountMissing(t *testing.T) {
	svc := newTestService(newMemStore(), DefaultLimits)
	sub, err := svc.Account(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, sub)
}
