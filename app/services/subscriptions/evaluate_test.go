package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

func futureDate(days int) string {
	return testNow.AddDate(0, 0, days).Format(DateLayout)
}

func TestEvaluateDeniesUnapproved(t *testing.T) {
	denial := Evaluate(nil, 0, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "not_approved", denial.Reason)

	free := &Subscription{UserID: 1, Plan: PlanFree}
	denial = Evaluate(free, 0, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "not_approved", denial.Reason)
}

func TestEvaluateAllowsValidPaid(t *testing.T) {
	sub := &Subscription{UserID: 1, Plan: PlanInstant, ValidUntil: futureDate(7)}
	assert.Nil(t, Evaluate(sub, 10, DefaultLimits, testNow))
}

func TestEvaluateEmptyDateFailsClosed(t *testing.T) {
	// A paid record must carry a date; an empty valid_until denies the
	// same way a corrupt one does instead of granting open-ended access.
	sub := &Subscription{UserID: 1, Plan: PlanInstantPlus, ValidUntil: ""}
	denial := Evaluate(sub, 10, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "internal", denial.Reason)
	assert.Equal(t, "An error occurred. Please try again later.", denial.Message)
}

func TestEvaluateExpiry(t *testing.T) {
	sub := &Subscription{UserID: 1, Plan: PlanInstant, ValidUntil: futureDate(-1)}
	denial := Evaluate(sub, 1, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "plan_expired", denial.Reason)
	assert.Equal(t, "Your plan has expired. Please contact the administrator.", denial.Message)

	// The stored date marks the start of its day, so a subscription ending
	// today has already lapsed by noon.
	sub.ValidUntil = testNow.Format(DateLayout)
	denial = Evaluate(sub, 1, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "plan_expired", denial.Reason)

	// Exactly at midnight of the stored day access still holds.
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	assert.Nil(t, Evaluate(sub, 1, DefaultLimits, midnight))
}

func TestEvaluateCorruptDateFailsClosed(t *testing.T) {
	sub := &Subscription{UserID: 1, Plan: PlanInstant, ValidUntil: "soon"}
	denial := Evaluate(sub, 1, DefaultLimits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "internal", denial.Reason)
	assert.Equal(t, "An error occurred. Please try again later.", denial.Message)
}

func TestEvaluateTierCapacity(t *testing.T) {
	limits := Limits{Instant: 2, InstantPlus: 3}
	sub := &Subscription{UserID: 1, Plan: PlanInstant, ValidUntil: futureDate(7)}

	// A tier holding exactly cap users stays usable.
	assert.Nil(t, Evaluate(sub, 2, limits, testNow))

	denial := Evaluate(sub, 3, limits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "plan_limit", denial.Reason)
	assert.Equal(t, "Your Instant Plan 🧡 is currently not available due to limit reached.", denial.Message)

	plus := &Subscription{UserID: 2, Plan: PlanInstantPlus, ValidUntil: futureDate(7)}
	denial = Evaluate(plus, 4, limits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "Your Instant++ Plan 💥 is currently not available due to limit reached.", denial.Message)
}

func TestEvaluateDenyOrderCapacityBeforeExpiry(t *testing.T) {
	limits := Limits{Instant: 1, InstantPlus: 1}
	sub := &Subscription{UserID: 1, Plan: PlanInstant, ValidUntil: futureDate(-5)}

	// Expired and over capacity: capacity wins.
	denial := Evaluate(sub, 2, limits, testNow)
	require.NotNil(t, denial)
	assert.Equal(t, "plan_limit", denial.Reason)
}
