package subscriptions

import "time"

// Evaluate decides whether the subscription may use gated commands right now.
// It is a pure function: tierCount is the current number of users on the
// subscription's plan, now is the evaluation instant. A nil return means
// access is granted.
//
// Denials are checked in a fixed order: approval, tier capacity, expiry.
// A user with an expired subscription in a full tier sees the capacity
// message, not the expiry one.
func Evaluate(sub *Subscription, tierCount int, limits Limits, now time.Time) *AccessError {
	if sub == nil || !sub.Plan.Paid() {
		return ErrNotApproved
	}

	if limits.OverAccessCap(sub.Plan, tierCount) {
		return errTierUnavailable(sub.Plan)
	}

	// A paid record must carry a parseable date; empty or corrupt
	// values fail closed.
	until, err := time.ParseInLocation(DateLayout, sub.ValidUntil, time.Local)
	if err != nil {
		return ErrInternal
	}
	// until is midnight at the start of the stored day, so the
	// subscription lapses as soon as that day begins.
	if until.Before(now) {
		return ErrExpired
	}

	return nil
}
