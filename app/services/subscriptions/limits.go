package subscriptions

// Per-tier capacity caps. Approvals stop at the cap (count >= cap denies the
// approval), while already-approved users are only locked out once the tier
// is strictly over it (count > cap). The asymmetry is deliberate: the last
// approved user keeps access even when the tier is exactly full.
const (
	InstantUserCap     = 99
	InstantPlusUserCap = 499
)

// Limits carries the per-tier caps so tests can shrink them.
type Limits struct {
	Instant     int
	InstantPlus int
}

// DefaultLimits is the production capacity configuration.
var DefaultLimits = Limits{
	Instant:     InstantUserCap,
	InstantPlus: InstantPlusUserCap,
}

// Cap returns the capacity for a plan; ok is false for uncapped plans.
func (l Limits) Cap(p Plan) (int, bool) {
	switch p {
	case PlanInstant:
		return l.Instant, true
	case PlanInstantPlus:
		return l.InstantPlus, true
	default:
		return 0, false
	}
}

// AtApprovalCap reports whether another approval into the plan must be refused.
func (l Limits) AtApprovalCap(p Plan, count int) bool {
	cap, ok := l.Cap(p)
	if !ok {
		return false
	}
	return count >= cap
}

// OverAccessCap reports whether existing members of the plan are locked out.
func (l Limits) OverAccessCap(p Plan, count int) bool {
	cap, ok := l.Cap(p)
	if !ok {
		return false
	}
	return count > cap
}
