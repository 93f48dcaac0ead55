package subscriptions

// Plan enumerates subscription tiers. The zero value means no access.
type Plan int

const (
	PlanFree        Plan = 0
	PlanInstant     Plan = 1
	PlanInstantPlus Plan = 2
)

// Label returns the user-facing tier name.
func (p Plan) Label() string {
	switch p {
	case PlanInstant:
		return "Instant Plan 🧡"
	case PlanInstantPlus:
		return "Instant++ Plan 💥"
	default:
		return "Free"
	}
}

// Paid reports whether the plan grants access to gated commands.
func (p Plan) Paid() bool {
	return p == PlanInstant || p == PlanInstantPlus
}

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanInstant || p == PlanInstantPlus
}

// Subscription is the persisted access record for a single user.
// ValidUntil holds an ISO date ("2006-01-02") or the empty string for
// subscriptions without an expiry term.
type Subscription struct {
	UserID      int64  `db:"user_id"`
	Plan        Plan   `db:"plan"`
	ValidUntil  string `db:"valid_until"`
	AccessCount int    `db:"access_count"`
}

// DateLayout is the storage format of Subscription.ValidUntil.
const DateLayout = "2006-01-02"
