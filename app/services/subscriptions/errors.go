package subscriptions

import "fmt"

// AccessError explains why a gated command was refused.
// Message is safe to send back to the user verbatim.
type AccessError struct {
	Reason  string
	Message string
}

func (e *AccessError) Error() string {
	return "subscriptions: access denied: " + e.Reason
}

// Code feeds the structured handler summary log.
func (e *AccessError) Code() string { return e.Reason }

var (
	// ErrNotApproved covers missing records and the free tier alike.
	ErrNotApproved = &AccessError{
		Reason:  "not_approved",
		Message: "You are not approved to use this bot. Please contact the administrator.",
	}

	// ErrExpired marks a paid subscription past its valid_until date.
	ErrExpired = &AccessError{
		Reason:  "plan_expired",
		Message: "Your plan has expired. Please contact the administrator.",
	}

	// ErrInternal hides storage and data faults behind a generic denial.
	ErrInternal = &AccessError{
		Reason:  "internal",
		Message: "An error occurred. Please try again later.",
	}
)

func errTierUnavailable(p Plan) *AccessError {
	return &AccessError{
		Reason:  "plan_limit",
		Message: fmt.Sprintf("Your %s is currently not available due to limit reached.", p.Label()),
	}
}

// CapacityError rejects an approval into a tier that is already full.
type CapacityError struct {
	Plan Plan
	Cap  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("subscriptions: %s is full (%d users)", e.Plan.Label(), e.Cap)
}

// Code feeds the structured handler summary log.
func (e *CapacityError) Code() string { return "approval_limit" }

// UserMessage is the reply sent to the admin who issued the approval.
func (e *CapacityError) UserMessage() string {
	return fmt.Sprintf("Approval failed: %s limit reached (%d users).", e.Plan.Label(), e.Cap)
}
