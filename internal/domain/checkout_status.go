package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle            CheckoutStatus = "IDLE"
	CheckoutStatusSubmitting      CheckoutStatus = "SUBMITTING"
	CheckoutStatusOrderCreated    CheckoutStatus = "ORDER_CREATED"
	CheckoutStatusAwaitingPayment CheckoutStatus = "AWAITING_PAYMENT"
	CheckoutStatusCompleted       CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed          CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo enumerates the legal edges of the checkout flow.
// Failed is recoverable: the user may resubmit, which restarts at Idle.
func CanTransitionTo(from, to CheckoutStatus) bool {
	switch from {
	case CheckoutStatusIdle:
		return to == CheckoutStatusSubmitting
	case CheckoutStatusSubmitting:
		return to == CheckoutStatusOrderCreated || to == CheckoutStatusIdle
	case CheckoutStatusOrderCreated:
		return to == CheckoutStatusAwaitingPayment || to == CheckoutStatusCompleted
	case CheckoutStatusAwaitingPayment:
		return to == CheckoutStatusCompleted || to == CheckoutStatusFailed
	case CheckoutStatusFailed:
		return to == CheckoutStatusIdle
	default:
		return false
	}
}
