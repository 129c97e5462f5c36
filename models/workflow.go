package models

// CheckoutInput is the input of one checkout run (payment simulation + booking submission)
type CheckoutInput struct {
	WizardID    string         `json:"wizardId"`
	SessionID   string         `json:"sessionId"`
	Credentials string         `json:"credentials"`
	Request     BookingRequest `json:"request"`
}

// CheckoutResult reports the booking outcome
type CheckoutResult struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"bookingId,omitempty"`
	Error     string `json:"error,omitempty"`
	// Transport is set when the upstream could not be reached or answered garbage
	Transport bool `json:"transport,omitempty"`
}

// Queries for workflow state
const (
	QueryCheckoutState = "checkout_state"
)

// CheckoutStage is the stage a checkout workflow reports when queried
type CheckoutStage string

const (
	CheckoutStagePaying     CheckoutStage = "paying"
	CheckoutStageSubmitting CheckoutStage = "submitting"
	CheckoutStageDone       CheckoutStage = "done"
)
