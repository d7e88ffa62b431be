package sales

// SubmissionState tracks a cart's progress through recording a sale
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "IDLE"
	SubmissionSubmitting SubmissionState = "SUBMITTING"
	SubmissionSucceeded  SubmissionState = "SUCCEEDED"
	SubmissionFailed     SubmissionState = "FAILED"
)

// IsValid checks if the state is a valid SubmissionState
func (s SubmissionState) IsValid() bool {
	switch s {
	case SubmissionIdle, SubmissionSubmitting, SubmissionSucceeded, SubmissionFailed:
		return true
	}
	return false
}

// String returns the string representation of SubmissionState
func (s SubmissionState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s SubmissionState) CanTransitionTo(target SubmissionState) bool {
	switch s {
	case SubmissionIdle:
		return target == SubmissionSubmitting
	case SubmissionSubmitting:
		return target == SubmissionSucceeded || target == SubmissionFailed
	case SubmissionSucceeded, SubmissionFailed:
		return target == SubmissionIdle
	}
	return false
}

// AllowsCartChanges reports whether the cart may be edited in this state.
func (s SubmissionState) AllowsCartChanges() bool {
	return s != SubmissionSubmitting
}
