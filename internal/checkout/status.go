package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
