package domain

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a raw status string coming from storage or transport.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return Status(s), nil
	default:
		return "", &ValidationError{Field: "status", Value: s, Expected: "pending, processing, completed, failed, cancelled"}
	}
}

func (s Status) String() string { return string(s) }

func (s Status) IsPending() bool    { return s == StatusPending }
func (s Status) IsProcessing() bool { return s == StatusProcessing }
func (s Status) IsCompleted() bool  { return s == StatusCompleted }
func (s Status) IsFailed() bool     { return s == StatusFailed }
func (s Status) IsCancelled() bool  { return s == StatusCancelled }

// IsFinished reports whether the status is terminal for normal processing.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransitionTo enforces the allowed state machine edges.
// Failed and cancelled transcriptions may go back to pending via retry;
// completed is terminal.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusFailed || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed || to == StatusCancelled
	case StatusCompleted:
		return false
	case StatusFailed:
		return to == StatusPending
	case StatusCancelled:
		return to == StatusPending
	default:
		return false
	}
}
