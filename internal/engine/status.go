package engine

// Status is the task lifecycle tag. The storage column stays a plain string,
// so unknown values read back unchanged; these constants cover everything the
// engine itself writes.
type Status string

const (
	StatusPending Status = "pending"
	StatusQuick   Status = "quick"
	StatusDone    Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusQuick, StatusDone:
		return true
	default:
		return false
	}
}

// StatusForEstimate computes the creation-time status: "quick" marks the
// two-minute-rule band (0, 2] and counts as not done everywhere completion is
// checked.
func StatusForEstimate(estimatedMinutes int) Status {
	if estimatedMinutes > 0 && estimatedMinutes <= 2 {
		return StatusQuick
	}
	return StatusPending
}
