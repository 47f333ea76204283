package snapshot

// RunStatus describes the outcome of one recorder invocation.
type RunStatus string

const (
	// StatusRecorded means the snapshot for the target date was written.
	StatusRecorded RunStatus = "recorded"
	// StatusSkipped means another cycle held the run guard. Not a failure.
	StatusSkipped RunStatus = "skipped"
	// StatusFailed means the snapshot write itself failed.
	StatusFailed RunStatus = "failed"
)

// Trigger labels recorded in the run log.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerStartup   = "startup"
)

type RecordResult struct {
	Status     RunStatus `json:"status"`
	TargetDate string    `json:"target_date,omitempty"`
	TotalHours float64   `json:"total_hours"`
	GamesCount int       `json:"games_count"`
	// SourceError carries the playtime refresh failure, if any. The cycle
	// still records on stored hours, so Status stays "recorded".
	SourceError string `json:"source_error,omitempty"`
	Error       string `json:"error,omitempty"`
}
