package domain

import "time"

// TaskStatus is the status of a refresh task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// RefreshTask is a unit of scheduled refresh work. The latest task per
// page governs whether the page is due; a failed task makes the page
// immediately re-eligible on the next scheduler run.
type RefreshTask struct {
	ID          int64      `json:"id"`
	PageID      int64      `json:"page_id"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BatchResult summarizes one refresh batch run. Updated+Failed equals the
// number of pages processed.
type BatchResult struct {
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}
