package domain

import "time"

// Activity actions recorded in the audit trail.
const (
	ActivityTaskCreated   = "task_created"
	ActivityStatusChanged = "status_changed"
	ActivityTaskDeleted   = "task_deleted"
)

// Activity records a single mutation applied to a task.
type Activity struct {
	TaskID     string
	OwnerID    string
	Action     string
	FromStatus TaskStatus // empty for created/deleted
	ToStatus   TaskStatus // empty for deleted
	Timestamp  time.Time
}
