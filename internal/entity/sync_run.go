package entity

import "time"

// SyncRun summarizes one execution of the catalog synchronization batch.
type SyncRun struct {
	ID               int64
	StartedAt        time.Time
	FinishedAt       time.Time
	Status           string // "completed", "failed"
	PageCounts       map[string]int
	ProductCount     int
	PlaceholderCount int
	FailureReason    string
}
