package models

import "time"

// Статусы записи журнала запусков.
const (
	RunStatusRunning = "RUNNING"
	RunStatusDone    = "DONE"
	RunStatusFailed  = "FAILED"
)

// SyncRun — строка журнала запусков синхронизации.
type SyncRun struct {
	ID         int64      `json:"id"`
	Mode       SyncMode   `json:"mode"`
	Status     string     `json:"status"`
	Stats      *SyncStats `json:"stats,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
