package admin

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// ExportJob is an asynchronous CSV materialization. An empty Email means
// the combined all-identities export.
type ExportJob struct {
	ID string `gorm:"primaryKey;size:26" json:"id"` // ULID length

	Email  string    `gorm:"type:varchar(128)" json:"email"`
	Status JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when succeeded
	FilePath *string `gorm:"type:varchar(512)" json:"file_path,omitempty"`

	// Filled when failed
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ExportJob) TableName() string { return "export_jobs" }
