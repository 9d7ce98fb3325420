package fabrication

import "time"

// JobStatus enumerates fabrication job states.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusCancelled  JobStatus = "cancelled"
)

// Job is a fabrication work order tied to a project.
type Job struct {
	ID          int64     `json:"id"`
	JobNumber   string    `json:"job_number"`
	ProjectID   int64     `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func validStatus(s JobStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
