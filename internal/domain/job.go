package domain

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

func (m WorkMode) Valid() bool {
	switch m {
	case WorkModeOffice, WorkModeRemote, WorkModeHybrid:
		return true
	}
	return false
}

// Job is a posting on the job board.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	JobType     JobType   `json:"job_type"`
	Mode        WorkMode  `json:"mode"`
	Openings    int       `json:"openings"`
	Package     string    `json:"package"`
	Description string    `json:"description"`
	ApplyLink   string    `json:"apply_link"`
	PostedDate  time.Time `json:"posted_date"`
}

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusInterview ApplicationStatus = "interview"
	StatusRejected  ApplicationStatus = "rejected"
	StatusHired     ApplicationStatus = "hired"
)

// Valid reports membership in the status enum. Transitions between
// statuses are unordered, so membership is the only check.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusInterview, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Application is a candidate's submission against a job posting.
type Application struct {
	ID        int64             `json:"id"`
	JobID     int64             `json:"job_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"applied_at"`
}
