package applications

import "time"

const (
	StatusPending     = "Pending"
	StatusReviewed    = "Reviewed"
	StatusRejected    = "Rejected"
	StatusAccepted    = "Accepted"
	StatusShortlisted = "shortlisted"
)

// Statuses lists the accepted spellings. Input is matched case-insensitively
// and stored as written here.
var Statuses = []string{StatusPending, StatusReviewed, StatusRejected, StatusAccepted, StatusShortlisted}

// Application is a user's submission to a job. The applicant's name and
// email are captured at submission.
type Application struct {
	ID          string    `json:"id" bson:"_id"`
	JobID       string    `json:"jobId" bson:"jobId"`
	UserID      string    `json:"userId" bson:"userId"`
	UserName    string    `json:"userName" bson:"userName"`
	UserEmail   string    `json:"userEmail" bson:"userEmail"`
	CoverLetter string    `json:"coverLetter" bson:"coverLetter"`
	Status      string    `json:"status" bson:"status"`
	AppliedAt   time.Time `json:"appliedAt" bson:"appliedAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Applicant is the public part of a user profile shown to the hiring company.
type Applicant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Headline string   `json:"headline"`
	Skills   []string `json:"skills"`
	Avatar   string   `json:"avatar"`
	CV       string   `json:"cv"`
	CVName   string   `json:"cvName"`
}

// JobSummary is the job shown next to a user's application.
type JobSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	CompanyID string    `json:"companyId"`
	Location  string    `json:"location"`
	JobType   string    `json:"jobType"`
	Status    string    `json:"status"`
	Deadline  time.Time `json:"deadline"`
}

// View is an application with whichever join the listing asked for.
type View struct {
	Application
	Applicant *Applicant  `json:"applicant,omitempty"`
	Job       *JobSummary `json:"job,omitempty"`
}
