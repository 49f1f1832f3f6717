package jobs

import "time"

const (
	StatusActive = "Active"
	StatusClosed = "Closed"
	StatusDraft  = "Draft"

	DefaultJobType = "Full-time"
	DefaultSector  = "IT"
)

var (
	JobTypes = []string{"Full-time", "Part-time", "Internship", "Contract", "Freelance"}
	Statuses = []string{StatusActive, StatusClosed, StatusDraft}
)

// Job is a posting owned by a company. Company is the display name captured
// at creation.
type Job struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Requirements string    `json:"requirements" bson:"requirements"`
	Company      string    `json:"company" bson:"company"`
	CompanyID    string    `json:"companyId" bson:"companyId"`
	Location     string    `json:"location" bson:"location"`
	JobType      string    `json:"jobType" bson:"jobType"`
	Sector       string    `json:"sector" bson:"sector"`
	Salary       string    `json:"salary" bson:"salary"`
	Deadline     time.Time `json:"deadline" bson:"deadline"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CompanyInfo is the company summary joined onto job reads.
type CompanyInfo struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	Logo        string `json:"logo"`
}

// UnknownCompany stands in for a company that no longer exists.
var UnknownCompany = CompanyInfo{CompanyName: "Unknown Company"}

// View is a job as returned by reads. Applications is derived from the
// applications that reference the job; it is never stored.
type View struct {
	Job
	Applications []string    `json:"applications"`
	CompanyInfo  CompanyInfo `json:"companyInfo"`
}
