package jobs

import (
	"time"

	"jobboard-backend/internal/shared/patch"
)

var jobIgnored = patch.Keys("id", "_id", "__v", "companyId", "createdAt", "updatedAt", "applications", "companyInfo")

var jobFields = patch.Fields[Job]{
	"title":        patch.RequiredString(func(j *Job) *string { return &j.Title }),
	"description":  patch.RequiredString(func(j *Job) *string { return &j.Description }),
	"requirements": patch.RequiredString(func(j *Job) *string { return &j.Requirements }),
	"company":      patch.RequiredString(func(j *Job) *string { return &j.Company }),
	"location":     patch.RequiredString(func(j *Job) *string { return &j.Location }),
	"jobType":      patch.OneOf(func(j *Job) *string { return &j.JobType }, JobTypes...),
	"sector":       patch.String(func(j *Job) *string { return &j.Sector }),
	"salary":       patch.String(func(j *Job) *string { return &j.Salary }),
	"deadline":     patch.Date(func(j *Job) *time.Time { return &j.Deadline }),
	"status":       patch.OneOf(func(j *Job) *string { return &j.Status }, Statuses...),
}
