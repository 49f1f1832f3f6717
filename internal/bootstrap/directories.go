package bootstrap

import (
	"context"
	"errors"

	"jobboard-backend/internal/accounts"
	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/storage/selector"
)

// companyDirectory feeds company summaries to job reads.
type companyDirectory struct {
	accounts *accounts.Service
}

func (d companyDirectory) CompanyInfo(ctx context.Context, companyID string) (jobs.CompanyInfo, bool, error) {
	c, err := d.accounts.GetCompany(ctx, companyID)
	if errors.Is(err, apperr.ErrNotFound) {
		return jobs.CompanyInfo{}, false, nil
	}
	if err != nil {
		return jobs.CompanyInfo{}, false, err
	}
	return jobs.CompanyInfo{ID: c.ID, CompanyName: c.CompanyName, Logo: c.Logo}, true, nil
}

// jobDirectory reads jobs straight from the repository so that application
// lookups do not recurse into the job service's own joins.
type jobDirectory struct {
	repo selector.Source[jobs.Repo]
}

func (d jobDirectory) JobSummary(ctx context.Context, jobID string) (applications.JobSummary, bool, error) {
	j, err := d.repo.Pick().GetByID(ctx, jobID)
	if errors.Is(err, apperr.ErrNotFound) {
		return applications.JobSummary{}, false, nil
	}
	if err != nil {
		return applications.JobSummary{}, false, err
	}
	return applications.JobSummary{
		ID:        j.ID,
		Title:     j.Title,
		Company:   j.Company,
		CompanyID: j.CompanyID,
		Location:  j.Location,
		JobType:   j.JobType,
		Status:    j.Status,
		Deadline:  j.Deadline,
	}, true, nil
}

// applicantDirectory exposes the public part of user profiles.
type applicantDirectory struct {
	accounts *accounts.Service
}

func (d applicantDirectory) Applicant(ctx context.Context, userID string) (applications.Applicant, bool, error) {
	u, err := d.accounts.GetUser(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return applications.Applicant{}, false, nil
	}
	if err != nil {
		return applications.Applicant{}, false, err
	}
	return applications.Applicant{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
		Headline: u.Headline,
		Skills:   u.Skills,
		Avatar:   u.Avatar,
		CV:       u.CV,
		CVName:   u.CVName,
	}, true, nil
}
