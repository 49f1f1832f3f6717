package applications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/patch"
	"jobboard-backend/internal/shared/storage/selector"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/validate"
)

const (
	roleUser    = "user"
	roleCompany = "company"
)

// JobLookup resolves the job an application points at.
type JobLookup interface {
	JobSummary(ctx context.Context, jobID string) (job JobSummary, found bool, err error)
}

// ApplicantLookup resolves the public profile of an applicant.
type ApplicantLookup interface {
	Applicant(ctx context.Context, userID string) (applicant Applicant, found bool, err error)
}

type Service struct {
	Repo       selector.Source[Repo]
	Jobs       JobLookup
	Applicants ApplicantLookup
	Now        func() time.Time
}

func NewService(repo selector.Source[Repo], jobs JobLookup, applicants ApplicantLookup) *Service {
	return &Service{Repo: repo, Jobs: jobs, Applicants: applicants, Now: time.Now}
}

type SubmitInput struct {
	JobID       string `json:"jobId" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
	UserName    string `json:"userName" validate:"required"`
	UserEmail   string `json:"userEmail" validate:"required"`
	CoverLetter string `json:"coverLetter"`
}

func (s *Service) SubmitApplication(ctx context.Context, actor auth.Actor, in SubmitInput) (Application, error) {
	in.JobID = strings.TrimSpace(in.JobID)
	in.UserID = strings.TrimSpace(in.UserID)
	in.UserName = strings.TrimSpace(in.UserName)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
	if err := validate.Struct(in); err != nil {
		return Application{}, err
	}
	if !actor.Anonymous() {
		if actor.Role != roleUser {
			return Application{}, ErrNotApplicant
		}
		if actor.ID != in.UserID {
			return Application{}, ErrNotSelf
		}
	}

	if _, found, err := s.job(ctx, in.JobID); err != nil {
		return Application{}, err
	} else if !found {
		return Application{}, ErrJobNotFound
	}

	now := s.now()
	app := Application{
		ID:          uuid.NewString(),
		JobID:       in.JobID,
		UserID:      in.UserID,
		UserName:    in.UserName,
		UserEmail:   in.UserEmail,
		CoverLetter: in.CoverLetter,
		Status:      StatusPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Pick().Create(ctx, app); err != nil {
		return Application{}, err
	}

	metrics.IncApplicationSubmitted()
	telemetry.Info("application.submitted", map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"user_id":        app.UserID,
	})
	return app, nil
}

// ListApplicationsForJob joins each application with the applicant's public
// profile when the account still exists.
func (s *Service) ListApplicationsForJob(ctx context.Context, jobID string) ([]View, error) {
	list, err := s.Repo.Pick().ListByJob(ctx, strings.TrimSpace(jobID))
	if err != nil {
		return nil, err
	}
	seen := map[string]*Applicant{}
	out := make([]View, 0, len(list))
	for _, app := range list {
		applicant, ok := seen[app.UserID]
		if !ok {
			applicant, err = s.applicant(ctx, app.UserID)
			if err != nil {
				return nil, err
			}
			seen[app.UserID] = applicant
		}
		out = append(out, View{Application: app, Applicant: applicant})
	}
	return out, nil
}

// ListApplicationsForUser joins each application with its job when the job
// still exists.
func (s *Service) ListApplicationsForUser(ctx context.Context, userID string) ([]View, error) {
	list, err := s.Repo.Pick().ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(list))
	for _, app := range list {
		job, found, err := s.job(ctx, app.JobID)
		if err != nil {
			return nil, err
		}
		v := View{Application: app}
		if found {
			v.Job = &job
		}
		out = append(out, v)
	}
	return out, nil
}

// UpdateApplicationStatus sets a new status. There is no transition graph;
// any listed status may follow any other.
func (s *Service) UpdateApplicationStatus(ctx context.Context, actor auth.Actor, id, status string) (Application, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return Application{}, ErrStatusRequired
	}
	canonical, ok := patch.Canonical(status, Statuses...)
	if !ok {
		return Application{}, ErrInvalidStatus
	}

	repo := s.Repo.Pick()
	app, err := repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Application{}, err
	}
	if err := s.checkJobOwner(ctx, actor, app.JobID); err != nil {
		return Application{}, err
	}

	now := s.now()
	if err := repo.UpdateStatus(ctx, app.ID, canonical, now); err != nil {
		return Application{}, err
	}
	previous := app.Status
	app.Status = canonical
	app.UpdatedAt = now

	metrics.IncApplicationStatusUpdated()
	telemetry.Info("application.status_updated", map[string]any{
		"application_id": app.ID,
		"from":           previous,
		"to":             canonical,
	})
	return app, nil
}

// ApplicationIDs maps each of jobIDs to the ids of its applications, newest
// first, from a single repository query. Jobs without applications map to an
// empty list.
func (s *Service) ApplicationIDs(ctx context.Context, jobIDs ...string) (map[string][]string, error) {
	out := make(map[string][]string, len(jobIDs))
	for _, id := range jobIDs {
		out[id] = []string{}
	}
	if len(jobIDs) == 0 {
		return out, nil
	}
	list, err := s.Repo.Pick().ListByJobs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}
	for _, app := range list {
		out[app.JobID] = append(out[app.JobID], app.ID)
	}
	return out, nil
}

func (s *Service) checkJobOwner(ctx context.Context, actor auth.Actor, jobID string) error {
	if actor.Anonymous() {
		return nil
	}
	if actor.Role != roleCompany {
		return ErrNotJobOwner
	}
	job, found, err := s.job(ctx, jobID)
	if err != nil {
		return err
	}
	if !found || job.CompanyID != actor.ID {
		return ErrNotJobOwner
	}
	return nil
}

func (s *Service) job(ctx context.Context, jobID string) (JobSummary, bool, error) {
	if s.Jobs == nil {
		return JobSummary{}, false, nil
	}
	return s.Jobs.JobSummary(ctx, jobID)
}

func (s *Service) applicant(ctx context.Context, userID string) (*Applicant, error) {
	if s.Applicants == nil {
		return nil, nil
	}
	a, found, err := s.Applicants.Applicant(ctx, userID)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
