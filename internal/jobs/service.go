package jobs

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/patch"
	"jobboard-backend/internal/shared/storage/selector"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/validate"
)

const roleCompany = "company"

// CompanyLookup resolves the company summary shown on job reads. found is
// false for ids that match no company.
type CompanyLookup interface {
	CompanyInfo(ctx context.Context, companyID string) (info CompanyInfo, found bool, err error)
}

// ApplicationIndex lists the ids of applications submitted to each job, in
// one lookup for the whole batch.
type ApplicationIndex interface {
	ApplicationIDs(ctx context.Context, jobIDs ...string) (map[string][]string, error)
}

type Service struct {
	Repo         selector.Source[Repo]
	Companies    CompanyLookup
	Applications ApplicationIndex
	Now          func() time.Time
}

func NewService(repo selector.Source[Repo], companies CompanyLookup, applications ApplicationIndex) *Service {
	return &Service{Repo: repo, Companies: companies, Applications: applications, Now: time.Now}
}

// CreateInput is a new posting. Deadline accepts YYYY-MM-DD or RFC 3339.
type CreateInput struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Requirements string `json:"requirements" validate:"required"`
	Company      string `json:"company" validate:"required"`
	CompanyID    string `json:"companyId" validate:"required"`
	Location     string `json:"location" validate:"required"`
	JobType      string `json:"jobType"`
	Sector       string `json:"sector"`
	Salary       string `json:"salary"`
	Deadline     string `json:"deadline" validate:"required,isodate"`
	Status       string `json:"status"`
}

// Filter narrows ListJobs. An empty CompanyID lists active jobs only.
type Filter struct {
	CompanyID string
}

func (s *Service) CreateJob(ctx context.Context, actor auth.Actor, in CreateInput) (View, error) {
	in = trimInput(in)
	if in.CompanyID == "" && actor.Role == roleCompany {
		in.CompanyID = actor.ID
	}
	if err := validate.Struct(in); err != nil {
		return View{}, err
	}
	if err := checkOwner(actor, in.CompanyID); err != nil {
		return View{}, err
	}

	jobType, err := enumOrDefault("jobType", in.JobType, DefaultJobType, JobTypes)
	if err != nil {
		return View{}, err
	}
	status, err := enumOrDefault("status", in.Status, StatusActive, Statuses)
	if err != nil {
		return View{}, err
	}
	sector := in.Sector
	if sector == "" {
		sector = DefaultSector
	}
	deadline, _ := validate.ParseDate(in.Deadline)

	now := s.now()
	job := Job{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Company:      in.Company,
		CompanyID:    in.CompanyID,
		Location:     in.Location,
		JobType:      jobType,
		Sector:       sector,
		Salary:       in.Salary,
		Deadline:     deadline,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Pick().Create(ctx, job); err != nil {
		return View{}, err
	}

	metrics.IncJobCreated()
	telemetry.Info("job.created", map[string]any{"job_id": job.ID, "company_id": job.CompanyID})
	return s.view(ctx, job)
}

// ListJobs returns active jobs, or every job of one company, newest first.
func (s *Service) ListJobs(ctx context.Context, f Filter) ([]View, error) {
	repo := s.Repo.Pick()
	var (
		list []Job
		err  error
	)
	if companyID := strings.TrimSpace(f.CompanyID); companyID != "" {
		list, err = repo.ListByCompany(ctx, companyID)
	} else {
		list, err = repo.ListByStatus(ctx, StatusActive)
	}
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

func (s *Service) GetJob(ctx context.Context, id string) (View, error) {
	job, err := s.Repo.Pick().GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, job)
}

// UpdateJob applies an allow-listed partial update.
func (s *Service) UpdateJob(ctx context.Context, actor auth.Actor, id string, p map[string]json.RawMessage) (View, error) {
	repo := s.Repo.Pick()
	job, err := repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return View{}, err
	}
	if err := checkOwner(actor, job.CompanyID); err != nil {
		return View{}, err
	}
	if err := patch.Apply(&job, p, jobFields, jobIgnored); err != nil {
		return View{}, err
	}
	job.UpdatedAt = s.now()
	if err := repo.Update(ctx, job); err != nil {
		return View{}, err
	}
	return s.view(ctx, job)
}

func (s *Service) DeleteJob(ctx context.Context, actor auth.Actor, id string) error {
	repo := s.Repo.Pick()
	job, err := repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if err := checkOwner(actor, job.CompanyID); err != nil {
		return err
	}
	if err := repo.Delete(ctx, job.ID); err != nil {
		return err
	}
	telemetry.Info("job.deleted", map[string]any{"job_id": job.ID, "company_id": job.CompanyID})
	return nil
}

func (s *Service) view(ctx context.Context, job Job) (View, error) {
	views, err := s.views(ctx, []Job{job})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// views joins company info and application ids onto list. Companies are
// looked up once each and application ids in a single batch.
func (s *Service) views(ctx context.Context, list []Job) ([]View, error) {
	out := make([]View, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	ids := make([]string, len(list))
	for i, job := range list {
		ids[i] = job.ID
	}
	applications := map[string][]string{}
	if s.Applications != nil {
		found, err := s.Applications.ApplicationIDs(ctx, ids...)
		if err != nil {
			return nil, err
		}
		applications = found
	}

	companies := map[string]CompanyInfo{}
	for _, job := range list {
		info, ok := companies[job.CompanyID]
		if !ok {
			var err error
			if info, err = s.companyInfo(ctx, job.CompanyID); err != nil {
				return nil, err
			}
			companies[job.CompanyID] = info
		}
		apps := applications[job.ID]
		if apps == nil {
			apps = []string{}
		}
		out = append(out, View{Job: job, Applications: apps, CompanyInfo: info})
	}
	return out, nil
}

func (s *Service) companyInfo(ctx context.Context, companyID string) (CompanyInfo, error) {
	if s.Companies == nil || companyID == "" {
		return UnknownCompany, nil
	}
	info, found, err := s.Companies.CompanyInfo(ctx, companyID)
	if err != nil {
		return CompanyInfo{}, err
	}
	if !found {
		return UnknownCompany, nil
	}
	return info, nil
}

// checkOwner lets anonymous callers through; sessions must belong to the
// owning company.
func checkOwner(actor auth.Actor, companyID string) error {
	if actor.Anonymous() {
		return nil
	}
	if actor.Role != roleCompany {
		return ErrNotCompany
	}
	if actor.ID != companyID {
		return ErrNotOwner
	}
	return nil
}

func enumOrDefault(field, value, fallback string, allowed []string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	canonical, ok := patch.Canonical(value, allowed...)
	if !ok {
		return "", apperr.Validation("", apperr.FieldIssue{
			Field: field,
			Issue: "must be one of: " + strings.Join(allowed, ", "),
		})
	}
	return canonical, nil
}

func trimInput(in CreateInput) CreateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Requirements = strings.TrimSpace(in.Requirements)
	in.Company = strings.TrimSpace(in.Company)
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	in.Location = strings.TrimSpace(in.Location)
	in.JobType = strings.TrimSpace(in.JobType)
	in.Sector = strings.TrimSpace(in.Sector)
	in.Salary = strings.TrimSpace(in.Salary)
	in.Deadline = strings.TrimSpace(in.Deadline)
	in.Status = strings.TrimSpace(in.Status)
	return in
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
