package services

import (
	"context"
	"errors"

	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/rekrut-id/apiserver/types"
)

const relatedJobsLimit = 3

// JobDetailRepository defines persistence operations for job details.
type JobDetailRepository interface {
	Get(ctx context.Context, jobID string) (types.JobDetail, error)
	Create(ctx context.Context, detail types.JobDetail) (types.JobDetail, error)
	Update(ctx context.Context, detail types.JobDetail) (types.JobDetail, error)
	Delete(ctx context.Context, jobID string) error
}

// JobDetailService encapsulates job detail use-cases.
type JobDetailService struct {
	details JobDetailRepository
	jobs    JobRepository
	events  *Events
}

// NewJobDetailService constructs the service. Events are published on
// ChannelJobs with the job id as subject; events may be nil.
func NewJobDetailService(details JobDetailRepository, jobs JobRepository, events *Events) *JobDetailService {
	return &JobDetailService{details: details, jobs: jobs, events: events}
}

// Show returns the job, its detail and a few random other jobs.
func (s *JobDetailService) Show(ctx context.Context, jobID string) (types.JobDetailView, error) {
	detail, err := s.details.Get(ctx, jobID)
	if err != nil {
		return types.JobDetailView{}, err
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return types.JobDetailView{}, err
	}

	related, err := s.jobs.Related(ctx, jobID, relatedJobsLimit)
	if err != nil {
		return types.JobDetailView{}, err
	}

	return types.JobDetailView{
		Job:                 job,
		Description:         detail.Description,
		KeyResponsibilities: detail.KeyResponsibilities,
		ProfessionalSkills:  detail.ProfessionalSkills,
		RelatedJobs:         related,
	}, nil
}

func (s *JobDetailService) Create(ctx context.Context, in JobDetailInput) (types.JobDetail, error) {
	if err := in.ValidateCreate(); err != nil {
		return types.JobDetail{}, err
	}

	jobID := *in.JobID
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.JobDetail{}, NewValidationError("job_id", "The selected job id is invalid.")
		}
		return types.JobDetail{}, err
	}

	detail := in.apply(types.JobDetail{
		JobID:               jobID,
		KeyResponsibilities: []string{},
		ProfessionalSkills:  []string{},
	})
	created, err := s.details.Create(ctx, detail)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return types.JobDetail{}, NewValidationError("job_id", "The job id has already been taken.")
		case errors.Is(err, store.ErrNotFound):
			return types.JobDetail{}, NewValidationError("job_id", "The selected job id is invalid.")
		}
		return types.JobDetail{}, err
	}

	s.events.emit(ctx, ChannelJobs, EventJobDetailCreated, created.JobID)
	return created, nil
}

// Update applies the fields present in the input; job_id is ignored.
func (s *JobDetailService) Update(ctx context.Context, jobID string, in JobDetailInput) (types.JobDetail, error) {
	current, err := s.details.Get(ctx, jobID)
	if err != nil {
		return types.JobDetail{}, err
	}
	updated, err := s.details.Update(ctx, in.apply(current))
	if err != nil {
		return types.JobDetail{}, err
	}

	s.events.emit(ctx, ChannelJobs, EventJobDetailUpdated, updated.JobID)
	return updated, nil
}

func (s *JobDetailService) Delete(ctx context.Context, jobID string) error {
	if err := s.details.Delete(ctx, jobID); err != nil {
		return err
	}

	s.events.emit(ctx, ChannelJobs, EventJobDetailDeleted, jobID)
	return nil
}
