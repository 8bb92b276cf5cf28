package services

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rekrut-id/apiserver/internal/storage"
	"github.com/rekrut-id/apiserver/types"
)

// ErrStorageDisabled is returned by logo operations when no object storage
// is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	List(ctx context.Context) ([]types.Job, error)
	Get(ctx context.Context, id string) (types.Job, error)
	Related(ctx context.Context, excludeID string, limit int) ([]types.Job, error)
	Create(ctx context.Context, job types.Job) (types.Job, error)
	Update(ctx context.Context, job types.Job) (types.Job, error)
	Delete(ctx context.Context, id string) error
}

// LogoStorage keeps company logo images. *storage.Storage implements it.
type LogoStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// JobService encapsulates job posting use-cases.
type JobService struct {
	repo   JobRepository
	logos  LogoStorage
	events *Events
	newID  func() string
}

// NewJobService constructs the service. logos may be nil.
func NewJobService(repo JobRepository, logos LogoStorage, events *Events) *JobService {
	return &JobService{
		repo:   repo,
		logos:  logos,
		events: events,
		newID:  uuid.NewString,
	}
}

func (s *JobService) List(ctx context.Context) ([]types.Job, error) {
	return s.repo.List(ctx)
}

func (s *JobService) Get(ctx context.Context, id string) (types.Job, error) {
	return s.repo.Get(ctx, id)
}

func (s *JobService) Create(ctx context.Context, in JobInput) (types.Job, error) {
	if err := in.ValidateCreate(); err != nil {
		return types.Job{}, err
	}

	job := in.apply(types.Job{
		ID:              s.newID(),
		Category:        types.DefaultJobCategory,
		ExperienceLevel: types.DefaultExperienceLevel,
		Tags:            []string{},
	})
	if job.Category == "" {
		job.Category = types.DefaultJobCategory
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = types.DefaultExperienceLevel
	}

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return types.Job{}, err
	}
	s.events.emit(ctx, ChannelJobs, EventJobCreated, created.ID)
	return created, nil
}

// Update applies the fields present in the input to an existing job.
func (s *JobService) Update(ctx context.Context, id string, in JobInput) (types.Job, error) {
	if err := in.ValidateUpdate(); err != nil {
		return types.Job{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Job{}, err
	}

	updated, err := s.repo.Update(ctx, in.apply(current))
	if err != nil {
		return types.Job{}, err
	}
	s.events.emit(ctx, ChannelJobs, EventJobUpdated, updated.ID)
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.logos != nil {
		// A job without a logo is the common case.
		_ = s.logos.Delete(ctx, logoKey(id))
	}
	s.events.emit(ctx, ChannelJobs, EventJobDeleted, id)
	return nil
}

// LogosEnabled reports whether logo upload and download are available.
func (s *JobService) LogosEnabled() bool {
	return s.logos != nil
}

// PutLogo stores the company logo of an existing job.
func (s *JobService) PutLogo(ctx context.Context, id string, r io.Reader, size int64, contentType string) error {
	if s.logos == nil {
		return ErrStorageDisabled
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.logos.Put(ctx, logoKey(id), r, size, contentType)
}

// OpenLogo returns the stored logo; the caller closes its Body.
func (s *JobService) OpenLogo(ctx context.Context, id string) (storage.Object, error) {
	if s.logos == nil {
		return storage.Object{}, ErrStorageDisabled
	}
	return s.logos.Get(ctx, logoKey(id))
}

func logoKey(jobID string) string {
	return "jobs/" + jobID + "/logo"
}
