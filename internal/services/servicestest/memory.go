// Package servicestest provides in-memory repositories for tests of the
// service and handler layers.
package servicestest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/rekrut-id/apiserver/types"
)

// Users is an in-memory user repository. Set Err to make every call fail.
type Users struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]types.User
	Err    error
}

func NewUsers() *Users {
	return &Users{byID: map[int]types.User{}}
}

func (u *Users) GetByEmail(_ context.Context, email string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return types.User{}, u.Err
	}
	for _, user := range u.byID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) GetByToken(_ context.Context, token string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return types.User{}, u.Err
	}
	for _, user := range u.byID {
		if user.APIToken != nil && *user.APIToken == token {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) Create(_ context.Context, user types.User) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return types.User{}, u.Err
	}
	for _, existing := range u.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return types.User{}, store.ErrConflict
		}
		if user.HasSession() && existing.HasSession() && *existing.APIToken == *user.APIToken {
			return types.User{}, store.ErrTokenConflict
		}
	}
	u.nextID++
	now := time.Now().UTC()
	user.ID = u.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	u.byID[user.ID] = user
	return user, nil
}

func (u *Users) UpdateToken(_ context.Context, id int, token *string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	user, ok := u.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	user.APIToken = token
	user.UpdatedAt = time.Now().UTC()
	u.byID[id] = user
	return nil
}

// Token returns the token on record for id, or nil.
func (u *Users) Token(id int) *string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.byID[id].APIToken
}

// Jobs is an in-memory job repository. Related returns other jobs in
// insertion order so tests stay deterministic.
type Jobs struct {
	mu    sync.Mutex
	order []string
	byID  map[string]types.Job
	Err   error
}

func NewJobs() *Jobs {
	return &Jobs{byID: map[string]types.Job{}}
}

func (j *Jobs) List(_ context.Context) ([]types.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return nil, j.Err
	}
	jobs := make([]types.Job, 0, len(j.order))
	for _, id := range j.order {
		jobs = append(jobs, j.byID[id])
	}
	return jobs, nil
}

func (j *Jobs) Get(_ context.Context, id string) (types.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return types.Job{}, j.Err
	}
	job, ok := j.byID[id]
	if !ok {
		return types.Job{}, store.ErrNotFound
	}
	return job, nil
}

func (j *Jobs) Related(_ context.Context, excludeID string, limit int) ([]types.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return nil, j.Err
	}
	jobs := []types.Job{}
	for _, id := range j.order {
		if id == excludeID {
			continue
		}
		if len(jobs) == limit {
			break
		}
		jobs = append(jobs, j.byID[id])
	}
	return jobs, nil
}

func (j *Jobs) Create(_ context.Context, job types.Job) (types.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return types.Job{}, j.Err
	}
	if _, ok := j.byID[job.ID]; ok {
		return types.Job{}, store.ErrConflict
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	j.byID[job.ID] = job
	j.order = append(j.order, job.ID)
	return job, nil
}

func (j *Jobs) Update(_ context.Context, job types.Job) (types.Job, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return types.Job{}, j.Err
	}
	if _, ok := j.byID[job.ID]; !ok {
		return types.Job{}, store.ErrNotFound
	}
	job.UpdatedAt = time.Now().UTC()
	j.byID[job.ID] = job
	return job, nil
}

func (j *Jobs) Delete(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	if _, ok := j.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(j.byID, id)
	for i, existing := range j.order {
		if existing == id {
			j.order = append(j.order[:i], j.order[i+1:]...)
			break
		}
	}
	return nil
}

// JobDetails is an in-memory job detail repository. It checks the job
// reference against jobs when set.
type JobDetails struct {
	mu    sync.Mutex
	jobs  *Jobs
	byJob map[string]types.JobDetail
	Err   error
}

func NewJobDetails(jobs *Jobs) *JobDetails {
	return &JobDetails{jobs: jobs, byJob: map[string]types.JobDetail{}}
}

func (d *JobDetails) Get(_ context.Context, jobID string) (types.JobDetail, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return types.JobDetail{}, d.Err
	}
	detail, ok := d.byJob[jobID]
	if !ok {
		return types.JobDetail{}, store.ErrNotFound
	}
	return detail, nil
}

func (d *JobDetails) Create(ctx context.Context, detail types.JobDetail) (types.JobDetail, error) {
	if d.jobs != nil {
		if _, err := d.jobs.Get(ctx, detail.JobID); err != nil {
			return types.JobDetail{}, err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return types.JobDetail{}, d.Err
	}
	if _, ok := d.byJob[detail.JobID]; ok {
		return types.JobDetail{}, store.ErrConflict
	}
	now := time.Now().UTC()
	detail.CreatedAt = now
	detail.UpdatedAt = now
	d.byJob[detail.JobID] = detail
	return detail, nil
}

func (d *JobDetails) Update(_ context.Context, detail types.JobDetail) (types.JobDetail, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return types.JobDetail{}, d.Err
	}
	if _, ok := d.byJob[detail.JobID]; !ok {
		return types.JobDetail{}, store.ErrNotFound
	}
	detail.UpdatedAt = time.Now().UTC()
	d.byJob[detail.JobID] = detail
	return detail, nil
}

func (d *JobDetails) Delete(_ context.Context, jobID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	if _, ok := d.byJob[jobID]; !ok {
		return store.ErrNotFound
	}
	delete(d.byJob, jobID)
	return nil
}

// DeleteAll removes every job.
func (j *Jobs) DeleteAll(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	j.byID = map[string]types.Job{}
	j.order = nil
	return nil
}
