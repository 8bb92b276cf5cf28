package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rekrut-id/apiserver/types"
)

const jobColumns = `id, title, company, location, salary, posted_time, job_type, category, experience_level, tags, company_initial, created_at, updated_at`

// JobRepository handles persistence for job postings.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// List returns every job, newest first.
func (r *JobRepository) List(ctx context.Context) ([]types.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC, id`
	return r.query(ctx, query)
}

// Related returns up to limit random jobs other than excludeID.
func (r *JobRepository) Related(ctx context.Context, excludeID string, limit int) ([]types.Job, error) {
	if limit < 1 {
		return []types.Job{}, nil
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id <> $1 ORDER BY RANDOM() LIMIT $2`
	return r.query(ctx, query, excludeID, limit)
}

func (r *JobRepository) Get(ctx context.Context, id string) (types.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Job{}, ErrNotFound
		}
		return types.Job{}, fmt.Errorf("select job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) Create(ctx context.Context, job types.Job) (types.Job, error) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	tagsJSON, err := marshalList(job.Tags)
	if err != nil {
		return types.Job{}, err
	}

	const query = `
		INSERT INTO jobs (id, title, company, location, salary, posted_time, job_type, category, experience_level, tags, company_initial, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.PostedTime,
		job.JobType,
		job.Category,
		job.ExperienceLevel,
		tagsJSON,
		nullString(job.CompanyInitial),
		job.CreatedAt,
		job.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return types.Job{}, ErrConflict
		}
		return types.Job{}, fmt.Errorf("insert job: %w", err)
	}
	if job.Tags == nil {
		job.Tags = []string{}
	}
	return job, nil
}

func (r *JobRepository) Update(ctx context.Context, job types.Job) (types.Job, error) {
	job.UpdatedAt = time.Now()

	tagsJSON, err := marshalList(job.Tags)
	if err != nil {
		return types.Job{}, err
	}

	const query = `
		UPDATE jobs
		SET title = $1,
			company = $2,
			location = $3,
			salary = $4,
			posted_time = $5,
			job_type = $6,
			category = $7,
			experience_level = $8,
			tags = $9,
			company_initial = $10,
			updated_at = $11
		WHERE id = $12`
	result, err := r.db.ExecContext(
		ctx,
		query,
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.PostedTime,
		job.JobType,
		job.Category,
		job.ExperienceLevel,
		tagsJSON,
		nullString(job.CompanyInitial),
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return types.Job{}, fmt.Errorf("update job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Job{}, err
	}
	if affected == 0 {
		return types.Job{}, ErrNotFound
	}
	return job, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM jobs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every job; details go with them through the cascade.
func (r *JobRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	return nil
}

func (r *JobRepository) query(ctx context.Context, query string, args ...any) ([]types.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanJob(row rowScanner) (types.Job, error) {
	var (
		job      types.Job
		tagsJSON []byte
		initial  sql.NullString
	)
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Salary,
		&job.PostedTime,
		&job.JobType,
		&job.Category,
		&job.ExperienceLevel,
		&tagsJSON,
		&initial,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return types.Job{}, err
	}
	job.Tags = unmarshalList(tagsJSON)
	if initial.Valid {
		s := initial.String
		job.CompanyInitial = &s
	}
	return job, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(data []byte) []string {
	values := []string{}
	if len(data) == 0 {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil || values == nil {
		return []string{}
	}
	return values
}
