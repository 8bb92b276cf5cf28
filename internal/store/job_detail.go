package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rekrut-id/apiserver/types"
)

// JobDetailRepository handles persistence for extended job descriptions.
type JobDetailRepository struct {
	db *sql.DB
}

func NewJobDetailRepository(db *sql.DB) *JobDetailRepository {
	return &JobDetailRepository{db: db}
}

func (r *JobDetailRepository) Get(ctx context.Context, jobID string) (types.JobDetail, error) {
	const query = `
		SELECT job_id, description, key_responsibilities, professional_skills, created_at, updated_at
		FROM job_details
		WHERE job_id = $1`
	var (
		detail             types.JobDetail
		responsibilityJSON []byte
		skillsJSON         []byte
	)
	err := r.db.QueryRowContext(ctx, query, jobID).Scan(
		&detail.JobID,
		&detail.Description,
		&responsibilityJSON,
		&skillsJSON,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.JobDetail{}, ErrNotFound
		}
		return types.JobDetail{}, fmt.Errorf("select job detail: %w", err)
	}
	detail.KeyResponsibilities = unmarshalList(responsibilityJSON)
	detail.ProfessionalSkills = unmarshalList(skillsJSON)
	return detail, nil
}

// Create returns ErrConflict when the job already has a detail and
// ErrNotFound when the job does not exist.
func (r *JobDetailRepository) Create(ctx context.Context, detail types.JobDetail) (types.JobDetail, error) {
	now := time.Now()
	detail.CreatedAt = now
	detail.UpdatedAt = now

	responsibilityJSON, err := marshalList(detail.KeyResponsibilities)
	if err != nil {
		return types.JobDetail{}, err
	}
	skillsJSON, err := marshalList(detail.ProfessionalSkills)
	if err != nil {
		return types.JobDetail{}, err
	}

	const query = `
		INSERT INTO job_details (job_id, description, key_responsibilities, professional_skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		detail.JobID,
		detail.Description,
		responsibilityJSON,
		skillsJSON,
		detail.CreatedAt,
		detail.UpdatedAt,
	); err != nil {
		switch {
		case isUniqueViolation(err):
			return types.JobDetail{}, ErrConflict
		case isForeignKeyViolation(err):
			return types.JobDetail{}, ErrNotFound
		}
		return types.JobDetail{}, fmt.Errorf("insert job detail: %w", err)
	}
	return detail, nil
}

func (r *JobDetailRepository) Update(ctx context.Context, detail types.JobDetail) (types.JobDetail, error) {
	detail.UpdatedAt = time.Now()

	responsibilityJSON, err := marshalList(detail.KeyResponsibilities)
	if err != nil {
		return types.JobDetail{}, err
	}
	skillsJSON, err := marshalList(detail.ProfessionalSkills)
	if err != nil {
		return types.JobDetail{}, err
	}

	const query = `
		UPDATE job_details
		SET description = $1,
			key_responsibilities = $2,
			professional_skills = $3,
			updated_at = $4
		WHERE job_id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		detail.Description,
		responsibilityJSON,
		skillsJSON,
		detail.UpdatedAt,
		detail.JobID,
	)
	if err != nil {
		return types.JobDetail{}, fmt.Errorf("update job detail: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.JobDetail{}, err
	}
	if affected == 0 {
		return types.JobDetail{}, ErrNotFound
	}
	return detail, nil
}

func (r *JobDetailRepository) Delete(ctx context.Context, jobID string) error {
	const query = `DELETE FROM job_details WHERE job_id = $1`
	result, err := r.db.ExecContext(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("delete job detail: %w", err)
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
