package types

import "time"

const (
	// DefaultJobCategory is applied when a job is created without a category.
	DefaultJobCategory = "Other"

	// DefaultExperienceLevel is applied when a job is created without an
	// experience level.
	DefaultExperienceLevel = "Entry Level"
)

// Job represents a job posting shown in the listing.
type Job struct {
	// ID is the UUID of the job posting.
	ID string `json:"id" db:"id"`

	// Title is the position title.
	Title string `json:"title" db:"title"`

	// Company is the hiring company's name.
	Company string `json:"company" db:"company"`

	// Location is a free-form location such as "New York, USA".
	Location string `json:"location" db:"location"`

	// Salary is a free-form salary range such as "$40000-$42000".
	Salary string `json:"salary" db:"salary"`

	// PostedTime is a display string such as "10 minutes ago".
	PostedTime string `json:"posted_time" db:"posted_time"`

	// JobType is the employment type, e.g. "Fulltime" or "Part Time".
	JobType string `json:"job_type" db:"job_type"`

	Category        string   `json:"category" db:"category"`
	ExperienceLevel string   `json:"experience_level" db:"experience_level"`
	Tags            []string `json:"tags" db:"tags"`

	// CompanyInitial is a single letter used as a logo placeholder.
	CompanyInitial *string `json:"company_initial" db:"company_initial"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JobDetail holds the extended description of a job. It shares the job's ID.
type JobDetail struct {
	// JobID is both the primary key and the reference to the owning job.
	JobID string `json:"job_id" db:"job_id"`

	// Description is the full job description.
	Description string `json:"description" db:"description"`

	KeyResponsibilities []string `json:"key_responsibilities" db:"key_responsibilities"`
	ProfessionalSkills  []string `json:"professional_skills" db:"professional_skills"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JobDetailView is the detail page payload: the job, its extended
// description and a few other postings to browse next.
type JobDetailView struct {
	Job                 Job      `json:"job"`
	Description         string   `json:"description"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	ProfessionalSkills  []string `json:"professional_skills"`
	RelatedJobs         []Job    `json:"related_jobs"`
}
