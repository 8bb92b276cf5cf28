package services

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rekrut-id/apiserver/types"
)

const maxJobFieldLength = 255

// JobInput is the create/update payload for a job. Field names follow the
// mobile client's camelCase; nil fields are left unchanged on update.
type JobInput struct {
	Title           *string   `json:"title"`
	Company         *string   `json:"company"`
	Location        *string   `json:"location"`
	Salary          *string   `json:"salary"`
	PostedTime      *string   `json:"postedTime"`
	JobType         *string   `json:"jobType"`
	Category        *string   `json:"category"`
	ExperienceLevel *string   `json:"experienceLevel"`
	Tags            *[]string `json:"tags"`
	CompanyInitial  *string   `json:"companyInitial"`
}

// ValidateCreate requires the descriptive fields.
func (in JobInput) ValidateCreate() error {
	return in.validate(true)
}

// ValidateUpdate accepts any subset of fields.
func (in JobInput) ValidateUpdate() error {
	return in.validate(false)
}

func (in JobInput) validate(create bool) error {
	text := func() []validation.Rule {
		rules := []validation.Rule{validation.Length(0, maxJobFieldLength)}
		if create {
			rules = append([]validation.Rule{validation.Required}, rules...)
		}
		return rules
	}
	return fromRules(validation.ValidateStruct(&in,
		validation.Field(&in.Title, text()...),
		validation.Field(&in.Company, text()...),
		validation.Field(&in.Location, text()...),
		validation.Field(&in.Salary, text()...),
		validation.Field(&in.PostedTime, text()...),
		validation.Field(&in.JobType, text()...),
		validation.Field(&in.Category, validation.Length(0, maxJobFieldLength)),
		validation.Field(&in.ExperienceLevel, validation.Length(0, maxJobFieldLength)),
		validation.Field(&in.CompanyInitial, validation.Length(0, 1)),
	))
}

// apply copies the set fields onto job.
func (in JobInput) apply(job types.Job) types.Job {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&job.Title, in.Title)
	set(&job.Company, in.Company)
	set(&job.Location, in.Location)
	set(&job.Salary, in.Salary)
	set(&job.PostedTime, in.PostedTime)
	set(&job.JobType, in.JobType)
	set(&job.Category, in.Category)
	set(&job.ExperienceLevel, in.ExperienceLevel)
	if in.Tags != nil {
		job.Tags = append([]string{}, (*in.Tags)...)
	}
	if in.CompanyInitial != nil {
		initial := *in.CompanyInitial
		job.CompanyInitial = &initial
	}
	return job
}

// JobDetailInput is the create/update payload for a job detail.
type JobDetailInput struct {
	JobID               *string   `json:"job_id"`
	Description         *string   `json:"description"`
	KeyResponsibilities *[]string `json:"key_responsibilities"`
	ProfessionalSkills  *[]string `json:"professional_skills"`
}

func (in JobDetailInput) ValidateCreate() error {
	return fromRules(validation.ValidateStruct(&in,
		validation.Field(&in.JobID, validation.Required),
		validation.Field(&in.Description, validation.Required),
	))
}

func (in JobDetailInput) apply(detail types.JobDetail) types.JobDetail {
	if in.Description != nil {
		detail.Description = *in.Description
	}
	if in.KeyResponsibilities != nil {
		detail.KeyResponsibilities = append([]string{}, (*in.KeyResponsibilities)...)
	}
	if in.ProfessionalSkills != nil {
		detail.ProfessionalSkills = append([]string{}, (*in.ProfessionalSkills)...)
	}
	return detail
}
