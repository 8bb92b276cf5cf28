// Package seed loads sample job postings for local development and demos.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rekrut-id/apiserver/types"
)

// JobStore is the part of the job repository the seeder writes through.
type JobStore interface {
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, job types.Job) (types.Job, error)
}

// JobDetailStore is the part of the job detail repository the seeder uses.
type JobDetailStore interface {
	Create(ctx context.Context, detail types.JobDetail) (types.JobDetail, error)
}

// Seeder replaces all jobs with the sample set and gives each one a detail.
type Seeder struct {
	jobs    JobStore
	details JobDetailStore
	logger  *slog.Logger

	newID func() string
	intN  func(n int) int
}

func New(jobs JobStore, details JobDetailStore, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		jobs:    jobs,
		details: details,
		logger:  logger,
		newID:   uuid.NewString,
		intN:    rand.Intn,
	}
}

// Run deletes existing jobs, which cascades to their details, and inserts
// the samples. It returns the number of jobs created.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	if err := s.jobs.DeleteAll(ctx); err != nil {
		return 0, err
	}

	for i, sample := range SampleJobs() {
		sample.ID = s.newID()
		job, err := s.jobs.Create(ctx, sample)
		if err != nil {
			return i, fmt.Errorf("seed job %q: %w", sample.Title, err)
		}

		if _, err := s.details.Create(ctx, s.detailFor(job)); err != nil {
			return i, fmt.Errorf("seed detail for %q: %w", job.Title, err)
		}
		s.logger.DebugContext(ctx, "seeded job", "id", job.ID, "title", job.Title)
	}

	count := len(SampleJobs())
	s.logger.InfoContext(ctx, "seed complete", "jobs", count)
	return count, nil
}

func (s *Seeder) detailFor(job types.Job) types.JobDetail {
	return types.JobDetail{
		JobID: job.ID,
		Description: fmt.Sprintf("This is a detailed description for the %s position at %s. "+
			"We are looking for a highly motivated individual to join our dynamic team and contribute to exciting projects.",
			job.Title, job.Company),
		KeyResponsibilities: append([]string{}, responsibilities[:3+s.intN(3)]...),
		ProfessionalSkills:  append([]string{}, skills[:3+s.intN(3)]...),
	}
}

var responsibilities = []string{
	"Develop and maintain high-quality software",
	"Collaborate with cross-functional teams",
	"Participate in code reviews",
	"Troubleshoot and debug applications",
	"Write technical documentation",
	"Design and implement new features",
	"Ensure software performance and scalability",
}

var skills = []string{
	"Problem Solving",
	"Communication",
	"Teamwork",
	"Adaptability",
	"Critical Thinking",
	"Attention to Detail",
	"Time Management",
}

// SampleJobs returns a fresh copy of the sample postings without IDs.
func SampleJobs() []types.Job {
	initial := func(s string) *string { return &s }
	return []types.Job{
		{
			Title: "Forward Security Director", Company: "Block N. Scrapper and Schuler Co",
			Location: "New York, USA", Salary: "$40000-$42000", PostedTime: "10 minutes ago",
			JobType: "Fulltime", Category: "Finance & Operations", ExperienceLevel: "Director",
			Tags: []string{"Security", "Finance"}, CompanyInitial: initial("B"),
		},
		{
			Title: "Regional Creative Facilitator", Company: "Klood - Rekrut ID Co",
			Location: "Los Angeles, USA", Salary: "$20000-$32000", PostedTime: "1 day ago",
			JobType: "Part Time", Category: "Commerce", ExperienceLevel: "Mid-Senior",
			Tags: []string{"Creative", "Design"}, CompanyInitial: initial("K"),
		},
		{
			Title: "Internal Integration Planner", Company: "Wag. Otacny Aircraft Inc",
			Location: "Ohio, USA", Salary: "$45000-$50000", PostedTime: "2 days ago",
			JobType: "Fulltime", Category: "Commerce", ExperienceLevel: "Executive",
			Tags: []string{"Integration", "Management"}, CompanyInitial: initial("W"),
		},
		{
			Title: "District Intranet Director", Company: "Asama. RekrutID Co",
			Location: "Florida, USA", Salary: "$45000-$48000", PostedTime: "2 days ago",
			JobType: "Fulltime", Category: "Hotels & Tourism", ExperienceLevel: "Director",
			Tags: []string{"IT", "Network"}, CompanyInitial: initial("A"),
		},
		{
			Title: "Corporate Tactics Facilitator", Company: "Global Software and Technologies",
			Location: "Boston, USA", Salary: "$35000-$40000", PostedTime: "5 days ago",
			JobType: "Fulltime", Category: "Financial Services", ExperienceLevel: "Mid-Senior",
			Tags: []string{"Tactics", "Software"}, CompanyInitial: initial("G"),
		},
		{
			Title: "Forward Accounts Consultant", Company: "Riva Group",
			Location: "Oregon, USA", Salary: "$30000-$35000", PostedTime: "5 days ago",
			JobType: "Fulltime", Category: "Financial Services", ExperienceLevel: "Associate",
			Tags: []string{"Accounts", "Consultant"}, CompanyInitial: initial("R"),
		},
		{
			Title: "Senior UX Designer", Company: "DesignWorks",
			Location: "New York, USA", Salary: "$70000-$90000", PostedTime: "1 hour ago",
			JobType: "Fulltime", Category: "Commerce", ExperienceLevel: "Mid-Senior",
			Tags: []string{"Design", "UX"}, CompanyInitial: initial("D"),
		},
		{
			Title: "Junior Software Engineer", Company: "Tech Solutions",
			Location: "Los Angeles, USA", Salary: "$50000-$60000", PostedTime: "3 hours ago",
			JobType: "Fulltime", Category: "Financial Services", ExperienceLevel: types.DefaultExperienceLevel,
			Tags: []string{"Software", "Development"}, CompanyInitial: initial("T"),
		},
	}
}
