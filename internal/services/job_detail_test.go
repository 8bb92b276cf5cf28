package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/internal/services/servicestest"
	"github.com/rekrut-id/apiserver/internal/store"
	"github.com/rekrut-id/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJobs(t *testing.T, jobs *servicestest.Jobs, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := jobs.Create(context.Background(), types.Job{ID: fmt.Sprintf("job-%d", i), Title: fmt.Sprintf("Job %d", i)})
		require.NoError(t, err)
	}
}

func TestJobDetailService_Show(t *testing.T) {
	jobs := servicestest.NewJobs()
	details := servicestest.NewJobDetails(jobs)
	svc := services.NewJobDetailService(details, jobs, nil)
	ctx := context.Background()
	seedJobs(t, jobs, 5)

	_, err := svc.Create(ctx, services.JobDetailInput{
		JobID:       ptr("job-2"),
		Description: ptr("Build things."),
	})
	require.NoError(t, err)

	view, err := svc.Show(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, "job-2", view.Job.ID)
	assert.Equal(t, "Build things.", view.Description)
	assert.Equal(t, []string{}, view.KeyResponsibilities)
	require.Len(t, view.RelatedJobs, 3)
	for _, related := range view.RelatedJobs {
		assert.NotEqual(t, "job-2", related.ID)
	}

	_, err = svc.Show(ctx, "job-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJobDetailService_CreateValidation(t *testing.T) {
	jobs := servicestest.NewJobs()
	details := servicestest.NewJobDetails(jobs)
	svc := services.NewJobDetailService(details, jobs, nil)
	ctx := context.Background()
	seedJobs(t, jobs, 1)

	_, err := svc.Create(ctx, services.JobDetailInput{})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "job_id")
	assert.Contains(t, fields, "description")

	_, err = svc.Create(ctx, services.JobDetailInput{JobID: ptr("nope"), Description: ptr("d")})
	fields = validationFields(t, err)
	assert.Equal(t, []string{"The selected job id is invalid."}, fields["job_id"])

	_, err = svc.Create(ctx, services.JobDetailInput{JobID: ptr("job-1"), Description: ptr("d")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, services.JobDetailInput{JobID: ptr("job-1"), Description: ptr("again")})
	fields = validationFields(t, err)
	assert.Equal(t, []string{"The job id has already been taken."}, fields["job_id"])
}

func TestJobDetailService_UpdateAndDelete(t *testing.T) {
	jobs := servicestest.NewJobs()
	details := servicestest.NewJobDetails(jobs)
	publisher := &recordingPublisher{}
	svc := services.NewJobDetailService(details, jobs, services.NewEvents(publisher, nil))
	ctx := context.Background()
	seedJobs(t, jobs, 1)

	_, err := svc.Create(ctx, services.JobDetailInput{
		JobID:              ptr("job-1"),
		Description:        ptr("Original"),
		ProfessionalSkills: &[]string{"Go"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "job-1", services.JobDetailInput{
		KeyResponsibilities: &[]string{"Ship"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Original", updated.Description)
	assert.Equal(t, []string{"Ship"}, updated.KeyResponsibilities)
	assert.Equal(t, []string{"Go"}, updated.ProfessionalSkills)

	_, err = svc.Update(ctx, "missing", services.JobDetailInput{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "job-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "job-1"), store.ErrNotFound)

	assert.Equal(t, []string{
		services.EventJobDetailCreated,
		services.EventJobDetailUpdated,
		services.EventJobDetailDeleted,
	}, publisher.types())
	for _, e := range publisher.events {
		assert.Equal(t, services.ChannelJobs, e.channel)
		assert.Equal(t, "job-1", e.event.Subject)
	}
}
