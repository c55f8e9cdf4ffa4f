package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	runs int
	err  error
}

func (j *stubJob) Name() string { return j.name }
func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func TestTriggerRunsRegisteredJob(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &stubJob{name: "refresh_quotes"}

	require.NoError(t, sched.AddJob("@hourly", job))

	require.NoError(t, sched.Trigger("refresh_quotes"))
	assert.Equal(t, 1, job.runs)
}

func TestTriggerUnknownJob(t *testing.T) {
	sched := New(zerolog.Nop())

	err := sched.Trigger("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestTriggerPropagatesJobError(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &stubJob{name: "maintenance", err: errors.New("disk full")}

	require.NoError(t, sched.AddJob("@daily", job))

	err := sched.Trigger("maintenance")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownJob)
}

func TestJobNamesSorted(t *testing.T) {
	sched := New(zerolog.Nop())

	require.NoError(t, sched.AddJob("@hourly", &stubJob{name: "sync_history"}))
	require.NoError(t, sched.AddJob("@daily", &stubJob{name: "maintenance"}))
	require.NoError(t, sched.AddJob("@hourly", &stubJob{name: "refresh_quotes"}))

	assert.Equal(t, []string{"maintenance", "refresh_quotes", "sync_history"}, sched.JobNames())
}
