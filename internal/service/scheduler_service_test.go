package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:30", "0 30 8 * * *", false},
		{" 23:59 ", "0 59 23 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"7", "", true},
		{"aa:bb", "", true},
		{"1:2:3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduler_RegistersJobs(t *testing.T) {
	s := NewSchedulerService(time.UTC, time.Second)
	noop := func(context.Context) error { return nil }

	_, err := s.ScheduleInterval("digest", 0, noop)
	assert.Error(t, err)
	_, err = s.ScheduleDaily("digest", "25:00", noop)
	assert.Error(t, err)

	_, err = s.ScheduleInterval("digest", 6*time.Hour, noop)
	require.NoError(t, err)
	_, err = s.ScheduleDaily("digest", "09:00", noop)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	assert.True(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_RunBoundsJobWithTimeout(t *testing.T) {
	s := NewSchedulerService(time.UTC, 10*time.Millisecond)

	var deadlineSet bool
	s.run("probe", func(ctx context.Context) error {
		_, deadlineSet = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.True(t, deadlineSet)
}

func TestScheduler_StartWithoutJobsStaysIdle(t *testing.T) {
	s := NewSchedulerService(time.UTC, time.Second)

	assert.False(t, s.Start())
	assert.Zero(t, s.Entries())
	require.NoError(t, s.Stop(context.Background()))
}
