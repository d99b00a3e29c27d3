package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work. It must return when ctx is done.
type Job func(ctx context.Context) error

// SchedulerService runs named jobs on cron triggers, each run bounded by a timeout.
type SchedulerService struct {
	cron    *cron.Cron
	timeout time.Duration
}

func NewSchedulerService(loc *time.Location, timeout time.Duration) *SchedulerService {
	return &SchedulerService{
		cron:    cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		timeout: timeout,
	}
}

// ScheduleDaily runs job once a day at the HH:MM time string.
func (s *SchedulerService) ScheduleDaily(name, timeStr string, job Job) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	return s.add(name, spec, job)
}

// ScheduleInterval runs job every interval, rounded down to whole seconds.
func (s *SchedulerService) ScheduleInterval(name string, interval time.Duration, job Job) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("schedule %s: interval must be positive", name)
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.add(name, fmt.Sprintf("@every %ds", seconds), job)
}

func (s *SchedulerService) add(name, spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	log.Printf("[info] job %s scheduled spec=%q", name, spec)
	return id, nil
}

func (s *SchedulerService) run(name string, job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	started := time.Now()
	if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("job %s failed after %s: %v", name, time.Since(started).Round(time.Millisecond), err)
	}
}

// Entries reports how many jobs are registered.
func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

// Start runs the cron loop only when a job is registered and reports whether
// it did.
func (s *SchedulerService) Start() bool {
	if s.Entries() == 0 {
		return false
	}
	s.cron.Start()
	return true
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *SchedulerService) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildDailySpec turns HH:MM into a seconds-first cron spec.
func buildDailySpec(timeStr string) (string, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(timeStr), ":")
	if !ok {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
