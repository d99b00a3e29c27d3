package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taskboard/internal/model"
)

// dueSoonWindow is how far ahead of today a due date counts as due soon.
const dueSoonWindow = 48 * time.Hour

// Digest summarizes a user's open work at a point in time.
type Digest struct {
	UserID  uint         `json:"user_id"`
	Date    string       `json:"date"`
	Open    int          `json:"open"`
	Overdue []model.Task `json:"-"`
	DueSoon []model.Task `json:"-"`
}

// DigestService builds summaries of overdue and upcoming tasks.
type DigestService struct {
	users    UserStore
	taskRepo TaskStore
}

func NewDigestService(users UserStore, taskRepo TaskStore) *DigestService {
	return &DigestService{users: users, taskRepo: taskRepo}
}

// Summary classifies the user's open tasks relative to now's calendar date.
func (s *DigestService) Summary(ctx context.Context, userID uint, now time.Time) (*Digest, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	horizon := today.Add(dueSoonWindow)

	digest := &Digest{UserID: userID, Date: today.Format(model.DateLayout)}
	// tasks arrive in dashboard order, so both slices keep it.
	for _, task := range tasks {
		if task.Completed() {
			continue
		}
		digest.Open++
		if task.DueDate == nil {
			continue
		}
		due := task.DueDate.UTC()
		switch {
		case due.Before(today):
			digest.Overdue = append(digest.Overdue, task)
		case due.Before(horizon):
			digest.DueSoon = append(digest.DueSoon, task)
		}
	}
	return digest, nil
}

// LogAll writes one digest line per registered user.
func (s *DigestService) LogAll(ctx context.Context, now time.Time) error {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		digest, err := s.Summary(ctx, user.ID, now)
		if err != nil {
			log.Printf("build digest for user %d: %v", user.ID, err)
			continue
		}
		log.Printf("[info] digest user=%s %s", user.Username, digest)
	}
	return nil
}

func (d *Digest) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("date=%s open=%d overdue=%d due_soon=%d", d.Date, d.Open, len(d.Overdue), len(d.DueSoon)))
	if len(d.Overdue) > 0 {
		sb.WriteString(" overdue_titles=")
		sb.WriteString(joinTitles(d.Overdue))
	}
	return sb.String()
}

func joinTitles(tasks []model.Task) string {
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, fmt.Sprintf("%q", strings.TrimSpace(task.Title)))
	}
	return strings.Join(titles, ",")
}
