package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	StatusNew       = "New"
	StatusCompleted = "Completed"
)

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// Priority is the ordered priority vocabulary. The zero value means unset and
// is stored as NULL.
type Priority string

const (
	PriorityUnset  Priority = ""
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// priorityRanks drives both the in-memory comparator and the SQL ordering.
var priorityRanks = []struct {
	Priority Priority
	Rank     int
}{
	{PriorityHigh, 1},
	{PriorityMedium, 2},
	{PriorityLow, 3},
}

// PriorityRankOther is the bucket for unset and unknown priorities.
const PriorityRankOther = 4

// Rank returns the sort bucket: High < Medium < Low < everything else.
func (p Priority) Rank() int {
	for _, r := range priorityRanks {
		if r.Priority == p {
			return r.Rank
		}
	}
	return PriorityRankOther
}

// ParsePriority accepts High, Medium, Low in any case, or an empty string.
func ParsePriority(raw string) (Priority, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return PriorityUnset, true
	}
	for _, r := range priorityRanks {
		if strings.EqualFold(string(r.Priority), value) {
			return r.Priority, true
		}
	}
	return PriorityUnset, false
}

// Value stores the unset priority as NULL.
func (p Priority) Value() (driver.Value, error) {
	if p == PriorityUnset {
		return nil, nil
	}
	return string(p), nil
}

func (p *Priority) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = PriorityUnset
	case string:
		*p = Priority(v)
	case []byte:
		*p = Priority(v)
	default:
		return fmt.Errorf("scan priority: unsupported type %T", src)
	}
	return nil
}

// PrioritySQLOrder renders the rank table as a CASE expression over column.
func PrioritySQLOrder(column string) string {
	var sb strings.Builder
	sb.WriteString("CASE ")
	sb.WriteString(column)
	for _, r := range priorityRanks {
		sb.WriteString(fmt.Sprintf(" WHEN '%s' THEN %d", r.Priority, r.Rank))
	}
	sb.WriteString(fmt.Sprintf(" ELSE %d END", PriorityRankOther))
	return sb.String()
}

// StatusSQLOrder puts completed rows after all others.
func StatusSQLOrder(column string) string {
	return fmt.Sprintf("CASE %s WHEN '%s' THEN 2 ELSE 1 END", column, StatusCompleted)
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Description *string
	Category    *string
	Priority    Priority   `gorm:"type:text"`
	DueDate     *time.Time `gorm:"type:date"`
	Status      string     `gorm:"default:New"`
	CreatedAt   time.Time
	User        *User `gorm:"foreignKey:UserID"`
}

// Completed reports whether the task sorts into the trailing group.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TaskLess orders by status group, then priority rank, then due date with
// missing due dates first.
func TaskLess(a, b Task) bool {
	if a.Completed() != b.Completed() {
		return !a.Completed()
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return false
	case a.DueDate == nil:
		return true
	case b.DueDate == nil:
		return false
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

// Bucket is one (label, count) pair of an analytics grouping. A nil label is
// the bucket for absent values.
type Bucket struct {
	Label *string `json:"label"`
	Count int64   `json:"count"`
}

// Analytics holds the three independent groupings over a user's tasks.
type Analytics struct {
	Categories []Bucket `json:"categories"`
	Priorities []Bucket `json:"priorities"`
	Statuses   []Bucket `json:"statuses"`
}

// TaskAttribute names a task column that analytics can group by.
type TaskAttribute string

const (
	AttrCategory TaskAttribute = "category"
	AttrPriority TaskAttribute = "priority"
	AttrStatus   TaskAttribute = "status"
)

// Valid reports whether the attribute is one of the groupable columns.
func (a TaskAttribute) Valid() bool {
	switch a {
	case AttrCategory, AttrPriority, AttrStatus:
		return true
	}
	return false
}

// AttributeValue returns the task's value for attr, nil when absent.
func (t Task) AttributeValue(attr TaskAttribute) *string {
	switch attr {
	case AttrCategory:
		return t.Category
	case AttrPriority:
		if t.Priority == PriorityUnset {
			return nil
		}
		p := string(t.Priority)
		return &p
	case AttrStatus:
		s := t.Status
		return &s
	}
	return nil
}
