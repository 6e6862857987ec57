package domain

import (
	"html"
	"strings"
	"time"
)

// Category buckets a task into one of the fixed UI groups.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank maps priorities onto a numeric scale for sorting. Higher is more
// urgent; unknown values rank below Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task is a single to-do record. IDs are assigned by the store and are
// unique among currently stored tasks.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OverdueAt reports whether the task is past due at the given moment.
// Completed tasks and tasks without a due date are never overdue.
func (t Task) OverdueAt(now time.Time) bool {
	if t.Completed || t.DueDate == nil || t.DueDate.IsZero() {
		return false
	}
	return t.DueDate.Time().Before(now)
}

// Sanitize trims surrounding whitespace and neutralizes HTML metacharacters
// so stored text is safe to render verbatim.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
