package domain

import "strings"

// FilterAll is the sentinel matching every value of a filter dimension.
const FilterAll = "all"

// Status narrows tasks by completion state.
type Status string

const (
	StatusAll       Status = FilterAll
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Filter is the set of view controls applied to the task list. Zero values
// and the "all" sentinel match everything.
type Filter struct {
	Search   string
	Category string
	Priority string
	Status   Status
}

// Matches reports whether the task passes every filter dimension.
func (f Filter) Matches(t Task) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		title := strings.ToLower(t.Title)
		desc := strings.ToLower(t.Description)
		if !strings.Contains(title, term) && !strings.Contains(desc, term) {
			return false
		}
	}
	if f.Category != "" && f.Category != FilterAll && f.Category != string(t.Category) {
		return false
	}
	if f.Priority != "" && f.Priority != FilterAll && f.Priority != string(t.Priority) {
		return false
	}
	switch f.Status {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	}
	return true
}
