package store

import (
	"sort"

	"github.com/AbdulRehman-Syed/task-manager/domain"
)

// Query derives a filtered, sorted view of the collection. It is a pure
// read: the stored display order is never touched. Sort policy: pending
// tasks before completed ones, then priority descending; ties keep their
// stored relative order.
func (s *Store) Query(f domain.Filter) []domain.Task {
	s.mu.Lock()
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	stableSortBy(out, func(a, b domain.Task) bool {
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.Priority.Rank() > b.Priority.Rank()
	})
	return out
}

func stableSortBy(tasks []domain.Task, less func(a, b domain.Task) bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}
