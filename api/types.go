package api

import (
	"context"

	"github.com/AbdulRehman-Syed/task-manager/domain"
	"github.com/AbdulRehman-Syed/task-manager/store"
)

// Store is the task store surface the handlers drive.
type Store interface {
	Create(ctx context.Context, f store.Fields) domain.Task
	Update(ctx context.Context, id int64, f store.Fields)
	Delete(ctx context.Context, id int64)
	ToggleCompletion(ctx context.Context, id int64)
	Reorder(ctx context.Context, ids []int64)
	Query(f domain.Filter) []domain.Task
	Snapshot() []domain.Task
	Subscribe() (<-chan struct{}, func())
}

// Deduper drops duplicate submissions identified by an idempotency key.
type Deduper interface {
	// Add records the key and returns true if it was newly added.
	Add(ctx context.Context, key string) (bool, error)
}
