package store

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/AbdulRehman-Syed/task-manager/domain"
)

// Backend abstracts the key-value persistence the store reads from and
// writes to. Load reports found=false when nothing has been saved yet.
type Backend interface {
	Load(ctx context.Context) (blob []byte, found bool, err error)
	Save(ctx context.Context, blob []byte) error
}

// Fields carries the user-editable attributes of a task. Create consumes
// all of them; Update replaces all of them on the targeted task.
type Fields struct {
	Title       string          `json:"title"`
	Category    domain.Category `json:"category"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *domain.Date    `json:"dueDate,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Store owns the ordered task collection. All operations serialize through
// a single mutex, mirroring the one-logical-actor model of the original
// event-driven design. The stored order is the user-controlled display
// order; Query derives views without touching it.
type Store struct {
	backend Backend
	logger  *log.Logger
	clock   func() time.Time

	mu      sync.Mutex
	tasks   []domain.Task
	nextID  int64
	subs    map[int]chan struct{}
	nextSub int
}

// New creates a Store backed by the given persistence backend. Call Load
// before serving operations.
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		clock:   time.Now,
		tasks:   []domain.Task{},
		nextID:  1,
		subs:    map[int]chan struct{}{},
	}
}

// Load reads the persisted collection. An absent or unreadable blob yields
// an empty collection; corruption is logged, never fatal.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []domain.Task{}
	s.nextID = 1

	blob, found, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("load tasks: backend read failed, starting empty")
		return
	}
	if !found {
		s.logger.Debug("load tasks: no saved collection")
		return
	}
	var tasks []domain.Task
	if err := sonic.Unmarshal(blob, &tasks); err != nil {
		s.logger.WithError(err).Warn("load tasks: corrupt blob, starting empty")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.tasks = tasks
	for i := range tasks {
		tasks[i].DueDate = dueOrNil(tasks[i].DueDate)
		if tasks[i].ID >= s.nextID {
			s.nextID = tasks[i].ID + 1
		}
	}
	s.logger.WithField("count", len(tasks)).Info("loaded task collection")
}

// Create assigns the next id, sanitizes the text fields, stamps CreatedAt
// and appends the task to the end of the display order. Title validation is
// the caller's job; the store accepts whatever it is given.
func (s *Store) Create(ctx context.Context, f Fields) domain.Task {
	s.mu.Lock()
	t := domain.Task{
		ID:          s.nextID,
		Title:       domain.Sanitize(f.Title),
		Category:    f.Category,
		Priority:    f.Priority,
		DueDate:     dueOrNil(f.DueDate),
		Description: domain.Sanitize(f.Description),
		CreatedAt:   s.clock(),
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
	return t
}

// Update replaces the editable fields of the task with the given id. The
// id, completion flag and creation timestamp are never altered. Unknown ids
// are a no-op.
func (s *Store) Update(ctx context.Context, id int64, f Fields) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	t := &s.tasks[idx]
	t.Title = domain.Sanitize(f.Title)
	t.Category = f.Category
	t.Priority = f.Priority
	t.DueDate = dueOrNil(f.DueDate)
	t.Description = domain.Sanitize(f.Description)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Delete removes the task with the given id, preserving the relative order
// of the rest. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// ToggleCompletion flips the completed flag of the task with the given id.
// Unknown ids are a no-op.
func (s *Store) ToggleCompletion(ctx context.Context, id int64) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Reorder re-sorts the collection so relative positions match the supplied
// id sequence. Ids absent from the sequence keep the sort key -1 and
// therefore move ahead of every listed id, preserving their own relative
// order. The absentee rule is deliberate; see Query for the derived views.
func (s *Store) Reorder(ctx context.Context, ids []int64) {
	pos := make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, seen := pos[id]; !seen {
			pos[id] = i
		}
	}
	key := func(t domain.Task) int {
		if p, ok := pos[t.ID]; ok {
			return p
		}
		return -1
	}

	s.mu.Lock()
	stableSortBy(s.tasks, func(a, b domain.Task) bool {
		return key(a) < key(b)
	})
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the full collection in display order.
func (s *Store) Snapshot() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Subscribe registers for change notifications. The returned channel
// receives a coalesced signal after every successful mutation; the cancel
// function releases the subscription.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// persistLocked serializes the whole collection to the backend. Failures
// are logged and swallowed: the in-memory state stays authoritative until
// the next successful write.
func (s *Store) persistLocked(ctx context.Context) {
	blob, err := sonic.Marshal(s.tasks)
	if err != nil {
		s.logger.WithError(err).Error("persist tasks: encode failed")
		return
	}
	if err := s.backend.Save(ctx, blob); err != nil {
		s.logger.WithError(err).WithField("count", len(s.tasks)).
			Error("persist tasks: backend write failed, keeping in-memory state")
	}
}

// dueOrNil collapses the zero Date to nil: an empty due-date form value
// means "no due date", not a date.
func dueOrNil(d *domain.Date) *domain.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
