// Package memory is an in-process implementation of the repositories used
// when no database is configured and as the store behind service tests.
// It enforces the same unique keys and cascades as the Postgres schema.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/repositories"
)

type state struct {
	nextID      uint
	students    map[uint]models.Student
	homeworks   map[uint]models.Homework
	submissions map[uint]models.Submission
	attendance  map[uint]models.Attendance
}

func newState() *state {
	return &state{
		students:    make(map[uint]models.Student),
		homeworks:   make(map[uint]models.Homework),
		submissions: make(map[uint]models.Submission),
		attendance:  make(map[uint]models.Attendance),
	}
}

func (s *state) clone() *state {
	return &state{
		nextID:      s.nextID,
		students:    maps.Clone(s.students),
		homeworks:   maps.Clone(s.homeworks),
		submissions: maps.Clone(s.submissions),
		attendance:  maps.Clone(s.attendance),
	}
}

func (s *state) newID() uint {
	s.nextID++
	return s.nextID
}

type store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

// Repository implements repositories.Repository in memory. Transactions
// work on a copy of the state that replaces it on commit, and hold the
// store lock for their whole duration.
type Repository struct {
	store *store
	tx    *state
}

// Option configures a memory repository
type Option func(*store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}

// NewRepository creates an empty in-memory repository
func NewRepository(opts ...Option) *Repository {
	s := &store{data: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return &Repository{store: s}
}

// run executes fn against the transaction state or, outside a transaction,
// against the shared state under the store lock.
func (r *Repository) run(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.data)
}

func (r *Repository) now() time.Time {
	return r.store.now()
}

func (r *Repository) Student() repositories.StudentRepository {
	return &studentRepository{r}
}

func (r *Repository) Homework() repositories.HomeworkRepository {
	return &homeworkRepository{r}
}

func (r *Repository) Submission() repositories.SubmissionRepository {
	return &submissionRepository{r}
}

func (r *Repository) Attendance() repositories.AttendanceRepository {
	return &attendanceRepository{r}
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := r.store.data.clone()
	if err := fn(&Repository{store: r.store, tx: working}); err != nil {
		return err
	}
	r.store.data = working
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *Repository) Close() error {
	return nil
}

// Manager adapts Repository to repositories.RepositoryManager
type Manager struct {
	repo *Repository
}

func NewRepositoryManager(opts ...Option) repositories.RepositoryManager {
	return &Manager{repo: NewRepository(opts...)}
}

func (m *Manager) Initialize() error {
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	return m.repo.Close()
}
