package store

import (
	"context"
	"errors"

	"github.com/taskway/taskman/internal/taskman/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used for uniqueness checks at registration.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetUserActive flips the is_active flag and bumps updated_at.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// DeleteUser cascades to tasks (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Tasks interface {
	// GetTaskByID returns a task owned by ownerID. A task that exists but
	// belongs to someone else is reported as ErrNotFound, never as a
	// permission error.
	GetTaskByID(ctx context.Context, ownerID, taskID string) (domain.Task, error)

	// ListTasks returns the owner's tasks matching the filter, ordered per
	// the sort.
	ListTasks(ctx context.Context, ownerID string, f domain.TaskFilter, s domain.TaskSort) ([]domain.Task, error)

	// CreateTask inserts a new task (id is provided by app via ULID).
	CreateTask(ctx context.Context, t domain.Task) error

	// UpdateTask rewrites the mutable columns of a task, scoped to its
	// owner. Returns ErrNotFound when no owned row matched.
	UpdateTask(ctx context.Context, t domain.Task) error

	// DeleteTask removes an owned task. Returns ErrNotFound when no owned
	// row matched.
	DeleteTask(ctx context.Context, ownerID, taskID string) error

	// CountTasksByOwner returns how many tasks the owner has.
	CountTasksByOwner(ctx context.Context, ownerID string) (int64, error)
}
