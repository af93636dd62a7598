package repositories

import "context"

// Repository aggregates every entity store behind one handle
type Repository interface {
	Student() StudentRepository
	Homework() HomeworkRepository
	Submission() SubmissionRepository
	Attendance() AttendanceRepository

	// WithTransaction runs fn against a repository bound to one transaction.
	// Returning an error rolls back every write made through it.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
