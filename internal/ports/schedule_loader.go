package ports

import (
	"context"
	"dispatch-conflict-service/internal/domain"
)

// Port: the schedule snapshot boundary. Implementations parse raw storage values into
// domain types; the conflict engine never sees raw strings.
type ScheduleLoader interface {
	// Return every assignment dated on the given day, cancelled ones included.
	ListAssignments(ctx context.Context, date domain.Date) ([]domain.Assignment, error)
	// Return all workers with their current availability.
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
	// Return all trucks.
	ListTrucks(ctx context.Context) ([]domain.Truck, error)
	// Return truck reservations of projects in a locking phase on the given day.
	ListProjectLocks(ctx context.Context, date domain.Date) ([]domain.ProjectLock, error)
}
