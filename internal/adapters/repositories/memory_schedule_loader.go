package repositories

import (
	"context"
	"dispatch-conflict-service/internal/domain"
	"sync/atomic"
)

// In-memory ScheduleLoader over a fixed data set. It counts calls so tests can verify how
// many queries an evaluation issues.
//
// Windows optionally bounds a project's locks by date, like start_date and end_date in the
// SQL repository. Projects without a window lock their trucks on every date.
type MemoryScheduleLoader struct {
	Assignments []domain.Assignment
	Workers     []domain.Worker
	Trucks      []domain.Truck
	Locks       []domain.ProjectLock
	Windows     map[domain.ProjectID]LockWindow

	calls atomic.Int64
}

// Date range a project reserves its trucks for. A zero bound leaves that side open.
type LockWindow struct {
	Start domain.Date
	End   domain.Date
}

func (w LockWindow) Covers(date domain.Date) bool {
	if !w.Start.IsZero() && date.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && w.End.Before(date) {
		return false
	}
	return true
}

func NewMemoryScheduleLoader(
	assignments []domain.Assignment,
	workers []domain.Worker,
	trucks []domain.Truck,
	locks []domain.ProjectLock,
) *MemoryScheduleLoader {
	return &MemoryScheduleLoader{
		Assignments: assignments,
		Workers:     workers,
		Trucks:      trucks,
		Locks:       locks,
	}
}

// Calls reports how many loader methods have been invoked.
func (m *MemoryScheduleLoader) Calls() int64 { return m.calls.Load() }

func (m *MemoryScheduleLoader) ListAssignments(ctx context.Context, date domain.Date) ([]domain.Assignment, error) {
	m.calls.Add(1)
	out := make([]domain.Assignment, 0, len(m.Assignments))
	for _, a := range m.Assignments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryScheduleLoader) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	m.calls.Add(1)
	return append([]domain.Worker(nil), m.Workers...), nil
}

func (m *MemoryScheduleLoader) ListTrucks(ctx context.Context) ([]domain.Truck, error) {
	m.calls.Add(1)
	return append([]domain.Truck(nil), m.Trucks...), nil
}

func (m *MemoryScheduleLoader) ListProjectLocks(ctx context.Context, date domain.Date) ([]domain.ProjectLock, error) {
	m.calls.Add(1)
	out := make([]domain.ProjectLock, 0, len(m.Locks))
	for _, l := range m.Locks {
		if !l.Phase.Locks() {
			continue
		}
		if w, ok := m.Windows[l.ProjectID]; ok && !w.Covers(date) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
