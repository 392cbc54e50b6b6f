package repositories

import (
	"context"
	"database/sql"
	"dispatch-conflict-service/internal/domain"
	"dispatch-conflict-service/internal/platform/obs"
	"errors"
	"fmt"
)

// SQL-backed implementation of the ScheduleLoader port.
//
// Queries use $n placeholders and portable SQL so the same repository runs on Postgres
// (pgx stdlib driver) and SQLite (go-sqlite3). Raw column values are parsed into domain
// types here; a value that does not parse is reported as an error.
type SQLScheduleRepository struct{ DB *sql.DB }

func NewSQLScheduleRepository(db *sql.DB) *SQLScheduleRepository {
	return &SQLScheduleRepository{DB: db}
}

// Return the assignments of one day with their helpers, in one query.
func (s *SQLScheduleRepository) ListAssignments(ctx context.Context, date domain.Date) (_ []domain.Assignment, err error) {
	defer obs.Time(ctx, "schedule.repo.ListAssignments")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule repository: DB is nil")
	}

	query := `
	SELECT
		a.assignment_id,
		a.job_date,
		a.job_time,
		COALESCE(a.truck_id, ''),
		COALESCE(a.driver_id, ''),
		a.status,
		COALESCE(a.project_id, ''),
		a.customer,
		a.description,
		a.location,
		COALESCE(h.worker_id, '')
	FROM assignments a
	LEFT JOIN assignment_helpers h ON h.assignment_id = a.assignment_id
	WHERE a.job_date = $1
	ORDER BY a.job_time, a.assignment_id, h.worker_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, date.String())
	if err != nil {
		return nil, fmt.Errorf("list assignments: query assignments table: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.Assignment, 0, 64)
	index := make(map[domain.AssignmentID]int)
	for rows.Next() {
		var (
			id, day, clock, truck, driver, status, project string
			customer, desc, location, helper               string
		)
		if err := rows.Scan(&id, &day, &clock, &truck, &driver, &status, &project, &customer, &desc, &location, &helper); err != nil {
			return nil, fmt.Errorf("list assignments: scan row: %w", err)
		}

		if i, ok := index[domain.AssignmentID(id)]; ok {
			if helper != "" {
				assignments[i].HelperIDs = append(assignments[i].HelperIDs, domain.WorkerID(helper))
			}
			continue
		}

		a, err := parseAssignmentRow(id, day, clock, truck, driver, status, project)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		a.Customer, a.Description, a.Location = customer, desc, location
		if helper != "" {
			a.HelperIDs = []domain.WorkerID{domain.WorkerID(helper)}
		}

		index[a.ID] = len(assignments)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: row iteration: %w", err)
	}

	return assignments, nil
}

func parseAssignmentRow(id, day, clock, truck, driver, status, project string) (domain.Assignment, error) {
	date, err := domain.ParseDate(day)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment_id=%s: %w", id, err)
	}
	tod, err := domain.ParseTimeOfDay(clock)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment_id=%s: %w", id, err)
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment_id=%s: %w", id, err)
	}

	return domain.Assignment{
		ID:        domain.AssignmentID(id),
		Date:      date,
		Time:      tod,
		TruckID:   domain.TruckID(truck),
		DriverID:  domain.WorkerID(driver),
		Status:    st,
		ProjectID: domain.ProjectID(project),
	}, nil
}

func (s *SQLScheduleRepository) ListWorkers(ctx context.Context) (_ []domain.Worker, err error) {
	defer obs.Time(ctx, "schedule.repo.ListWorkers")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT worker_id, name, status
	FROM workers
	ORDER BY worker_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list workers: query workers table: %w", err)
	}
	defer rows.Close()

	workers := make([]domain.Worker, 0, 32)
	for rows.Next() {
		var id, name, status string
		if err := rows.Scan(&id, &name, &status); err != nil {
			return nil, fmt.Errorf("list workers: scan row: %w", err)
		}
		st, err := domain.ParseWorkerStatus(status)
		if err != nil {
			return nil, fmt.Errorf("list workers: worker_id=%s: %w", id, err)
		}
		workers = append(workers, domain.Worker{ID: domain.WorkerID(id), Name: name, Status: st})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workers: row iteration: %w", err)
	}

	return workers, nil
}

func (s *SQLScheduleRepository) ListTrucks(ctx context.Context) (_ []domain.Truck, err error) {
	defer obs.Time(ctx, "schedule.repo.ListTrucks")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT truck_id, name
	FROM trucks
	ORDER BY truck_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list trucks: query trucks table: %w", err)
	}
	defer rows.Close()

	trucks := make([]domain.Truck, 0, 16)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("list trucks: scan row: %w", err)
		}
		trucks = append(trucks, domain.Truck{ID: domain.TruckID(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trucks: row iteration: %w", err)
	}

	return trucks, nil
}

// Return truck reservations of active or carting projects whose date window covers date.
// A missing start or end date leaves that side of the window open.
func (s *SQLScheduleRepository) ListProjectLocks(ctx context.Context, date domain.Date) (_ []domain.ProjectLock, err error) {
	defer obs.Time(ctx, "schedule.repo.ListProjectLocks")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule repository: DB is nil")
	}

	query := `
	SELECT
		pt.truck_id,
		p.project_id,
		p.name,
		p.phase
	FROM projects p
	JOIN project_trucks pt ON pt.project_id = p.project_id
	WHERE p.phase IN ('active', 'carting')
		AND (p.start_date IS NULL OR p.start_date <= $1)
		AND (p.end_date IS NULL OR p.end_date >= $1)
	ORDER BY pt.truck_id, p.project_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, date.String())
	if err != nil {
		return nil, fmt.Errorf("list project locks: query projects table: %w", err)
	}
	defer rows.Close()

	locks := make([]domain.ProjectLock, 0, 16)
	for rows.Next() {
		var truck, project, name, phase string
		if err := rows.Scan(&truck, &project, &name, &phase); err != nil {
			return nil, fmt.Errorf("list project locks: scan row: %w", err)
		}
		ph, err := domain.ParseProjectPhase(phase)
		if err != nil {
			return nil, fmt.Errorf("list project locks: project_id=%s: %w", project, err)
		}
		locks = append(locks, domain.ProjectLock{
			TruckID:     domain.TruckID(truck),
			ProjectID:   domain.ProjectID(project),
			ProjectName: name,
			Phase:       ph,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list project locks: row iteration: %w", err)
	}

	return locks, nil
}
