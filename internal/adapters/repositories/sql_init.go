package repositories

import (
	"database/sql"
	"dispatch-conflict-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the schedule schema. The DDL is valid on both Postgres and SQLite.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS trucks (
		truck_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS workers (
		worker_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'available'
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS projects (
		project_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		phase TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS project_trucks (
		project_id TEXT NOT NULL,
		truck_id TEXT NOT NULL,
		PRIMARY KEY (project_id, truck_id)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS assignments (
		assignment_id TEXT PRIMARY KEY,
		job_date TEXT NOT NULL,
		job_time TEXT NOT NULL,
		truck_id TEXT,
		driver_id TEXT,
		status TEXT NOT NULL,
		project_id TEXT,
		customer TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT ''
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS assignment_helpers (
		assignment_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		PRIMARY KEY (assignment_id, worker_id)
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_assignments_job_date
	ON assignments(job_date);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TruckSeed struct {
	TruckID string `json:"truck_id"`
	Name    string `json:"name"`
}

type WorkerSeed struct {
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

type ProjectSeed struct {
	ProjectID string   `json:"project_id"`
	Name      string   `json:"name"`
	Phase     string   `json:"phase"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	TruckIDs  []string `json:"truck_ids"`
}

type AssignmentSeed struct {
	AssignmentID string   `json:"assignment_id"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	TruckID      string   `json:"truck_id"`
	DriverID     string   `json:"driver_id"`
	HelperIDs    []string `json:"helper_ids"`
	Status       string   `json:"status"`
	ProjectID    string   `json:"project_id"`
	Customer     string   `json:"customer"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
}

// Seed file layout: reference data plus the assignments of one or more days.
type ScheduleSeed struct {
	Trucks      []TruckSeed      `json:"trucks"`
	Workers     []WorkerSeed     `json:"workers"`
	Projects    []ProjectSeed    `json:"projects"`
	Assignments []AssignmentSeed `json:"assignments"`
}

// Populate the database with schedule data from a JSON file. Rows are upserted, so the
// seed can be re-applied after editing the file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed schedule: read %q: %w", jsonPath, err)
	}

	var seed ScheduleSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed schedule: parse json: %w", err)
	}

	return Seed(db, seed)
}

// Seed validates and writes a schedule seed in one transaction.
func Seed(db *sql.DB, seed ScheduleSeed) error {
	if db == nil {
		return errors.New("seed schedule: DB is nil")
	}
	if err := validateSeed(seed); err != nil {
		return fmt.Errorf("seed schedule: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range seed.Trucks {
		if _, err := tx.Exec(`
		INSERT INTO trucks (truck_id, name) VALUES ($1, $2)
		ON CONFLICT (truck_id) DO UPDATE SET name = EXCLUDED.name;
		`, strings.TrimSpace(t.TruckID), t.Name); err != nil {
			return fmt.Errorf("seed schedule: insert truck_id=%s: %w", t.TruckID, err)
		}
	}

	for _, w := range seed.Workers {
		st, _ := seedWorkerStatus(w.Status)
		if _, err := tx.Exec(`
		INSERT INTO workers (worker_id, name, status) VALUES ($1, $2, $3)
		ON CONFLICT (worker_id) DO UPDATE SET name = EXCLUDED.name, status = EXCLUDED.status;
		`, strings.TrimSpace(w.WorkerID), w.Name, st.String()); err != nil {
			return fmt.Errorf("seed schedule: insert worker_id=%s: %w", w.WorkerID, err)
		}
	}

	for _, p := range seed.Projects {
		ph, _ := domain.ParseProjectPhase(p.Phase)
		if _, err := tx.Exec(`
		INSERT INTO projects (project_id, name, phase, start_date, end_date) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id) DO UPDATE
		SET name = EXCLUDED.name,
			phase = EXCLUDED.phase,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date;
		`, strings.TrimSpace(p.ProjectID), p.Name, ph.String(), nullable(p.StartDate), nullable(p.EndDate)); err != nil {
			return fmt.Errorf("seed schedule: insert project_id=%s: %w", p.ProjectID, err)
		}
		for _, truck := range p.TruckIDs {
			if _, err := tx.Exec(`
			INSERT INTO project_trucks (project_id, truck_id) VALUES ($1, $2)
			ON CONFLICT (project_id, truck_id) DO NOTHING;
			`, strings.TrimSpace(p.ProjectID), strings.TrimSpace(truck)); err != nil {
				return fmt.Errorf("seed schedule: lock truck_id=%s to project_id=%s: %w", truck, p.ProjectID, err)
			}
		}
	}

	for _, a := range seed.Assignments {
		id := strings.TrimSpace(a.AssignmentID)
		date, _ := domain.ParseDate(a.Date)
		tod, _ := domain.ParseTimeOfDay(a.Time)
		st, _ := domain.ParseStatus(a.Status)

		if _, err := tx.Exec(`
		INSERT INTO assignments (
			assignment_id, job_date, job_time, truck_id, driver_id, status,
			project_id, customer, description, location
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (assignment_id) DO UPDATE
		SET job_date = EXCLUDED.job_date,
			job_time = EXCLUDED.job_time,
			truck_id = EXCLUDED.truck_id,
			driver_id = EXCLUDED.driver_id,
			status = EXCLUDED.status,
			project_id = EXCLUDED.project_id,
			customer = EXCLUDED.customer,
			description = EXCLUDED.description,
			location = EXCLUDED.location;
		`,
			id, date.String(), tod.String(), nullable(a.TruckID), nullable(a.DriverID), st.String(),
			nullable(a.ProjectID), a.Customer, a.Description, a.Location,
		); err != nil {
			return fmt.Errorf("seed schedule: insert assignment_id=%s: %w", id, err)
		}

		if _, err := tx.Exec(`DELETE FROM assignment_helpers WHERE assignment_id = $1;`, id); err != nil {
			return fmt.Errorf("seed schedule: clear helpers assignment_id=%s: %w", id, err)
		}
		for _, h := range a.HelperIDs {
			if _, err := tx.Exec(`
			INSERT INTO assignment_helpers (assignment_id, worker_id) VALUES ($1, $2)
			ON CONFLICT (assignment_id, worker_id) DO NOTHING;
			`, id, strings.TrimSpace(h)); err != nil {
				return fmt.Errorf("seed schedule: insert helper worker_id=%s assignment_id=%s: %w", h, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed schedule: commit tx: %w", err)
	}

	return nil
}

// validateSeed parses every enum, date and time once so bad seed data fails before any
// row is written.
func validateSeed(seed ScheduleSeed) error {
	for i, t := range seed.Trucks {
		if strings.TrimSpace(t.TruckID) == "" {
			return fmt.Errorf("truck at index %d: truck_id cannot be empty", i+1)
		}
	}
	for i, w := range seed.Workers {
		if strings.TrimSpace(w.WorkerID) == "" {
			return fmt.Errorf("worker at index %d: worker_id cannot be empty", i+1)
		}
		if _, err := seedWorkerStatus(w.Status); err != nil {
			return fmt.Errorf("worker at index %d: %w", i+1, err)
		}
	}
	for i, p := range seed.Projects {
		if strings.TrimSpace(p.ProjectID) == "" {
			return fmt.Errorf("project at index %d: project_id cannot be empty", i+1)
		}
		if _, err := domain.ParseProjectPhase(p.Phase); err != nil {
			return fmt.Errorf("project at index %d: %w", i+1, err)
		}
		for _, d := range []string{p.StartDate, p.EndDate} {
			if strings.TrimSpace(d) == "" {
				continue
			}
			if _, err := domain.ParseDate(d); err != nil {
				return fmt.Errorf("project at index %d: %w", i+1, err)
			}
		}
	}
	for i, a := range seed.Assignments {
		if strings.TrimSpace(a.AssignmentID) == "" {
			return fmt.Errorf("assignment at index %d: assignment_id cannot be empty", i+1)
		}
		if _, err := domain.ParseDate(a.Date); err != nil {
			return fmt.Errorf("assignment at index %d: %w", i+1, err)
		}
		if _, err := domain.ParseTimeOfDay(a.Time); err != nil {
			return fmt.Errorf("assignment at index %d: %w", i+1, err)
		}
		if _, err := domain.ParseStatus(a.Status); err != nil {
			return fmt.Errorf("assignment at index %d: %w", i+1, err)
		}
	}
	return nil
}

func nullable(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// Workers without a status in the seed are available.
func seedWorkerStatus(s string) (domain.WorkerStatus, error) {
	if strings.TrimSpace(s) == "" {
		return domain.WorkerAvailable, nil
	}
	return domain.ParseWorkerStatus(s)
}
