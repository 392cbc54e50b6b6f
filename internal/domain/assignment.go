package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrUnknownStatus   = errors.New("unknown status")
	ErrUnknownKind     = errors.New("unknown conflict kind")
	ErrUnknownSeverity = errors.New("unknown conflict severity")
)

type (
	AssignmentID string
	TruckID      string
	WorkerID     string
	ProjectID    string
)

// Calendar date without a time component. The zero value is not a valid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is an earlier calendar date than other.
func (d Date) Before(other Date) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Local time of day with minute precision, stored as minutes since midnight.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		// Accept seconds from databases that store TIME columns.
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, ErrInvalidTime)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Lifecycle status of an assignment.
type Status uint8

const (
	StatusScheduled Status = iota + 1
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusDelayed
)

var statusNames = map[Status]string{
	StatusScheduled:  "scheduled",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusCancelled:  "cancelled",
	StatusDelayed:    "delayed",
}

// ParseStatus accepts the canonical names plus dashed and spaced spellings ("in-progress").
func ParseStatus(s string) (Status, error) {
	norm := normalizeEnum(s)
	for st, name := range statusNames {
		if name == norm {
			return st, nil
		}
	}
	return 0, fmt.Errorf("parse status %q: %w", s, ErrUnknownStatus)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// Represents one scheduled unit of work (a job) on a single calendar date.
// Truck, driver and project are optional; an empty identifier means unassigned.
// Customer, Description and Location are display data used when rendering conflict messages.
type Assignment struct {
	ID          AssignmentID
	Date        Date
	Time        TimeOfDay
	TruckID     TruckID
	DriverID    WorkerID
	HelperIDs   []WorkerID
	Status      Status
	ProjectID   ProjectID
	Customer    string
	Description string
	Location    string
}

// A not-yet-persisted assignment a dispatcher is considering. Same shape as Assignment.
type PendingAssignment = Assignment

// Cancelled assignments never take part in conflict detection.
func (a Assignment) Active() bool { return a.Status != StatusCancelled }

// Completed runs are excluded from driver-based conflicts.
func (a Assignment) DriverBookable() bool {
	return a.Active() && a.Status != StatusCompleted
}

// Return the driver followed by helpers, without duplicates or empty identifiers.
func (a Assignment) Crew() []WorkerID {
	crew := make([]WorkerID, 0, len(a.HelperIDs)+1)
	seen := make(map[WorkerID]struct{}, len(a.HelperIDs)+1)
	add := func(id WorkerID) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		crew = append(crew, id)
	}

	add(a.DriverID)
	for _, h := range a.HelperIDs {
		add(h)
	}
	return crew
}

// Short human description of the job: customer, description, or the identifier as a last resort.
func (a Assignment) Label() string {
	customer := strings.TrimSpace(a.Customer)
	desc := strings.TrimSpace(a.Description)
	switch {
	case customer != "" && desc != "":
		return customer + " (" + desc + ")"
	case customer != "":
		return customer
	case desc != "":
		return desc
	default:
		return "job " + string(a.ID)
	}
}
