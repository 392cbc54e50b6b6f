package services

import (
	"dispatch-conflict-service/internal/domain"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// runRule dispatches one rule kind for a candidate. Counterparts are the other same-date
// assignments the candidate is compared against, already ordered by time then identifier.
func runRule(
	kind domain.Kind,
	candidate domain.Assignment,
	counterparts []domain.Assignment,
	sc domain.ScheduleContext,
) []domain.Conflict {
	switch kind {
	case domain.KindTruckDoubleBooking:
		return truckDoubleBookings(candidate, counterparts, sc)
	case domain.KindDriverDoubleBooking:
		return driverDoubleBookings(candidate, counterparts, sc)
	case domain.KindWorkerUnavailable:
		return unavailableWorkers(candidate, sc)
	case domain.KindProjectResourceLock:
		return projectLockViolations(candidate, sc)
	default:
		panic(fmt.Sprintf("conflict rules: no rule for kind %s", kind))
	}
}

// Truck double-booking includes completed counterparts: a finished leg still occupied the truck.
func truckDoubleBookings(candidate domain.Assignment, counterparts []domain.Assignment, sc domain.ScheduleContext) []domain.Conflict {
	if candidate.TruckID == "" || !candidate.Active() {
		return nil
	}

	var out []domain.Conflict
	for _, other := range counterparts {
		if other.ID == candidate.ID || !other.Active() || other.TruckID != candidate.TruckID {
			continue
		}
		out = append(out, truckConflict(candidate, other, sc))
	}
	return out
}

func truckConflict(candidate, other domain.Assignment, sc domain.ScheduleContext) domain.Conflict {
	severity := domain.SeverityWarning
	when := "also booked at " + other.Time.String()
	if candidate.Time == other.Time {
		severity = domain.SeverityCritical
		when = "already booked at the same time (" + other.Time.String() + ")"
	}

	return domain.Conflict{
		Kind:         domain.KindTruckDoubleBooking,
		Severity:     severity,
		Message:      fmt.Sprintf("%s is %s for %s.", upperFirst(sc.TruckName(candidate.TruckID)), when, describeJob(other)),
		AssignmentID: candidate.ID,
		TruckID:      candidate.TruckID,
	}
}

// Driver double-booking skips completed runs on either side.
func driverDoubleBookings(candidate domain.Assignment, counterparts []domain.Assignment, sc domain.ScheduleContext) []domain.Conflict {
	if candidate.DriverID == "" || !candidate.DriverBookable() {
		return nil
	}

	var out []domain.Conflict
	for _, other := range counterparts {
		if other.ID == candidate.ID || !other.DriverBookable() || other.DriverID != candidate.DriverID {
			continue
		}
		out = append(out, driverConflict(candidate, other, sc))
	}
	return out
}

func driverConflict(candidate, other domain.Assignment, sc domain.ScheduleContext) domain.Conflict {
	severity := domain.SeverityWarning
	when := "also driving at " + other.Time.String()
	if candidate.Time == other.Time {
		severity = domain.SeverityCritical
		when = "already driving at the same time (" + other.Time.String() + ")"
	}

	return domain.Conflict{
		Kind:         domain.KindDriverDoubleBooking,
		Severity:     severity,
		Message:      fmt.Sprintf("Driver %s is %s for %s.", sc.WorkerName(candidate.DriverID), when, describeJob(other)),
		AssignmentID: candidate.ID,
		WorkerID:     candidate.DriverID,
	}
}

// Only out-sick blocks a worker; vacation is not checked.
func unavailableWorkers(candidate domain.Assignment, sc domain.ScheduleContext) []domain.Conflict {
	if !candidate.Active() {
		return nil
	}

	var out []domain.Conflict
	for _, id := range candidate.Crew() {
		if !sc.IsSick(id) {
			continue
		}
		out = append(out, domain.Conflict{
			Kind:         domain.KindWorkerUnavailable,
			Severity:     domain.SeverityCritical,
			Message:      fmt.Sprintf("%s is out sick and cannot work this job.", upperFirst(sc.WorkerName(id))),
			AssignmentID: candidate.ID,
			WorkerID:     id,
		})
	}
	return out
}

func projectLockViolations(candidate domain.Assignment, sc domain.ScheduleContext) []domain.Conflict {
	if candidate.TruckID == "" || !candidate.Active() {
		return nil
	}

	var out []domain.Conflict
	for _, lock := range sc.Locks(candidate.TruckID) {
		if lock.ProjectID == candidate.ProjectID {
			continue
		}
		out = append(out, domain.Conflict{
			Kind:     domain.KindProjectResourceLock,
			Severity: domain.SeverityWarning,
			Message: fmt.Sprintf(
				"%s is reserved for %s (%s phase) and this job is not part of that project.",
				upperFirst(sc.TruckName(candidate.TruckID)), lock.DisplayName(), lock.Phase,
			),
			AssignmentID: candidate.ID,
			TruckID:      candidate.TruckID,
		})
	}
	return out
}

func describeJob(a domain.Assignment) string {
	s := a.Label()
	if loc := strings.TrimSpace(a.Location); loc != "" {
		s += " at " + loc
	}
	return s
}

// Fallback labels start lower case ("truck T9"); messages start with a capital.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
