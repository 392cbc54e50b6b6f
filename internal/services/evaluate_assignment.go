package services

import (
	"dispatch-conflict-service/internal/domain"
	"fmt"
)

// EvaluateAssignment checks one candidate, persisted or hypothetical, against the rest of
// the day.
//
// Counterparts are the persisted assignments of the context plus every pending assignment
// the caller is previewing, so several hypothetical bookings are flagged against each
// other as well as against the saved schedule. The candidate's own identifier is never
// compared with itself, which also hides the stored version of an assignment being edited.
// Rules run in domain.Kinds() order. Double-booking rules report one conflict per colliding
// counterpart; callers wanting one entry per key pass the result to DedupConflicts.
func EvaluateAssignment(candidate domain.Assignment, sc domain.ScheduleContext) ([]domain.Conflict, error) {
	if sc.Date.IsZero() {
		return nil, fmt.Errorf("evaluate assignment: %w", domain.ErrInvalidDate)
	}
	if candidate.Date.IsZero() {
		candidate.Date = sc.Date
	}
	if candidate.Date != sc.Date {
		return nil, fmt.Errorf(
			"evaluate assignment: assignment %s is dated %s, schedule is %s: %w",
			candidate.ID, candidate.Date, sc.Date, domain.ErrInvalidDate,
		)
	}

	if !candidate.Active() {
		return []domain.Conflict{}, nil
	}

	counterparts := make([]domain.Assignment, 0, len(sc.Assignments)+len(sc.Pending))
	counterparts = append(counterparts, sc.Assignments...)
	counterparts = append(counterparts, sc.Pending...)
	domain.SortAssignments(counterparts)

	var found []domain.Conflict
	for _, kind := range domain.Kinds() {
		found = append(found, runRule(kind, candidate, counterparts, sc)...)
	}

	if found == nil {
		found = []domain.Conflict{}
	}
	return found, nil
}
