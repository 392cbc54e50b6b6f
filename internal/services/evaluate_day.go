package services

import (
	"dispatch-conflict-service/internal/domain"
	"fmt"
)

// EvaluateDay detects every conflict among the persisted assignments of one date.
//
// Assignments are grouped by truck and, separately, by driver (completed runs excluded),
// and pairs are compared only inside a group, so the work is bounded by the sum of the
// squared group sizes. Both sides of a colliding pair get their own conflict. Sick-worker
// and project-lock checks run once per assignment. Pending assignments in the context are
// ignored: only persisted work appears in a day report.
//
// The result equals running EvaluateAssignment for each assignment in schedule order and
// passing the concatenation to DedupConflicts.
func EvaluateDay(sc domain.ScheduleContext) ([]domain.Conflict, error) {
	if sc.Date.IsZero() {
		return nil, fmt.Errorf("evaluate day: %w", domain.ErrInvalidDate)
	}

	jobs := sc.Assignments
	perJob := make([][]domain.Conflict, len(jobs))

	byTruck := make(map[domain.TruckID][]int)
	byDriver := make(map[domain.WorkerID][]int)
	for i, a := range jobs {
		if !a.Active() {
			continue
		}
		if a.TruckID != "" {
			byTruck[a.TruckID] = append(byTruck[a.TruckID], i)
		}
		if a.DriverID != "" && a.DriverBookable() {
			byDriver[a.DriverID] = append(byDriver[a.DriverID], i)
		}
	}

	// Each job sits in at most one truck group and one driver group, so appending phase by
	// phase leaves every per-job slice in rule order even though map iteration is random.
	for _, kind := range domain.Kinds() {
		switch kind {
		case domain.KindTruckDoubleBooking:
			for _, group := range byTruck {
				eachPair(jobs, group, func(i, j int) {
					perJob[i] = append(perJob[i], truckConflict(jobs[i], jobs[j], sc))
				})
			}
		case domain.KindDriverDoubleBooking:
			for _, group := range byDriver {
				eachPair(jobs, group, func(i, j int) {
					perJob[i] = append(perJob[i], driverConflict(jobs[i], jobs[j], sc))
				})
			}
		case domain.KindWorkerUnavailable:
			for i, a := range jobs {
				perJob[i] = append(perJob[i], unavailableWorkers(a, sc)...)
			}
		case domain.KindProjectResourceLock:
			for i, a := range jobs {
				perJob[i] = append(perJob[i], projectLockViolations(a, sc)...)
			}
		default:
			panic(fmt.Sprintf("evaluate day: no rule for kind %s", kind))
		}
	}

	total := 0
	for _, cs := range perJob {
		total += len(cs)
	}
	all := make([]domain.Conflict, 0, total)
	for _, cs := range perJob {
		all = append(all, cs...)
	}

	return DedupConflicts(all), nil
}

// eachPair calls fn for every ordered pair of distinct jobs in a group. Group indexes
// ascend, so counterparts are visited in schedule order.
func eachPair(jobs []domain.Assignment, group []int, fn func(i, j int)) {
	if len(group) < 2 {
		return
	}
	for _, i := range group {
		for _, j := range group {
			if i == j || jobs[i].ID == jobs[j].ID {
				continue
			}
			fn(i, j)
		}
	}
}
