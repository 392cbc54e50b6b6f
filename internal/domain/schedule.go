package domain

import (
	"slices"
	"strings"
)

// Immutable snapshot of one calendar date handed to the conflict evaluators.
//
// Assignments holds the persisted same-date assignments. Pending holds hypothetical
// assignments a caller is previewing; only the incremental evaluator looks at them.
// Build it with NewScheduleContext so lookup sets are populated.
type ScheduleContext struct {
	Date        Date
	Assignments []Assignment
	Pending     []PendingAssignment

	sick        map[WorkerID]struct{}
	locks       map[TruckID][]ProjectLock
	truckNames  map[TruckID]string
	workerNames map[WorkerID]string
}

// Raw reference data as produced by a schedule loader.
type Snapshot struct {
	Date        Date
	Assignments []Assignment
	Workers     []Worker
	Trucks      []Truck
	Locks       []ProjectLock
}

// NewScheduleContext indexes a snapshot for evaluation. Assignments not on the snapshot
// date are dropped, and the remainder is ordered by time of day then identifier so that
// every evaluation walks counterparts in the same order.
func NewScheduleContext(s Snapshot, pending []PendingAssignment) ScheduleContext {
	sc := ScheduleContext{
		Date:        s.Date,
		Assignments: sameDate(s.Date, s.Assignments),
		Pending:     sameDate(s.Date, pending),
		sick:        make(map[WorkerID]struct{}),
		locks:       make(map[TruckID][]ProjectLock),
		truckNames:  make(map[TruckID]string, len(s.Trucks)),
		workerNames: make(map[WorkerID]string, len(s.Workers)),
	}

	for _, w := range s.Workers {
		sc.workerNames[w.ID] = w.DisplayName()
		if w.Status == WorkerOutSick {
			sc.sick[w.ID] = struct{}{}
		}
	}
	for _, t := range s.Trucks {
		sc.truckNames[t.ID] = t.DisplayName()
	}
	for _, l := range s.Locks {
		if l.TruckID == "" || !l.Phase.Locks() {
			continue
		}
		sc.locks[l.TruckID] = append(sc.locks[l.TruckID], l)
	}
	for id := range sc.locks {
		slices.SortFunc(sc.locks[id], func(a, b ProjectLock) int {
			return strings.Compare(string(a.ProjectID), string(b.ProjectID))
		})
	}

	return sc
}

func sameDate(d Date, in []Assignment) []Assignment {
	out := make([]Assignment, 0, len(in))
	for _, a := range in {
		if a.Date == d {
			out = append(out, a)
		}
	}
	SortAssignments(out)
	return out
}

// SortAssignments orders assignments by time of day, then identifier.
func SortAssignments(as []Assignment) {
	slices.SortStableFunc(as, func(a, b Assignment) int {
		if a.Time != b.Time {
			return int(a.Time) - int(b.Time)
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}

func (sc ScheduleContext) IsSick(id WorkerID) bool {
	_, ok := sc.sick[id]
	return ok
}

// Locks returns the active project locks on a truck, ordered by project identifier.
func (sc ScheduleContext) Locks(id TruckID) []ProjectLock {
	return sc.locks[id]
}

func (sc ScheduleContext) TruckName(id TruckID) string {
	if n := sc.truckNames[id]; n != "" {
		return n
	}
	return TruckLabel(id)
}

func (sc ScheduleContext) WorkerName(id WorkerID) string {
	if n := sc.workerNames[id]; n != "" {
		return n
	}
	return WorkerLabel(id)
}

// Find returns the persisted assignment with the given identifier.
func (sc ScheduleContext) Find(id AssignmentID) (Assignment, bool) {
	for _, a := range sc.Assignments {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}
