package domain

import (
	"errors"
	"testing"
)

func TestNewScheduleContextIndexesSnapshot(t *testing.T) {
	day, _ := ParseDate("2026-10-20")
	other, _ := ParseDate("2026-10-21")

	sc := NewScheduleContext(Snapshot{
		Date: day,
		Assignments: []Assignment{
			{ID: "B", Date: day, Time: 600},
			{ID: "X", Date: other, Time: 480},
			{ID: "C", Date: day, Time: 480},
			{ID: "A", Date: day, Time: 600},
		},
		Workers: []Worker{
			{ID: "W1", Name: "Sam", Status: WorkerOutSick},
			{ID: "W2", Name: "Ana", Status: WorkerOnVacation},
			{ID: "W3", Status: WorkerAvailable},
		},
		Trucks: []Truck{{ID: "T1", Name: "Mack 12"}, {ID: "T2"}},
		Locks: []ProjectLock{
			{TruckID: "T1", ProjectID: "P9", Phase: PhaseCarting},
			{TruckID: "T1", ProjectID: "P2", Phase: PhaseActive},
			{TruckID: "T2", ProjectID: "P3", Phase: PhaseOnHold},
			{ProjectID: "P4", Phase: PhaseActive},
		},
	}, []PendingAssignment{{ID: "N", Date: day, Time: 300}, {ID: "M", Date: other}})

	var ids []AssignmentID
	for _, a := range sc.Assignments {
		ids = append(ids, a.ID)
	}
	if want := []AssignmentID{"C", "A", "B"}; len(ids) != 3 || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Errorf("assignment order = %v, want %v", ids, want)
	}
	if len(sc.Pending) != 1 || sc.Pending[0].ID != "N" {
		t.Errorf("pending = %v", sc.Pending)
	}

	if !sc.IsSick("W1") || sc.IsSick("W2") || sc.IsSick("W3") {
		t.Errorf("only out-sick workers belong to the sick set")
	}

	locks := sc.Locks("T1")
	if len(locks) != 2 || locks[0].ProjectID != "P2" || locks[1].ProjectID != "P9" {
		t.Errorf("T1 locks = %v", locks)
	}
	if len(sc.Locks("T2")) != 0 {
		t.Errorf("on-hold project must not lock its truck")
	}

	if got := sc.TruckName("T1"); got != "Mack 12" {
		t.Errorf("TruckName(T1) = %q", got)
	}
	if got := sc.TruckName("T2"); got != "truck T2" {
		t.Errorf("TruckName(T2) = %q", got)
	}
	if got := sc.TruckName("T9"); got != "truck T9" {
		t.Errorf("TruckName(T9) = %q", got)
	}
	if got := sc.WorkerName("W3"); got != "worker W3" {
		t.Errorf("WorkerName(W3) = %q", got)
	}
	if got := sc.WorkerName(""); got != "unknown worker" {
		t.Errorf("WorkerName(empty) = %q", got)
	}

	if _, ok := sc.Find("X"); ok {
		t.Errorf("Find returned an assignment from another date")
	}
	if a, ok := sc.Find("A"); !ok || a.Time != 600 {
		t.Errorf("Find(A) = %v, %v", a, ok)
	}
}

func TestConflictKeyIgnoresMessageAndSeverity(t *testing.T) {
	a := Conflict{Kind: KindTruckDoubleBooking, Severity: SeverityWarning, Message: "x", AssignmentID: "J1", TruckID: "T1"}
	b := Conflict{Kind: KindTruckDoubleBooking, Severity: SeverityCritical, Message: "y", AssignmentID: "J1", TruckID: "T1"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %v vs %v", a.Key(), b.Key())
	}
	b.WorkerID = "W1"
	if a.Key() == b.Key() {
		t.Errorf("worker id must be part of the key")
	}
}

func TestConflictEnumErrorsAreDistinctFromStatus(t *testing.T) {
	var k Kind
	err := k.UnmarshalText([]byte("overtime"))
	if !errors.Is(err, ErrUnknownKind) || errors.Is(err, ErrUnknownStatus) {
		t.Errorf("kind err = %v, want ErrUnknownKind only", err)
	}

	var s Severity
	err = s.UnmarshalText([]byte("fatal"))
	if !errors.Is(err, ErrUnknownSeverity) || errors.Is(err, ErrUnknownStatus) {
		t.Errorf("severity err = %v, want ErrUnknownSeverity only", err)
	}
}

func TestDateBefore(t *testing.T) {
	a, _ := ParseDate("2026-09-30")
	b, _ := ParseDate("2026-10-01")
	c, _ := ParseDate("2027-01-01")
	if !a.Before(b) || !b.Before(c) || b.Before(a) || b.Before(b) {
		t.Errorf("Before ordering is wrong")
	}
}
