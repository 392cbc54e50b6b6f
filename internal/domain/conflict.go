package domain

import "fmt"

// Kind identifies the rule that produced a conflict. The declaration order is the
// evaluation order of the rule set.
type Kind uint8

const (
	KindTruckDoubleBooking Kind = iota + 1
	KindDriverDoubleBooking
	KindWorkerUnavailable
	KindProjectResourceLock
)

// Kinds returns every rule kind in evaluation order.
func Kinds() []Kind {
	return []Kind{
		KindTruckDoubleBooking,
		KindDriverDoubleBooking,
		KindWorkerUnavailable,
		KindProjectResourceLock,
	}
}

var kindNames = map[Kind]string{
	KindTruckDoubleBooking:  "truck_double_booking",
	KindDriverDoubleBooking: "driver_double_booking",
	KindWorkerUnavailable:   "worker_unavailable",
	KindProjectResourceLock: "project_resource_lock",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("parse conflict kind %q: %w", string(b), ErrUnknownKind)
}

type Severity uint8

const (
	SeverityWarning Severity = iota + 1
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "warning":
		*s = SeverityWarning
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("parse severity %q: %w", string(b), ErrUnknownSeverity)
	}
	return nil
}

// A detected inconsistency for one assignment. Conflicts are values; nothing mutates them
// after construction.
type Conflict struct {
	Kind         Kind
	Severity     Severity
	Message      string
	AssignmentID AssignmentID
	TruckID      TruckID
	WorkerID     WorkerID
}

// Identity of a conflict for deduplication purposes.
type ConflictKey struct {
	Kind         Kind
	AssignmentID AssignmentID
	TruckID      TruckID
	WorkerID     WorkerID
}

func (c Conflict) Key() ConflictKey {
	return ConflictKey{
		Kind:         c.Kind,
		AssignmentID: c.AssignmentID,
		TruckID:      c.TruckID,
		WorkerID:     c.WorkerID,
	}
}
