package domain

import (
	"fmt"
	"strings"
)

// Availability of a worker as reported by dispatch.
type WorkerStatus uint8

const (
	WorkerAvailable WorkerStatus = iota + 1
	WorkerOnSite
	WorkerEnRoute
	WorkerOffDuty
	WorkerOutSick
	WorkerOnVacation
)

var workerStatusNames = map[WorkerStatus]string{
	WorkerAvailable:  "available",
	WorkerOnSite:     "on_site",
	WorkerEnRoute:    "en_route",
	WorkerOffDuty:    "off_duty",
	WorkerOutSick:    "out_sick",
	WorkerOnVacation: "on_vacation",
}

func ParseWorkerStatus(s string) (WorkerStatus, error) {
	norm := normalizeEnum(s)
	for st, name := range workerStatusNames {
		if name == norm {
			return st, nil
		}
	}
	return 0, fmt.Errorf("parse worker status %q: %w", s, ErrUnknownStatus)
}

func (s WorkerStatus) String() string {
	if name, ok := workerStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("worker_status(%d)", uint8(s))
}

func (s WorkerStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *WorkerStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseWorkerStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// A driver or helper.
type Worker struct {
	ID     WorkerID
	Name   string
	Status WorkerStatus
}

func (w Worker) DisplayName() string {
	if n := strings.TrimSpace(w.Name); n != "" {
		return n
	}
	return WorkerLabel(w.ID)
}

func WorkerLabel(id WorkerID) string {
	if id == "" {
		return "unknown worker"
	}
	return "worker " + string(id)
}
