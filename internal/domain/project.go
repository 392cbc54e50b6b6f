package domain

import (
	"fmt"
	"strings"
)

// Operational phase of a project.
type ProjectPhase uint8

const (
	PhasePlanning ProjectPhase = iota + 1
	PhaseActive
	PhaseCarting
	PhaseComplete
	PhaseOnHold
)

var phaseNames = map[ProjectPhase]string{
	PhasePlanning: "planning",
	PhaseActive:   "active",
	PhaseCarting:  "carting",
	PhaseComplete: "complete",
	PhaseOnHold:   "on_hold",
}

func ParseProjectPhase(s string) (ProjectPhase, error) {
	norm := normalizeEnum(s)
	for p, name := range phaseNames {
		if name == norm {
			return p, nil
		}
	}
	return 0, fmt.Errorf("parse project phase %q: %w", s, ErrUnknownStatus)
}

func (p ProjectPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Only active and carting projects reserve their trucks.
func (p ProjectPhase) Locks() bool { return p == PhaseActive || p == PhaseCarting }

// A truck reserved for one project while that project is in a locking phase.
type ProjectLock struct {
	TruckID     TruckID
	ProjectID   ProjectID
	ProjectName string
	Phase       ProjectPhase
}

func (l ProjectLock) DisplayName() string {
	if n := strings.TrimSpace(l.ProjectName); n != "" {
		return n
	}
	return "project " + string(l.ProjectID)
}
