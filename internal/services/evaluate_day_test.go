package services

import (
	"dispatch-conflict-service/internal/domain"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSchedule builds a day with heavy sharing of trucks and drivers so every rule fires.
func randomSchedule(t *testing.T, seed int64, n int) domain.ScheduleContext {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	date := mustDate(t, "2026-10-20")

	pick := func(opts ...string) string { return opts[rng.Intn(len(opts))] }
	statuses := []domain.Status{
		domain.StatusScheduled, domain.StatusScheduled, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusDelayed,
	}

	jobs := make([]job, 0, n)
	for i := 0; i < n; i++ {
		j := job{
			id:      fmt.Sprintf("J%02d", i),
			at:      pick("08:00", "09:30", "14:30"),
			truck:   pick("T1", "T2", "T3", "T4", ""),
			driver:  pick("D1", "D2", "D3", "D4", ""),
			project: pick("", "P1", "P2"),
			status:  statuses[rng.Intn(len(statuses))],
		}
		for _, h := range []string{"H1", "H2", "H3"} {
			if rng.Intn(3) == 0 {
				j.helpers = append(j.helpers, h)
			}
		}
		jobs = append(jobs, j)
	}

	return domain.NewScheduleContext(domain.Snapshot{
		Date:        date,
		Assignments: buildJobs(t, date, jobs...),
		Workers: []domain.Worker{
			{ID: "D3", Name: "Dana", Status: domain.WorkerOutSick},
			{ID: "H2", Name: "Hal", Status: domain.WorkerOutSick},
			{ID: "H3", Name: "Hope", Status: domain.WorkerOnVacation},
		},
		Trucks: []domain.Truck{{ID: "T1", Name: "Mack 12"}, {ID: "T2", Name: "Roll-Off"}},
		Locks: []domain.ProjectLock{
			{TruckID: "T1", ProjectID: "P1", Phase: domain.PhaseActive},
			{TruckID: "T3", ProjectID: "P2", Phase: domain.PhaseCarting},
			{TruckID: "T4", ProjectID: "P3", Phase: domain.PhaseComplete},
		},
	}, nil)
}

func TestEvaluateDayMatchesIncrementalPerAssignment(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		sc := randomSchedule(t, seed, 30)

		var incremental []domain.Conflict
		for _, a := range sc.Assignments {
			got, err := EvaluateAssignment(a, sc)
			require.NoError(t, err)
			incremental = append(incremental, got...)
		}

		batch, err := EvaluateDay(sc)
		require.NoError(t, err)
		require.NotEmpty(t, batch, "seed %d", seed)
		assert.Equal(t, DedupConflicts(incremental), batch, "seed %d", seed)
	}
}

func TestEvaluateDayIsIdempotent(t *testing.T) {
	sc := randomSchedule(t, 42, 25)

	first, err := EvaluateDay(sc)
	require.NoError(t, err)
	second, err := EvaluateDay(sc)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestEvaluateDayKeysAreUnique(t *testing.T) {
	sc := randomSchedule(t, 7, 40)

	got, err := EvaluateDay(sc)
	require.NoError(t, err)

	seen := make(map[domain.ConflictKey]struct{}, len(got))
	for _, c := range got {
		_, dup := seen[c.Key()]
		assert.False(t, dup, "duplicate key %+v", c.Key())
		seen[c.Key()] = struct{}{}
	}
}

func TestEvaluateDayPrefersCriticalForSharedKey(t *testing.T) {
	date := mustDate(t, "2026-10-20")
	jobs := buildJobs(t, date,
		job{id: "A", at: "08:00", truck: "T1"},
		job{id: "B", at: "06:00", truck: "T1"},
		job{id: "C", at: "08:00", truck: "T1"},
	)

	got, err := EvaluateDay(domain.NewScheduleContext(domain.Snapshot{Date: date, Assignments: jobs}, nil))
	require.NoError(t, err)
	require.Len(t, got, 3)

	sev := map[domain.AssignmentID]domain.Severity{}
	for _, c := range got {
		sev[c.AssignmentID] = c.Severity
	}
	assert.Equal(t, domain.SeverityCritical, sev["A"])
	assert.Equal(t, domain.SeverityWarning, sev["B"])
	assert.Equal(t, domain.SeverityCritical, sev["C"])
}

func TestPendingAssignmentsConflictWithPersistedAndEachOther(t *testing.T) {
	date := mustDate(t, "2026-10-20")
	persisted := buildJobs(t, date, job{id: "A", at: "10:00", truck: "T1", driver: "D1"})
	pending := buildJobs(t, date,
		job{id: "X", at: "08:00", truck: "T1", driver: "D2"},
		job{id: "Y", at: "08:00", truck: "T2", driver: "D2"},
	)
	sc := domain.NewScheduleContext(domain.Snapshot{Date: date, Assignments: persisted}, pending)

	got, err := EvaluateAssignment(pending[0], sc)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.KindTruckDoubleBooking, got[0].Kind)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Contains(t, got[0].Message, "Customer A")

	assert.Equal(t, domain.KindDriverDoubleBooking, got[1].Kind)
	assert.Equal(t, domain.SeverityCritical, got[1].Severity)
	assert.Contains(t, got[1].Message, "Customer Y")

	// Pending work is invisible to the day report.
	day, err := EvaluateDay(sc)
	require.NoError(t, err)
	assert.Empty(t, day)
}

func TestIncrementalReportsEveryCounterpart(t *testing.T) {
	date := mustDate(t, "2026-10-20")
	jobs := buildJobs(t, date,
		job{id: "A", at: "08:00", truck: "T1"},
		job{id: "B", at: "08:00", truck: "T1"},
		job{id: "C", at: "12:00", truck: "T1"},
	)
	sc := domain.NewScheduleContext(domain.Snapshot{Date: date, Assignments: jobs}, nil)

	got, err := EvaluateAssignment(jobs[0], sc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.SeverityCritical, got[0].Severity)
	assert.Equal(t, domain.SeverityWarning, got[1].Severity)

	deduped := DedupConflicts(got)
	require.Len(t, deduped, 1)
	assert.Equal(t, domain.SeverityCritical, deduped[0].Severity)
}

func TestEditedAssignmentIsNotComparedWithItsStoredVersion(t *testing.T) {
	date := mustDate(t, "2026-10-20")
	stored := buildJobs(t, date, job{id: "A", at: "08:00", truck: "T1", driver: "D1"})
	edited := stored[0]
	edited.Time = mustTime(t, "09:00")

	sc := domain.NewScheduleContext(domain.Snapshot{Date: date, Assignments: stored}, nil)
	got, err := EvaluateAssignment(edited, sc)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScheduleContextDropsOtherDates(t *testing.T) {
	date := mustDate(t, "2026-10-20")
	other := mustDate(t, "2026-10-21")
	jobs := append(
		buildJobs(t, date, job{id: "A", at: "08:00", truck: "T1"}),
		buildJobs(t, other, job{id: "B", at: "08:00", truck: "T1"})...,
	)
	sc := domain.NewScheduleContext(domain.Snapshot{Date: date, Assignments: jobs}, nil)

	got, err := EvaluateDay(sc)
	require.NoError(t, err)
	assert.Empty(t, got)
}
