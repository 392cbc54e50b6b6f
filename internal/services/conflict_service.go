package services

import (
	"context"
	"dispatch-conflict-service/internal/domain"
	"dispatch-conflict-service/internal/platform/obs"
	"dispatch-conflict-service/internal/ports"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

const pendingIDPrefix = "pending-"

// ConflictService binds the conflict evaluators to a schedule loader.
//
// Every call loads one fresh snapshot (assignments, workers, trucks, project locks: one
// loader call each) and evaluates it in memory. Cache and Metrics are optional.
type ConflictService struct {
	Loader  ports.ScheduleLoader
	Cache   ports.ConflictCache
	Metrics *obs.Metrics
	Logger  zerolog.Logger
}

func NewConflictService(
	loader ports.ScheduleLoader,
	cache ports.ConflictCache,
	metrics *obs.Metrics,
	logger zerolog.Logger,
) *ConflictService {
	return &ConflictService{
		Loader:  loader,
		Cache:   cache,
		Metrics: metrics,
		Logger:  logger.With().Str("component", "conflict_service").Logger(),
	}
}

// LoadSnapshot fetches the reference data for one date, issuing each loader query once.
func LoadSnapshot(ctx context.Context, loader ports.ScheduleLoader, date domain.Date) (domain.Snapshot, error) {
	snap := domain.Snapshot{Date: date}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		as, err := loader.ListAssignments(gctx, date)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		snap.Assignments = as
		return nil
	})
	g.Go(func() error {
		ws, err := loader.ListWorkers(gctx)
		if err != nil {
			return fmt.Errorf("list workers: %w", err)
		}
		snap.Workers = ws
		return nil
	})
	g.Go(func() error {
		ts, err := loader.ListTrucks(gctx)
		if err != nil {
			return fmt.Errorf("list trucks: %w", err)
		}
		snap.Trucks = ts
		return nil
	})
	g.Go(func() error {
		ls, err := loader.ListProjectLocks(gctx, date)
		if err != nil {
			return fmt.Errorf("list project locks: %w", err)
		}
		snap.Locks = ls
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot %s: %w", date, err)
	}
	return snap, nil
}

// DayConflicts returns the deduplicated conflict report for every persisted assignment on
// date. A cached report is served when available; cache failures fall back to evaluation.
func (s *ConflictService) DayConflicts(ctx context.Context, date domain.Date) (_ []domain.Conflict, err error) {
	defer obs.Time(ctx, "conflicts.DayConflicts")(&err)
	return s.dayConflicts(ctx, date, true)
}

func (s *ConflictService) dayConflicts(ctx context.Context, date domain.Date, readCache bool) ([]domain.Conflict, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("day conflicts: %w", domain.ErrInvalidDate)
	}

	if s.Cache != nil && readCache {
		cached, ok, cerr := s.Cache.Get(ctx, date)
		switch {
		case cerr != nil:
			s.Metrics.CacheLookup("error")
			s.Logger.Warn().Err(cerr).Str("date", date.String()).Msg("conflict cache read failed")
		case ok:
			s.Metrics.CacheLookup("hit")
			return cached, nil
		default:
			s.Metrics.CacheLookup("miss")
		}
	}

	snap, err := LoadSnapshot(ctx, s.Loader, date)
	if err != nil {
		return nil, fmt.Errorf("day conflicts: %w", err)
	}

	start := time.Now()
	conflicts, err := EvaluateDay(domain.NewScheduleContext(snap, nil))
	if err != nil {
		return nil, fmt.Errorf("day conflicts: %w", err)
	}
	s.record("day", time.Since(start), conflicts)

	if s.Cache != nil {
		if perr := s.Cache.Put(ctx, date, conflicts); perr != nil {
			s.Logger.Warn().Err(perr).Str("date", date.String()).Msg("conflict cache write failed")
		}
	}

	return conflicts, nil
}

// PreviewConflicts checks a hypothetical candidate against the persisted schedule of date
// and against the other pending assignments in the same request. Entries without an
// identifier receive a generated one; entries without a date take date. A pending entry
// without an identifier that books exactly what the candidate books is the candidate
// repeated, and is dropped.
func (s *ConflictService) PreviewConflicts(
	ctx context.Context,
	date domain.Date,
	candidate domain.PendingAssignment,
	pending []domain.PendingAssignment,
) (_ []domain.Conflict, err error) {
	defer obs.Time(ctx, "conflicts.PreviewConflicts")(&err)

	if date.IsZero() {
		return nil, fmt.Errorf("preview conflicts: %w", domain.ErrInvalidDate)
	}

	candidate = prepareCandidate(candidate, date)
	prepared := make([]domain.PendingAssignment, 0, len(pending))
	for _, p := range pending {
		if p.ID == "" && sameBooking(prepareCandidate(p, date), candidate) {
			continue
		}
		prepared = append(prepared, prepareCandidate(p, date))
	}

	snap, err := LoadSnapshot(ctx, s.Loader, date)
	if err != nil {
		return nil, fmt.Errorf("preview conflicts: %w", err)
	}

	start := time.Now()
	conflicts, err := EvaluateAssignment(candidate, domain.NewScheduleContext(snap, prepared))
	if err != nil {
		return nil, fmt.Errorf("preview conflicts: %w", err)
	}
	s.record("preview", time.Since(start), conflicts)

	return conflicts, nil
}

// AssignmentConflicts re-checks one persisted assignment against the rest of its day.
func (s *ConflictService) AssignmentConflicts(
	ctx context.Context,
	date domain.Date,
	id domain.AssignmentID,
) (_ []domain.Conflict, err error) {
	defer obs.Time(ctx, "conflicts.AssignmentConflicts")(&err)

	if date.IsZero() {
		return nil, fmt.Errorf("assignment conflicts: %w", domain.ErrInvalidDate)
	}

	snap, err := LoadSnapshot(ctx, s.Loader, date)
	if err != nil {
		return nil, fmt.Errorf("assignment conflicts: %w", err)
	}

	sc := domain.NewScheduleContext(snap, nil)
	a, ok := sc.Find(id)
	if !ok {
		return nil, fmt.Errorf("assignment conflicts: id=%s date=%s: %w", id, date, ErrAssignmentNotFound)
	}

	start := time.Now()
	conflicts, err := EvaluateAssignment(a, sc)
	if err != nil {
		return nil, fmt.Errorf("assignment conflicts: %w", err)
	}
	s.record("assignment", time.Since(start), conflicts)

	return conflicts, nil
}

// RefreshDay drops any cached report for date and evaluates it again. The cached report is
// never read here, so a failed invalidation is logged and the day is still recomputed.
func (s *ConflictService) RefreshDay(ctx context.Context, date domain.Date) (_ []domain.Conflict, err error) {
	defer obs.Time(ctx, "conflicts.RefreshDay")(&err)

	if s.Cache != nil && !date.IsZero() {
		if ierr := s.Cache.Invalidate(ctx, date); ierr != nil {
			s.Metrics.CacheLookup("error")
			s.Logger.Warn().Err(ierr).Str("date", date.String()).Msg("conflict cache invalidate failed")
		}
	}
	return s.dayConflicts(ctx, date, false)
}

func (s *ConflictService) record(mode string, dur time.Duration, conflicts []domain.Conflict) {
	s.Metrics.ObserveEvaluation(mode, dur)
	for _, c := range conflicts {
		s.Metrics.CountConflict(mode, c.Kind.String(), c.Severity.String())
	}
}

func prepareCandidate(a domain.PendingAssignment, date domain.Date) domain.PendingAssignment {
	if a.ID == "" {
		a.ID = domain.AssignmentID(pendingIDPrefix + uuid.NewString())
	}
	if a.Date.IsZero() {
		a.Date = date
	}
	if a.Status == 0 {
		a.Status = domain.StatusScheduled
	}
	return a
}

// sameBooking reports whether two assignments book the same slot, resources and project.
// Identifiers and display fields are ignored.
func sameBooking(a, b domain.Assignment) bool {
	return a.Date == b.Date &&
		a.Time == b.Time &&
		a.TruckID == b.TruckID &&
		a.DriverID == b.DriverID &&
		a.Status == b.Status &&
		a.ProjectID == b.ProjectID &&
		slices.Equal(a.Crew(), b.Crew())
}

// Counts of a conflict report by severity and kind.
type ConflictSummary struct {
	Total    int
	Critical int
	Warning  int
	ByKind   map[domain.Kind]int
}

func Summarize(conflicts []domain.Conflict) ConflictSummary {
	sum := ConflictSummary{ByKind: make(map[domain.Kind]int, len(domain.Kinds()))}
	for _, c := range conflicts {
		sum.Total++
		switch c.Severity {
		case domain.SeverityCritical:
			sum.Critical++
		case domain.SeverityWarning:
			sum.Warning++
		}
		sum.ByKind[c.Kind]++
	}
	return sum
}
