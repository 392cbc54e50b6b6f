package services

import (
	"dispatch-conflict-service/internal/domain"
	"testing"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tod
}

type job struct {
	id, at, truck, driver, project string
	helpers                        []string
	status                         domain.Status
}

func buildJobs(t *testing.T, date domain.Date, jobs ...job) []domain.Assignment {
	t.Helper()
	out := make([]domain.Assignment, 0, len(jobs))
	for _, j := range jobs {
		st := j.status
		if st == 0 {
			st = domain.StatusScheduled
		}
		a := domain.Assignment{
			ID:        domain.AssignmentID(j.id),
			Date:      date,
			Time:      mustTime(t, j.at),
			TruckID:   domain.TruckID(j.truck),
			DriverID:  domain.WorkerID(j.driver),
			Status:    st,
			ProjectID: domain.ProjectID(j.project),
			Customer:  "Customer " + j.id,
			Location:  "Site " + j.id,
		}
		for _, h := range j.helpers {
			a.HelperIDs = append(a.HelperIDs, domain.WorkerID(h))
		}
		out = append(out, a)
	}
	return out
}

func byKind(conflicts []domain.Conflict, kind domain.Kind) []domain.Conflict {
	var out []domain.Conflict
	for _, c := range conflicts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
