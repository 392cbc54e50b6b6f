package domain

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-20 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.String(); got != "2026-10-20" {
		t.Errorf("String() = %q, want 2026-10-20", got)
	}

	for _, bad := range []string{"", "2026-13-01", "20/10/2026"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}

	if !(Date{}).IsZero() || d.IsZero() {
		t.Errorf("IsZero mismatch")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]TimeOfDay{
		"08:00":    480,
		"14:30":    870,
		"00:05":    5,
		"23:59:30": 1439,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", in, got, want)
		}
	}

	if _, err := ParseTimeOfDay("25:00"); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("err = %v, want ErrInvalidTime", err)
	}
	if got := TimeOfDay(870).String(); got != "14:30" {
		t.Errorf("String() = %q, want 14:30", got)
	}
}

func TestParseStatusAcceptsSpellings(t *testing.T) {
	for _, in := range []string{"in_progress", "in-progress", "In Progress"} {
		st, err := ParseStatus(in)
		if err != nil || st != StatusInProgress {
			t.Errorf("ParseStatus(%q) = %v, %v", in, st, err)
		}
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("err = %v, want ErrUnknownStatus", err)
	}
}

func TestAssignmentJSONUsesTextForms(t *testing.T) {
	d, _ := ParseDate("2026-10-20")
	a := struct {
		Date   Date      `json:"date"`
		Time   TimeOfDay `json:"time"`
		Status Status    `json:"status"`
	}{d, 480, StatusCompleted}

	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"date":"2026-10-20","time":"08:00","status":"completed"}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestAssignmentCrew(t *testing.T) {
	a := Assignment{DriverID: "D1", HelperIDs: []WorkerID{"H1", "", "D1", "H2", "H1"}}
	want := []WorkerID{"D1", "H1", "H2"}
	if got := a.Crew(); !slices.Equal(got, want) {
		t.Errorf("Crew() = %v, want %v", got, want)
	}

	if got := (Assignment{HelperIDs: []WorkerID{"H3"}}).Crew(); !slices.Equal(got, []WorkerID{"H3"}) {
		t.Errorf("Crew() without driver = %v", got)
	}
}

func TestAssignmentStatusPredicates(t *testing.T) {
	cases := []struct {
		status         Status
		active, driver bool
	}{
		{StatusScheduled, true, true},
		{StatusInProgress, true, true},
		{StatusDelayed, true, true},
		{StatusCompleted, true, false},
		{StatusCancelled, false, false},
	}
	for _, tc := range cases {
		a := Assignment{Status: tc.status}
		if a.Active() != tc.active || a.DriverBookable() != tc.driver {
			t.Errorf("%s: Active=%v DriverBookable=%v", tc.status, a.Active(), a.DriverBookable())
		}
	}
}

func TestAssignmentLabel(t *testing.T) {
	cases := []struct {
		a    Assignment
		want string
	}{
		{Assignment{ID: "J1", Customer: "Acme", Description: "Demo"}, "Acme (Demo)"},
		{Assignment{ID: "J1", Customer: "Acme"}, "Acme"},
		{Assignment{ID: "J1", Description: " Demo "}, "Demo"},
		{Assignment{ID: "J1"}, "job J1"},
	}
	for _, tc := range cases {
		if got := tc.a.Label(); got != tc.want {
			t.Errorf("Label() = %q, want %q", got, tc.want)
		}
	}
}
