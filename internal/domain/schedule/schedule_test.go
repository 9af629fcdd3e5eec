package schedule

import (
	"testing"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

func ptr(s string) *string { return &s }

func TestBuildWeek(t *testing.T) {
	rows, err := BuildWeek(5, []DayRule{
		{Weekday: 0, StartTime: "09:00", EndTime: "17:00"},
		{Weekday: 5, StartTime: "10:00", EndTime: "14:00"},
	})
	if err != nil {
		t.Fatalf("build week: %v", err)
	}
	if len(rows) != 2 || rows[1].StaffID != 5 || rows[1].Weekday != 5 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestBuildWeek_Rejects(t *testing.T) {
	cases := []struct {
		name string
		days []DayRule
		code string
	}{
		{
			name: "duplicate",
			days: []DayRule{{Weekday: 1, StartTime: "09:00", EndTime: "10:00"}, {Weekday: 1, StartTime: "11:00", EndTime: "12:00"}},
			code: "duplicate_weekday",
		},
		{name: "weekday", days: []DayRule{{Weekday: 7, StartTime: "09:00", EndTime: "10:00"}}, code: "invalid_weekday"},
		{name: "format", days: []DayRule{{Weekday: 1, StartTime: "9", EndTime: "10:00"}}, code: "invalid_time"},
		{name: "order", days: []DayRule{{Weekday: 1, StartTime: "10:00", EndTime: "10:00"}}, code: "invalid_time_range"},
	}

	for _, c := range cases {
		_, err := BuildWeek(1, c.days)
		if !httperr.IsBusiness(err, c.code) {
			t.Fatalf("%s: expected %s, got %v", c.name, c.code, err)
		}
	}
}

func TestNewTimeOff_SwapsDates(t *testing.T) {
	off, err := NewTimeOff(2, TimeOffInput{StartDate: "2026-10-25", EndDate: "2026-10-20", Reason: " vacation "})
	if err != nil {
		t.Fatalf("new time off: %v", err)
	}
	if off.StartDate != "2026-10-20" || off.EndDate != "2026-10-25" {
		t.Fatalf("expected swapped range, got %s..%s", off.StartDate, off.EndDate)
	}
	if !off.IsFullDay() || off.Reason != "vacation" {
		t.Fatalf("unexpected entry: %+v", off)
	}
}

func TestNewTimeOff_Partial(t *testing.T) {
	off, err := NewTimeOff(2, TimeOffInput{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr("12:00"), EndTime: ptr("13:00")})
	if err != nil {
		t.Fatalf("new time off: %v", err)
	}
	if off.IsFullDay() || *off.StartTime != "12:00" {
		t.Fatalf("expected partial entry, got %+v", off)
	}

	off, err = NewTimeOff(2, TimeOffInput{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr(""), EndTime: ptr("")})
	if err != nil || !off.IsFullDay() {
		t.Fatalf("empty times mean full day, got %+v %v", off, err)
	}
}

func TestNewTimeOff_Rejects(t *testing.T) {
	cases := []struct {
		in   TimeOffInput
		code string
	}{
		{in: TimeOffInput{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr("12:00")}, code: "unbalanced_time_range"},
		{in: TimeOffInput{StartDate: "20-10-2026", EndDate: "2026-10-20"}, code: "invalid_date"},
		{in: TimeOffInput{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr("13:00"), EndTime: ptr("12:00")}, code: "invalid_time_range"},
		{in: TimeOffInput{StartDate: "2026-10-20", EndDate: "2026-10-20", StartTime: ptr("1pm"), EndTime: ptr("12:00")}, code: "invalid_time"},
	}

	for _, c := range cases {
		_, err := NewTimeOff(1, c.in)
		if !httperr.IsBusiness(err, c.code) {
			t.Fatalf("expected %s, got %v", c.code, err)
		}
		if !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("expected validation kind, got %v", err)
		}
	}
}
