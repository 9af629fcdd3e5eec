package schedule

import (
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

// DayRule is one weekday of a staff member's week, Monday=0 .. Sunday=6.
type DayRule struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BuildWeek validates a full replacement week and turns it into rows.
// Weekdays left out are days off.
func BuildWeek(staffID uint, days []DayRule) ([]models.WorkingHours, error) {
	seen := make(map[int]struct{}, len(days))
	out := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, httperr.ErrValidation("invalid_weekday", "weekday must be 0..6 (Mon=0..Sun=6)")
		}
		if _, dup := seen[d.Weekday]; dup {
			return nil, httperr.ErrValidation("duplicate_weekday", fmt.Sprintf("Duplicate weekday: %d", d.Weekday))
		}
		seen[d.Weekday] = struct{}{}

		start, err1 := wallclock.Parse(d.StartTime)
		end, err2 := wallclock.Parse(d.EndTime)
		if err1 != nil || err2 != nil {
			return nil, httperr.ErrValidation("invalid_time", "start_time/end_time must be HH:MM")
		}
		if start >= end {
			return nil, httperr.ErrValidation("invalid_time_range", "start_time must be before end_time")
		}

		out = append(out, models.WorkingHours{
			StaffID:   staffID,
			Weekday:   d.Weekday,
			StartTime: start.String(),
			EndTime:   end.String(),
		})
	}

	return out, nil
}
