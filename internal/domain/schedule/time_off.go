package schedule

import (
	"strings"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

type TimeOffInput struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    string  `json:"reason"`
}

// NewTimeOff validates and normalizes an entry: a reversed date range is
// swapped, empty times mean "not given", and times come both or neither.
func NewTimeOff(staffID uint, in TimeOffInput) (*models.TimeOff, error) {
	startDate := strings.TrimSpace(in.StartDate)
	endDate := strings.TrimSpace(in.EndDate)
	if !wallclock.IsDate(startDate) || !wallclock.IsDate(endDate) {
		return nil, httperr.ErrValidation("invalid_date", "start_date and end_date must be YYYY-MM-DD")
	}
	if wallclock.CompareDates(endDate, startDate) < 0 {
		startDate, endDate = endDate, startDate
	}

	startTime := optional(in.StartTime)
	endTime := optional(in.EndTime)
	if (startTime == nil) != (endTime == nil) {
		return nil, httperr.ErrValidation("unbalanced_time_range", "Provide both start_time and end_time, or neither for a full day off")
	}

	if startTime != nil {
		s, err1 := wallclock.Parse(*startTime)
		e, err2 := wallclock.Parse(*endTime)
		if err1 != nil || err2 != nil {
			return nil, httperr.ErrValidation("invalid_time", "start_time/end_time must be HH:MM")
		}
		if e <= s {
			return nil, httperr.ErrValidation("invalid_time_range", "end_time must be after start_time")
		}
		ss, es := s.String(), e.String()
		startTime, endTime = &ss, &es
	}

	return &models.TimeOff{
		StaffID:   staffID,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    strings.TrimSpace(in.Reason),
	}, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
