package appointment

import (
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

// FindConflict returns the first blocking appointment in existing whose
// interval overlaps [start, end), skipping excludeID.
func FindConflict(start, end wallclock.Time, existing []models.Appointment, excludeID uint) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !Status(ap.Status).IsBlocking() {
			continue
		}
		s, err1 := wallclock.Parse(ap.StartTime)
		e, err2 := wallclock.Parse(ap.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if wallclock.Overlaps(start, end, s, e) {
			return ap
		}
	}
	return nil
}

// WithinWorkingHours reports whether [start, end) fits inside the rule.
func WithinWorkingHours(rule *models.WorkingHours, start, end wallclock.Time) bool {
	if rule == nil {
		return false
	}
	ws, err1 := wallclock.Parse(rule.StartTime)
	we, err2 := wallclock.Parse(rule.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	return start >= ws && end <= we
}

// BlockedByTimeOff reports whether [start, end) on date hits any time off.
func BlockedByTimeOff(entries []models.TimeOff, date string, start, end wallclock.Time) bool {
	partial, fullDay := TimeOffIntervals(entries, date)
	if fullDay {
		return true
	}
	return overlapsAny(start, end, partial)
}
