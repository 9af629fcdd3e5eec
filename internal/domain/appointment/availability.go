package appointment

import (
	"iter"
	"slices"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

const DefaultSlotMinutes = 30

type AvailabilityInput struct {
	ServiceID uint
	StaffID   uint
	Date      string
}

type TimeSlot struct {
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

type Interval struct {
	Start wallclock.Time
	End   wallclock.Time
}

// SlotQuery is everything the calculator needs, already loaded from the
// stores. Today and Now come from the injected clock.
type SlotQuery struct {
	Date  string
	Today string
	Now   wallclock.Time

	Rule    *models.WorkingHours
	TimeOff []models.TimeOff
	Busy    []models.Appointment

	DurationMinutes int
	StepMinutes     int
}

// Slots lazily yields bookable slots in ascending order. Re-running it on
// the same query yields the same sequence.
func Slots(q SlotQuery) iter.Seq[TimeSlot] {
	return func(yield func(TimeSlot) bool) {
		if q.DurationMinutes <= 0 || q.StepMinutes <= 0 {
			return
		}
		if wallclock.CompareDates(q.Date, q.Today) < 0 {
			return
		}
		if q.Rule == nil {
			return
		}

		dayStart, err := wallclock.Parse(q.Rule.StartTime)
		if err != nil {
			return
		}
		dayEnd, err := wallclock.Parse(q.Rule.EndTime)
		if err != nil {
			return
		}

		blocked, fullDay := TimeOffIntervals(q.TimeOff, q.Date)
		if fullDay {
			return
		}
		busy := AppointmentIntervals(q.Busy)

		isToday := q.Date == q.Today

		for cur := dayStart; cur.AddMinutes(q.DurationMinutes) <= dayEnd; cur = cur.AddMinutes(q.StepMinutes) {
			if isToday && cur < q.Now {
				continue
			}

			end := cur.AddMinutes(q.DurationMinutes)
			if overlapsAny(cur, end, busy) || overlapsAny(cur, end, blocked) {
				continue
			}

			if !yield(TimeSlot{Start: cur.String(), End: end.String()}) {
				return
			}
		}
	}
}

// ComputeSlots collects Slots into a non-nil slice.
func ComputeSlots(q SlotQuery) []TimeSlot {
	out := slices.Collect(Slots(q))
	if out == nil {
		out = []TimeSlot{}
	}
	return out
}

// TimeOffIntervals returns the partial blocks covering date and whether any
// entry covering it blocks the whole day.
func TimeOffIntervals(entries []models.TimeOff, date string) ([]Interval, bool) {
	var out []Interval
	for i := range entries {
		t := &entries[i]
		if !t.Covers(date) {
			continue
		}
		if t.IsFullDay() {
			return nil, true
		}
		start, err1 := wallclock.Parse(*t.StartTime)
		end, err2 := wallclock.Parse(*t.EndTime)
		if err1 != nil || err2 != nil {
			// an unreadable partial entry is treated as the whole day
			return nil, true
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out, false
}

func AppointmentIntervals(aps []models.Appointment) []Interval {
	out := make([]Interval, 0, len(aps))
	for _, ap := range aps {
		start, err1 := wallclock.Parse(ap.StartTime)
		end, err2 := wallclock.Parse(ap.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}

func overlapsAny(start, end wallclock.Time, intervals []Interval) bool {
	for _, iv := range intervals {
		if wallclock.Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}
