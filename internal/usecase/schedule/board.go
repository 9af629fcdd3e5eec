package schedule

import (
	"context"

	domainappt "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

type GetScheduleBoard struct {
	repo domain.Repository
}

func NewGetScheduleBoard(repo domain.Repository) *GetScheduleBoard {
	return &GetScheduleBoard{repo: repo}
}

// Execute builds a read-only snapshot of one day across staff.
func (uc *GetScheduleBoard) Execute(
	ctx context.Context,
	in domain.BoardInput,
) (*domain.Board, error) {

	day, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	weekday := wallclock.Weekday(day)

	staff, err := uc.repo.ListActiveStaff(ctx, in.StaffIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(staff))
	for i, s := range staff {
		ids[i] = s.ID
	}

	hours, err := uc.repo.ListWorkingHoursForWeekday(ctx, ids, weekday)
	if err != nil {
		return nil, err
	}
	timeOff, err := uc.repo.ListTimeOffCovering(ctx, ids, in.Date)
	if err != nil {
		return nil, err
	}
	appointments, err := uc.repo.ListAppointmentsForDate(ctx, ids, in.Date, domainappt.BlockingStatuses())
	if err != nil {
		return nil, err
	}
	pending, err := uc.repo.ListPendingForDate(ctx, in.Date)
	if err != nil {
		return nil, err
	}

	hoursBy := make(map[uint]models.WorkingHours, len(hours))
	for _, wh := range hours {
		hoursBy[wh.StaffID] = wh
	}
	timeOffBy := make(map[uint][]models.TimeOff)
	for _, t := range timeOff {
		timeOffBy[t.StaffID] = append(timeOffBy[t.StaffID], t)
	}
	appointmentsBy := make(map[uint][]models.Appointment)
	for _, ap := range appointments {
		appointmentsBy[ap.StaffID] = append(appointmentsBy[ap.StaffID], ap)
	}

	board := &domain.Board{
		Date:    in.Date,
		Weekday: weekday,
		Staff:   make([]domain.StaffRow, 0, len(staff)),
		Pending: pending,
	}
	if board.Pending == nil {
		board.Pending = []models.Appointment{}
	}

	for _, s := range staff {
		row := domain.StaffRow{
			Staff:        s,
			TimeOff:      timeOffBy[s.ID],
			Appointments: appointmentsBy[s.ID],
		}
		if wh, ok := hoursBy[s.ID]; ok {
			row.WorkingHours = &domain.WorkingWindow{StartTime: wh.StartTime, EndTime: wh.EndTime}
		}
		if row.TimeOff == nil {
			row.TimeOff = []models.TimeOff{}
		}
		if row.Appointments == nil {
			row.Appointments = []models.Appointment{}
		}
		board.Staff = append(board.Staff, row)
	}

	return board, nil
}
