package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Mine lists the client's own appointments.
func (uc *ListAppointments) Mine(ctx context.Context, clientID uint) ([]models.Appointment, error) {
	return uc.repo.ListAppointments(ctx, domain.ListFilter{ClientID: &clientID})
}

// Execute lists appointments for operators, ordered by date then start time.
func (uc *ListAppointments) Execute(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, httperr.ErrValidation("invalid_status", "Unknown appointment status.")
	}
	for _, d := range []string{f.DateFrom, f.DateTo} {
		if d != "" && !wallclock.IsDate(d) {
			return nil, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
		}
	}
	return uc.repo.ListAppointments(ctx, f)
}
