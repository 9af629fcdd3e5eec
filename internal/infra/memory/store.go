// Package memory is an in-process implementation of the appointment and
// schedule repositories. It backs the use case and handler tests and can
// run the API without a database.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type Store struct {
	// txMu serializes transactions; mu guards the maps.
	txMu sync.Mutex
	mu   sync.RWMutex

	services     map[uint]models.Service
	staff        map[uint]models.Staff
	users        map[uint]models.User
	workingHours map[uint]map[int]models.WorkingHours
	timeOff      map[uint]models.TimeOff
	appointments map[uint]models.Appointment

	nextID uint
}

func NewStore() *Store {
	return &Store{
		services:     make(map[uint]models.Service),
		staff:        make(map[uint]models.Staff),
		users:        make(map[uint]models.User),
		workingHours: make(map[uint]map[int]models.WorkingHours),
		timeOff:      make(map[uint]models.TimeOff),
		appointments: make(map[uint]models.Appointment),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func cloneAppointment(ap models.Appointment) models.Appointment {
	if ap.Proposed != nil {
		p := *ap.Proposed
		ap.Proposed = &p
	}
	return ap
}

func cloneStaff(st models.Staff) models.Staff {
	st.ServiceIDs = slices.Clone(st.ServiceIDs)
	return st
}

func sortAppointments(aps []models.Appointment) {
	slices.SortFunc(aps, func(a, b models.Appointment) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.StartMinute, b.StartMinute),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (s *Store) AddService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.ID == 0 {
		svc.ID = s.id()
	}
	s.services[svc.ID] = svc
	return svc
}

func (s *Store) AddStaff(st models.Staff) models.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.ID == 0 {
		st.ID = s.id()
	}
	s.staff[st.ID] = cloneStaff(st)
	return st
}

func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.Role == "" {
		u.Role = models.RoleClient
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) SetWorkingHours(staffID uint, weekday int, start, end string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week, ok := s.workingHours[staffID]
	if !ok {
		week = make(map[int]models.WorkingHours)
		s.workingHours[staffID] = week
	}
	week[weekday] = models.WorkingHours{
		ID:        s.id(),
		StaffID:   staffID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
}

// PutAppointment stores ap as-is, bypassing every check.
func (s *Store) PutAppointment(ap models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ap.ID == 0 {
		ap.ID = s.id()
	}
	ap.SyncMinutes()
	s.appointments[ap.ID] = cloneAppointment(ap)
	return ap
}

// Appointments returns a snapshot of every stored appointment.
func (s *Store) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0, len(s.appointments))
	for _, ap := range s.appointments {
		out = append(out, cloneAppointment(ap))
	}
	sortAppointments(out)
	return out
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *Store) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &svc, nil
}

func (s *Store) GetStaff(_ context.Context, id uint) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.staff[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	st = cloneStaff(st)
	return &st, nil
}

func (s *Store) ListAdminIDs(_ context.Context) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uint
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			ids = append(ids, u.ID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

func (s *Store) GetWorkingHours(_ context.Context, staffID uint, weekday int) (*models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wh, ok := s.workingHours[staffID][weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (s *Store) ListTimeOffForDate(_ context.Context, staffID uint, date string) ([]models.TimeOff, error) {
	return s.timeOffWhere(func(t models.TimeOff) bool {
		return t.StaffID == staffID && t.Covers(date)
	}), nil
}

func (s *Store) ListBlockingAppointments(_ context.Context, staffID uint, date string, excludeID uint) ([]models.Appointment, error) {
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		return ap.StaffID == staffID &&
			ap.Date == date &&
			ap.ID != excludeID &&
			domain.Status(ap.Status).IsBlocking()
	}), nil
}

func (s *Store) timeOffWhere(keep func(models.TimeOff) bool) []models.TimeOff {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TimeOff{}
	for _, t := range s.timeOff {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b models.TimeOff) int {
		return cmp.Or(cmp.Compare(a.StartDate, b.StartDate), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *Store) appointmentsWhere(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if keep(ap) {
			out = append(out, s.withRelations(cloneAppointment(ap)))
		}
	}
	sortAppointments(out)
	return out
}

// withRelations fills the preloaded associations. Callers hold mu.
func (s *Store) withRelations(ap models.Appointment) models.Appointment {
	if u, ok := s.users[ap.ClientID]; ok {
		ap.Client = u
	}
	if st, ok := s.staff[ap.StaffID]; ok {
		ap.Staff = cloneStaff(st)
	}
	if svc, ok := s.services[ap.ServiceID]; ok {
		ap.Service = svc
	}
	return ap
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	ap = cloneAppointment(ap)
	return &ap, nil
}

// GetAppointmentForUpdate needs no row lock: transactions are serialized.
func (s *Store) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.GetAppointment(ctx, id)
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ap.ID = s.id()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	ap.SyncMinutes()
	s.appointments[ap.ID] = cloneAppointment(*ap)
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[ap.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	ap.UpdatedAt = time.Now()
	ap.SyncMinutes()
	s.appointments[ap.ID] = cloneAppointment(*ap)
	return nil
}

func (s *Store) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		switch {
		case f.ClientID != nil && ap.ClientID != *f.ClientID:
			return false
		case f.StaffID != nil && ap.StaffID != *f.StaffID:
			return false
		case f.Status != "" && ap.Status != f.Status:
			return false
		case f.DateFrom != "" && ap.Date < f.DateFrom:
			return false
		case f.DateTo != "" && ap.Date > f.DateTo:
			return false
		}
		return true
	}), nil
}

// --------------------------------------------------
// Atomicity
// --------------------------------------------------

// LockSlot is a no-op; Transaction already holds the store exclusively.
func (s *Store) LockSlot(context.Context, uint, string) error {
	return nil
}

// Transaction runs fn exclusively and restores the appointments if it fails.
func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := make(map[uint]models.Appointment, len(s.appointments))
	for id, ap := range s.appointments {
		snapshot[id] = cloneAppointment(ap)
	}
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.appointments = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// --------------------------------------------------
// Board
// --------------------------------------------------

func (s *Store) ListActiveStaff(_ context.Context, ids []uint) ([]models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Staff{}
	for _, st := range s.staff {
		if !st.Active {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, st.ID) {
			continue
		}
		out = append(out, cloneStaff(st))
	}
	slices.SortFunc(out, func(a, b models.Staff) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) ListWorkingHoursForWeekday(_ context.Context, staffIDs []uint, weekday int) ([]models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.WorkingHours{}
	for _, id := range staffIDs {
		if wh, ok := s.workingHours[id][weekday]; ok {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (s *Store) ListTimeOffCovering(_ context.Context, staffIDs []uint, date string) ([]models.TimeOff, error) {
	return s.timeOffWhere(func(t models.TimeOff) bool {
		return slices.Contains(staffIDs, t.StaffID) && t.Covers(date)
	}), nil
}

func (s *Store) ListAppointmentsForDate(_ context.Context, staffIDs []uint, date string, statuses []string) ([]models.Appointment, error) {
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		return slices.Contains(staffIDs, ap.StaffID) &&
			ap.Date == date &&
			slices.Contains(statuses, ap.Status)
	}), nil
}

func (s *Store) ListPendingForDate(_ context.Context, date string) ([]models.Appointment, error) {
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		return ap.Date == date && ap.Status == string(domain.StatusPendingAdminReview)
	}), nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (s *Store) StaffExists(_ context.Context, staffID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.staff[staffID]
	return ok, nil
}

func (s *Store) ListWorkingHours(_ context.Context, staffID uint) ([]models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.WorkingHours{}
	for _, wh := range s.workingHours[staffID] {
		out = append(out, wh)
	}
	slices.SortFunc(out, func(a, b models.WorkingHours) int {
		return cmp.Compare(a.Weekday, b.Weekday)
	})
	return out, nil
}

func (s *Store) ReplaceWorkingHours(_ context.Context, staffID uint, rows []models.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := make(map[int]models.WorkingHours, len(rows))
	for _, wh := range rows {
		wh.ID = s.id()
		wh.StaffID = staffID
		week[wh.Weekday] = wh
	}
	s.workingHours[staffID] = week
	return nil
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (s *Store) ListTimeOff(_ context.Context, staffID uint) ([]models.TimeOff, error) {
	return s.timeOffWhere(func(t models.TimeOff) bool {
		return t.StaffID == staffID
	}), nil
}

func (s *Store) CreateTimeOff(_ context.Context, t *models.TimeOff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.timeOff[t.ID] = *t
	return nil
}

func (s *Store) DeleteTimeOff(_ context.Context, staffID, timeOffID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timeOff[timeOffID]
	if !ok || t.StaffID != staffID {
		return false, nil
	}
	delete(s.timeOff, timeOffID)
	return true, nil
}

var (
	_ domain.Repository   = (*Store)(nil)
	_ schedule.Repository = (*Store)(nil)
)
