package appointment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

// Monday 2026-10-19 08:00. Tomorrow is weekday 1.
var testNow = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

const (
	today    = "2026-10-19"
	tomorrow = "2026-10-20"
	dayAfter = "2026-10-21"
)

type sent struct {
	userID uint
	ev     notification.Event
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recorder) Notify(userID uint, ev notification.Event) {
	r.mu.Lock()
	r.sent = append(r.sent, sent{userID: userID, ev: ev})
	r.mu.Unlock()
}

func (r *recorder) ofType(typ string) []sent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []sent
	for _, s := range r.sent {
		if s.ev.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	store *memory.Store
	clock *timezone.FixedClock
	notes *recorder
	deps  Deps

	client models.User
	other  models.User
	admin  models.User

	haircut models.Service
	color   models.Service

	ana   models.Staff
	bruno models.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store: store,
		clock: timezone.NewFixedClock(testNow),
		notes: &recorder{},
	}

	f.client = store.AddUser(models.User{Name: "Client", Email: "client@example.com"})
	f.other = store.AddUser(models.User{Name: "Other", Email: "other@example.com"})
	f.admin = store.AddUser(models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})

	f.haircut = store.AddService(models.Service{Name: "Haircut", DurationMinutes: 30, Active: true})
	f.color = store.AddService(models.Service{Name: "Color", DurationMinutes: 45, Active: true})

	f.ana = store.AddStaff(models.Staff{Name: "Ana", Active: true, ServiceIDs: []uint{f.haircut.ID, f.color.ID}})
	f.bruno = store.AddStaff(models.Staff{Name: "Bruno", Active: true, ServiceIDs: []uint{f.haircut.ID, f.color.ID}})

	for wd := 0; wd <= 4; wd++ {
		store.SetWorkingHours(f.ana.ID, wd, "09:00", "17:00")
		store.SetWorkingHours(f.bruno.ID, wd, "09:00", "17:00")
	}

	f.deps = Deps{
		Repo:        store,
		Locker:      lock.NewLocal(),
		Clock:       f.clock,
		Notifier:    f.notes,
		SlotMinutes: 30,
	}
	return f
}

func (f *fixture) create(t *testing.T, staffID uint, date, start string) *models.Appointment {
	t.Helper()

	ap, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		ClientID:  f.client.ID,
		ServiceID: f.haircut.ID,
		StaffID:   staffID,
		Date:      date,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("create %s %s: %v", date, start, err)
	}
	return ap
}

func (f *fixture) put(staffID uint, date, start, end string, status domain.Status) models.Appointment {
	return f.store.PutAppointment(models.Appointment{
		ClientID:  f.other.ID,
		StaffID:   staffID,
		ServiceID: f.haircut.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    string(status),
	})
}

func (f *fixture) status(t *testing.T, id uint) string {
	t.Helper()

	ap, err := f.store.GetAppointment(context.Background(), id)
	if err != nil {
		t.Fatalf("get %d: %v", id, err)
	}
	return ap.Status
}

func assertKind(t *testing.T, err error, kind httperr.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := httperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %q (%v)", kind, got, err)
	}
}

// ======================================================
// Create
// ======================================================

func TestCreate_PendingAndNotifiesAdmins(t *testing.T) {
	f := newFixture(t)

	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	if ap.Status != string(domain.StatusPendingAdminReview) {
		t.Fatalf("expected pending, got %s", ap.Status)
	}
	if ap.EndTime != "10:30" {
		t.Fatalf("expected end 10:30, got %s", ap.EndTime)
	}

	notes := f.notes.ofType(notification.TypeAppointmentRequested)
	if len(notes) != 1 || notes[0].userID != f.admin.ID || notes[0].ev.AppointmentID != ap.ID {
		t.Fatalf("expected one request notification to the admin, got %+v", notes)
	}
}

func TestCreate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		start string
		kind  httperr.Kind
		code  string
	}{
		{name: "past date", date: "2026-10-18", start: "10:00", kind: httperr.KindPastDate},
		{name: "earlier today", date: today, start: "07:30", kind: httperr.KindPastDate},
		{name: "before opening", date: tomorrow, start: "08:30", kind: httperr.KindSlotUnavailable, code: "outside_working_hours"},
		{name: "runs past closing", date: tomorrow, start: "16:45", kind: httperr.KindSlotUnavailable, code: "outside_working_hours"},
		{name: "day off", date: "2026-10-24", start: "10:00", kind: httperr.KindSlotUnavailable, code: "outside_working_hours"},
		{name: "bad date", date: "2026-13-01", start: "10:00", kind: httperr.KindValidation},
		{name: "bad time", date: tomorrow, start: "10h", kind: httperr.KindValidation},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
				ClientID:  f.client.ID,
				ServiceID: f.haircut.ID,
				StaffID:   f.ana.ID,
				Date:      c.date,
				StartTime: c.start,
			})
			assertKind(t, err, c.kind)
			if c.code != "" && !httperr.IsBusiness(err, c.code) {
				t.Fatalf("expected code %s, got %v", c.code, err)
			}
			if n := len(f.store.Appointments()); n != 0 {
				t.Fatalf("expected nothing stored, got %d", n)
			}
		})
	}
}

func TestCreateAndPropose_StoreCanonicalSlot(t *testing.T) {
	f := newFixture(t)

	ap, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		ClientID:  f.client.ID,
		ServiceID: f.haircut.ID,
		StaffID:   f.ana.ID,
		Date:      " " + dayAfter,
		StartTime: " 10:00 ",
	})
	if err != nil {
		t.Fatalf("create with padded input: %v", err)
	}
	if ap.Date != dayAfter || ap.StartTime != "10:00" || ap.EndTime != "10:30" {
		t.Fatalf("expected %s 10:00-10:30, got %q %q-%q", dayAfter, ap.Date, ap.StartTime, ap.EndTime)
	}

	// the padded booking still collides with the canonical one
	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		ClientID:  f.other.ID,
		ServiceID: f.haircut.ID,
		StaffID:   f.ana.ID,
		Date:      dayAfter,
		StartTime: "10:15",
	})
	assertKind(t, err, httperr.KindSlotUnavailable)

	out, err := NewProposeAlternative(f.deps).Execute(context.Background(), ProposeInput{
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		StaffID:       f.bruno.ID,
		Date:          tomorrow + " ",
		StartTime:     " 14:00",
	})
	if err != nil {
		t.Fatalf("propose with padded input: %v", err)
	}
	p := out.Proposed
	if p == nil || p.Date != tomorrow || p.StartTime != "14:00" || p.EndTime != "14:30" {
		t.Fatalf("expected canonical proposal on %s at 14:00, got %+v", tomorrow, p)
	}
}

func TestCreate_TimeOffBlocks(t *testing.T) {
	f := newFixture(t)

	start, end := "12:00", "13:00"
	if err := f.store.CreateTimeOff(context.Background(), &models.TimeOff{
		StaffID:   f.ana.ID,
		StartDate: tomorrow,
		EndDate:   tomorrow,
		StartTime: &start,
		EndTime:   &end,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		ClientID:  f.client.ID,
		ServiceID: f.haircut.ID,
		StaffID:   f.ana.ID,
		Date:      tomorrow,
		StartTime: "12:30",
	})
	if !httperr.IsBusiness(err, "staff_time_off") {
		t.Fatalf("expected staff_time_off, got %v", err)
	}

	// touching the block is fine
	f.create(t, f.ana.ID, tomorrow, "13:00")
}

func TestCreate_CatalogChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := f.store.AddService(models.Service{Name: "Old", DurationMinutes: 30})
	massage := f.store.AddService(models.Service{Name: "Massage", DurationMinutes: 60, Active: true})
	away := f.store.AddStaff(models.Staff{Name: "Away", ServiceIDs: []uint{f.haircut.ID}})

	uc := NewCreateAppointment(f.deps)

	_, err := uc.Execute(ctx, CreateAppointmentInput{ClientID: f.client.ID, ServiceID: inactive.ID, StaffID: f.ana.ID, Date: tomorrow, StartTime: "10:00"})
	assertKind(t, err, httperr.KindNotFound)

	_, err = uc.Execute(ctx, CreateAppointmentInput{ClientID: f.client.ID, ServiceID: f.haircut.ID, StaffID: away.ID, Date: tomorrow, StartTime: "10:00"})
	assertKind(t, err, httperr.KindNotFound)

	_, err = uc.Execute(ctx, CreateAppointmentInput{ClientID: f.client.ID, ServiceID: massage.ID, StaffID: f.ana.ID, Date: tomorrow, StartTime: "10:00"})
	assertKind(t, err, httperr.KindValidation)
}

func TestCreate_ConflictSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"10:00", "10:15"},
		{"10:15", "10:00"},
		{"10:00", "10:00"},
	}

	for _, p := range pairs {
		t.Run(p[0]+"_then_"+p[1], func(t *testing.T) {
			f := newFixture(t)
			f.create(t, f.ana.ID, tomorrow, p[0])

			_, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
				ClientID:  f.other.ID,
				ServiceID: f.haircut.ID,
				StaffID:   f.ana.ID,
				Date:      tomorrow,
				StartTime: p[1],
			})
			assertKind(t, err, httperr.KindSlotUnavailable)

			// same slot with another staff member is free
			f.create(t, f.bruno.ID, tomorrow, p[1])
		})
	}
}

func TestCreate_TouchingSlotsDoNotConflict(t *testing.T) {
	f := newFixture(t)

	f.create(t, f.ana.ID, tomorrow, "10:00")
	f.create(t, f.ana.ID, tomorrow, "10:30")
	f.create(t, f.ana.ID, tomorrow, "09:30")
}

func TestCreate_NonBlockingStatusesFreeTheSlot(t *testing.T) {
	for _, st := range []domain.Status{
		domain.StatusDeclined,
		domain.StatusCancelled,
		domain.StatusClientRejectedProposal,
		domain.StatusCompleted,
		domain.StatusNoShow,
	} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture(t)
			f.put(f.ana.ID, tomorrow, "10:00", "10:30", st)
			f.create(t, f.ana.ID, tomorrow, "10:00")
		})
	}
}

func TestCreate_ConcurrentExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.deps)

	const n = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				ClientID:  f.client.ID,
				ServiceID: f.haircut.ID,
				StaffID:   f.ana.ID,
				Date:      tomorrow,
				StartTime: "11:00",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.IsKind(err, httperr.KindSlotUnavailable):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflict != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, ok, conflict)
	}
}

// ======================================================
// Admin transitions
// ======================================================

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	got, err := NewConfirmAppointment(f.deps).Execute(context.Background(), f.admin.ID, ap.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}

	notes := f.notes.ofType(notification.TypeAppointmentConfirmed)
	if len(notes) != 1 || notes[0].userID != f.client.ID {
		t.Fatalf("expected confirmation sent to the client, got %+v", notes)
	}
}

func TestConfirm_OverlapSinceCreated(t *testing.T) {
	f := newFixture(t)

	// overlapping rows that predate the guard
	first := f.put(f.ana.ID, tomorrow, "10:00", "10:30", domain.StatusConfirmed)
	second := f.put(f.ana.ID, tomorrow, "10:15", "10:45", domain.StatusPendingAdminReview)

	_, err := NewConfirmAppointment(f.deps).Execute(context.Background(), f.admin.ID, second.ID)
	assertKind(t, err, httperr.KindSlotUnavailable)

	if got := f.status(t, second.ID); got != string(domain.StatusPendingAdminReview) {
		t.Fatalf("expected status unchanged, got %s", got)
	}
	if got := f.status(t, first.ID); got != string(domain.StatusConfirmed) {
		t.Fatalf("expected first untouched, got %s", got)
	}
}

func TestConfirm_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := NewConfirmAppointment(f.deps).Execute(context.Background(), f.admin.ID, 999)
	assertKind(t, err, httperr.KindNotFound)
}

func TestDecline(t *testing.T) {
	f := newFixture(t)
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")
	uc := NewDeclineAppointment(f.deps)

	_, err := uc.Execute(context.Background(), f.admin.ID, ap.ID, "x")
	assertKind(t, err, httperr.KindValidation)
	if got := f.status(t, ap.ID); got != string(domain.StatusPendingAdminReview) {
		t.Fatalf("expected status unchanged, got %s", got)
	}

	got, err := uc.Execute(context.Background(), f.admin.ID, ap.ID, "  fully booked  ")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got.Status != string(domain.StatusDeclined) || got.DeclineReason != "fully booked" {
		t.Fatalf("unexpected declined appointment: %+v", got)
	}
	if len(f.notes.ofType(notification.TypeAppointmentDeclined)) != 1 {
		t.Fatal("expected a decline notification")
	}

	// slot is free again
	f.create(t, f.ana.ID, tomorrow, "10:00")
}

func TestPropose_CollisionLeavesStatus(t *testing.T) {
	f := newFixture(t)

	f.put(f.ana.ID, tomorrow, "10:00", "10:30", domain.StatusConfirmed)
	ap := f.create(t, f.ana.ID, tomorrow, "14:00")

	_, err := NewProposeAlternative(f.deps).Execute(context.Background(), ProposeInput{
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		StaffID:       f.ana.ID,
		Date:          tomorrow,
		StartTime:     "10:00",
	})
	assertKind(t, err, httperr.KindSlotUnavailable)

	got, _ := f.store.GetAppointment(context.Background(), ap.ID)
	if got.Status != string(domain.StatusPendingAdminReview) || got.Proposed != nil {
		t.Fatalf("expected appointment untouched, got %+v", got)
	}
}

func TestPropose_ShiftOverOwnSlot(t *testing.T) {
	f := newFixture(t)
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	got, err := NewProposeAlternative(f.deps).Execute(context.Background(), ProposeInput{
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		StaffID:       f.ana.ID,
		Date:          tomorrow,
		StartTime:     "10:15",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if got.Proposed == nil || got.Proposed.EndTime != "10:45" {
		t.Fatalf("unexpected proposal: %+v", got.Proposed)
	}
	if got.StartTime != "10:00" {
		t.Fatalf("own slot must not move before acceptance, got %s", got.StartTime)
	}
}

func TestProposalRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	_, err := NewProposeAlternative(f.deps).Execute(ctx, ProposeInput{
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		StaffID:       f.bruno.ID,
		Date:          dayAfter,
		StartTime:     "11:00",
		Message:       "Ana is away",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(f.notes.ofType(notification.TypeAppointmentProposed)) != 1 {
		t.Fatal("expected a proposal notification")
	}

	got, err := NewAcceptProposal(f.deps).Execute(ctx, f.client.ID, ap.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if got.Status != string(domain.StatusConfirmed) || got.Proposed != nil {
		t.Fatalf("expected confirmed with proposal cleared, got %+v", got)
	}
	if got.StaffID != f.bruno.ID || got.Date != dayAfter || got.StartTime != "11:00" || got.EndTime != "11:30" {
		t.Fatalf("expected fields copied from proposal, got %+v", got)
	}

	notes := f.notes.ofType(notification.TypeProposalAccepted)
	if len(notes) != 1 || notes[0].userID != f.admin.ID {
		t.Fatalf("expected admins notified, got %+v", notes)
	}

	// the old slot is free, the new one is taken
	f.create(t, f.ana.ID, tomorrow, "10:00")
	_, err = NewCreateAppointment(f.deps).Execute(ctx, CreateAppointmentInput{
		ClientID:  f.other.ID,
		ServiceID: f.haircut.ID,
		StaffID:   f.bruno.ID,
		Date:      dayAfter,
		StartTime: "11:00",
	})
	assertKind(t, err, httperr.KindSlotUnavailable)
}

func (f *fixture) proposed(t *testing.T) *models.Appointment {
	t.Helper()

	ap := f.create(t, f.ana.ID, tomorrow, "10:00")
	got, err := NewProposeAlternative(f.deps).Execute(context.Background(), ProposeInput{
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		StaffID:       f.ana.ID,
		Date:          tomorrow,
		StartTime:     "15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	return got
}

func TestAccept_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	ap := f.proposed(t)

	_, err := NewAcceptProposal(f.deps).Execute(context.Background(), f.other.ID, ap.ID)
	assertKind(t, err, httperr.KindForbidden)

	_, err = NewRejectProposal(f.deps).Execute(context.Background(), f.other.ID, ap.ID, "")
	assertKind(t, err, httperr.KindForbidden)
}

func TestAccept_TakenSinceProposed(t *testing.T) {
	f := newFixture(t)
	ap := f.proposed(t)

	f.put(f.ana.ID, tomorrow, "15:00", "15:30", domain.StatusConfirmed)

	_, err := NewAcceptProposal(f.deps).Execute(context.Background(), f.client.ID, ap.ID)
	assertKind(t, err, httperr.KindSlotUnavailable)

	if got := f.status(t, ap.ID); got != string(domain.StatusProposedToClient) {
		t.Fatalf("expected still proposed, got %s", got)
	}
}

func TestAccept_WithoutProposal(t *testing.T) {
	f := newFixture(t)
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	_, err := NewAcceptProposal(f.deps).Execute(context.Background(), f.client.ID, ap.ID)
	assertKind(t, err, httperr.KindInvalidState)
}

func TestRejectProposal(t *testing.T) {
	f := newFixture(t)
	ap := f.proposed(t)

	got, err := NewRejectProposal(f.deps).Execute(context.Background(), f.client.ID, ap.ID, "too late for me")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != string(domain.StatusClientRejectedProposal) {
		t.Fatalf("expected rejected, got %s", got.Status)
	}
	if got.Proposed == nil {
		t.Fatal("expected the proposal kept for history")
	}

	notes := f.notes.ofType(notification.TypeProposalRejected)
	if len(notes) != 1 || notes[0].userID != f.admin.ID {
		t.Fatalf("expected admins notified, got %+v", notes)
	}

	// no longer blocking
	f.create(t, f.ana.ID, tomorrow, "10:00")
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	_, err := NewCancelAppointment(f.deps).Execute(ctx, f.other.ID, ap.ID)
	assertKind(t, err, httperr.KindForbidden)

	got, err := NewCancelAppointment(f.deps).Execute(ctx, f.client.ID, ap.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if len(f.notes.ofType(notification.TypeAppointmentCancelled)) != 1 {
		t.Fatal("expected a cancel notification")
	}
}

func TestCancel_FinishedAppointment(t *testing.T) {
	f := newFixture(t)
	done := f.store.PutAppointment(models.Appointment{
		ClientID:  f.client.ID,
		StaffID:   f.ana.ID,
		ServiceID: f.haircut.ID,
		Date:      tomorrow,
		StartTime: "10:00",
		EndTime:   "10:30",
		Status:    string(domain.StatusCompleted),
	})

	_, err := NewCancelAppointment(f.deps).Execute(context.Background(), f.client.ID, done.ID)
	assertKind(t, err, httperr.KindInvalidState)
}

func TestSetTerminalStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewSetTerminalStatus(f.deps)
	ap := f.create(t, f.ana.ID, tomorrow, "10:00")

	_, err := uc.Execute(ctx, f.admin.ID, ap.ID, string(domain.StatusCompleted))
	assertKind(t, err, httperr.KindInvalidState)

	if _, err := NewConfirmAppointment(f.deps).Execute(ctx, f.admin.ID, ap.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	_, err = uc.Execute(ctx, f.admin.ID, ap.ID, string(domain.StatusCancelled))
	assertKind(t, err, httperr.KindValidation)

	got, err := uc.Execute(ctx, f.admin.ID, ap.ID, string(domain.StatusNoShow))
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got.Status != string(domain.StatusNoShow) {
		t.Fatalf("expected no show, got %s", got.Status)
	}

	notes := f.notes.ofType(notification.TypeAppointmentStatus)
	if len(notes) != 1 || notes[0].userID != f.client.ID {
		t.Fatalf("expected the client notified, got %+v", notes)
	}
}

// ======================================================
// Availability
// ======================================================

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	uc := NewGetAvailability(f.deps)
	in := domain.AvailabilityInput{ServiceID: f.haircut.ID, StaffID: f.ana.ID, Date: tomorrow}

	slots, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}

	f.create(t, f.ana.ID, tomorrow, "10:00")

	slots, err = uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start == "10:00" {
			t.Fatal("booked slot must not be offered")
		}
	}
}

func TestGetAvailability_Edges(t *testing.T) {
	f := newFixture(t)
	uc := NewGetAvailability(f.deps)
	ctx := context.Background()

	slots, err := uc.Execute(ctx, domain.AvailabilityInput{ServiceID: f.haircut.ID, StaffID: f.ana.ID, Date: "2026-10-01"})
	if err != nil || len(slots) != 0 {
		t.Fatalf("expected no slots in the past, got %v, %v", slots, err)
	}

	slots, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: f.haircut.ID, StaffID: f.ana.ID, Date: "2026-10-25"})
	if err != nil || len(slots) != 0 {
		t.Fatalf("expected no slots on a day off, got %v, %v", slots, err)
	}

	_, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: 999, StaffID: f.ana.ID, Date: tomorrow})
	assertKind(t, err, httperr.KindNotFound)

	_, err = uc.Execute(ctx, domain.AvailabilityInput{ServiceID: f.haircut.ID, StaffID: f.ana.ID, Date: "tomorrow"})
	assertKind(t, err, httperr.KindValidation)
}

// ======================================================
// Invariant
// ======================================================

func assertNoOverlap(t *testing.T, aps []models.Appointment) {
	t.Helper()

	type scope struct {
		staff uint
		date  string
	}
	byScope := make(map[scope][]models.Appointment)
	for _, ap := range aps {
		if domain.Status(ap.Status).IsBlocking() {
			k := scope{ap.StaffID, ap.Date}
			byScope[k] = append(byScope[k], ap)
		}
	}

	for k, list := range byScope {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if wallclock.Overlaps(
					wallclock.MustParse(a.StartTime), wallclock.MustParse(a.EndTime),
					wallclock.MustParse(b.StartTime), wallclock.MustParse(b.EndTime),
				) {
					t.Fatalf("overlap on %v: #%d %s-%s and #%d %s-%s",
						k, a.ID, a.StartTime, a.EndTime, b.ID, b.StartTime, b.EndTime)
				}
			}
		}
	}
}

func TestNoOverlapInvariant_RandomOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	staff := []uint{f.ana.ID, f.bruno.ID}
	services := []uint{f.haircut.ID, f.color.ID}
	dates := []string{tomorrow, dayAfter}
	clients := []uint{f.client.ID, f.other.ID}

	randomStart := func() string {
		m := 9*60 + 15*rng.Intn(32)
		return wallclock.Time(m).String()
	}
	pick := func() uint {
		all := f.store.Appointments()
		if len(all) == 0 {
			return 0
		}
		return all[rng.Intn(len(all))].ID
	}

	var err error
	for i := 0; i < 400; i++ {
		switch rng.Intn(6) {
		case 0, 1:
			_, err = NewCreateAppointment(f.deps).Execute(ctx, CreateAppointmentInput{
				ClientID:  clients[rng.Intn(len(clients))],
				ServiceID: services[rng.Intn(len(services))],
				StaffID:   staff[rng.Intn(len(staff))],
				Date:      dates[rng.Intn(len(dates))],
				StartTime: randomStart(),
			})
		case 2:
			_, err = NewConfirmAppointment(f.deps).Execute(ctx, f.admin.ID, pick())
		case 3:
			_, err = NewProposeAlternative(f.deps).Execute(ctx, ProposeInput{
				ActorID:       f.admin.ID,
				AppointmentID: pick(),
				StaffID:       staff[rng.Intn(len(staff))],
				Date:          dates[rng.Intn(len(dates))],
				StartTime:     randomStart(),
			})
		case 4:
			id := pick()
			if ap, gerr := f.store.GetAppointment(ctx, id); gerr == nil {
				_, err = NewAcceptProposal(f.deps).Execute(ctx, ap.ClientID, id)
			}
		case 5:
			id := pick()
			if ap, gerr := f.store.GetAppointment(ctx, id); gerr == nil {
				_, err = NewCancelAppointment(f.deps).Execute(ctx, ap.ClientID, id)
			}
		}

		if err != nil && httperr.KindOf(err) == "" {
			t.Fatalf("step %d: unexpected non-business error: %v", i, err)
		}
		err = nil

		assertNoOverlap(t, f.store.Appointments())
	}
}

func TestNoOverlapInvariant_ConcurrentMixedTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var seeded []uint
	for _, start := range []string{"09:00", "11:00", "13:00", "15:00"} {
		seeded = append(seeded, f.create(t, f.ana.ID, tomorrow, start).ID)
	}

	var wg sync.WaitGroup
	for i, id := range seeded {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = NewProposeAlternative(f.deps).Execute(ctx, ProposeInput{
				ActorID:       f.admin.ID,
				AppointmentID: id,
				StaffID:       f.bruno.ID,
				Date:          tomorrow,
				StartTime:     "10:00",
			})
			_, _ = NewAcceptProposal(f.deps).Execute(ctx, f.client.ID, id)
		}()
		go func() {
			defer wg.Done()
			_, _ = NewCreateAppointment(f.deps).Execute(ctx, CreateAppointmentInput{
				ClientID:  f.other.ID,
				ServiceID: f.color.ID,
				StaffID:   f.bruno.ID,
				Date:      tomorrow,
				StartTime: fmt.Sprintf("10:%02d", 15*(i%3)),
			})
		}()
	}
	wg.Wait()

	assertNoOverlap(t, f.store.Appointments())
}

func TestInScope_BusyLockIsSlotUnavailable(t *testing.T) {
	f := newFixture(t)
	locker := lock.NewLocal()
	f.deps.Locker = locker

	unlock, err := locker.Lock(context.Background(), lock.SlotKey(f.ana.ID, tomorrow))
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = NewCreateAppointment(f.deps).Execute(ctx, CreateAppointmentInput{
		ClientID:  f.client.ID,
		ServiceID: f.haircut.ID,
		StaffID:   f.ana.ID,
		Date:      tomorrow,
		StartTime: "10:00",
	})
	if !httperr.IsBusiness(err, "slot_busy") {
		t.Fatalf("expected slot_busy, got %v", err)
	}
	if errors.Is(err, lock.ErrNotAcquired) {
		t.Fatal("lock error must not leak")
	}
}
