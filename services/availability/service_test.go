package availability

import (
	"context"
	"errors"
	"testing"

	"crewcal/models"
)

func TestServiceToggleDatePersists(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	// 2024-03-04 is a Monday; with no document at all the hard default makes
	// it available, so the first toggle turns it off.
	doc, err := svc.ToggleDate(ctx, "w1", "2024-03-04", "")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(doc.CustomAvailability) != 1 || doc.CustomAvailability[0].Available {
		t.Fatalf("expected an unavailable override, got %+v", doc.CustomAvailability)
	}

	resolved, err := svc.ResolveDay(ctx, "w1", "2024-03-04", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Available || !resolved.AllDay {
		t.Fatalf("persisted toggle must resolve unavailable, got %+v", resolved)
	}
}

func TestServiceResolveMonth(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)

	view, err := svc.ResolveMonth(context.Background(), "w1", 2024, 0, "")
	if err != nil {
		t.Fatalf("resolve month: %v", err)
	}
	if len(view.Cells) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(view.Cells))
	}
	// January 2024 has 23 weekdays and 8 weekend days.
	if view.AvailableDays != 23 || view.UnavailableDays != 8 {
		t.Fatalf("expected 23/8 split, got %d/%d", view.AvailableDays, view.UnavailableDays)
	}

	if _, err := svc.ResolveMonth(context.Background(), "w1", 2024, 12, ""); err == nil {
		t.Fatalf("month index 12 must be rejected")
	}
}

func TestServiceBusinessHoursFallback(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	account := &models.AccountAvailability{
		BusinessHours: map[string]models.BusinessDay{
			"monday": {Enabled: true, Start: "08:00", End: "16:00"},
		},
	}
	if err := svc.SaveAccountDocument(ctx, "acct1", account); err != nil {
		t.Fatalf("save account: %v", err)
	}

	resolved, err := svc.ResolveDay(ctx, "w1", "2024-03-04", "acct1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.Available || resolved.TimeRanges[0].Start != "08:00" {
		t.Fatalf("expected inherited business hours, got %+v", resolved)
	}
}

func TestServiceDocumentRoundTrip(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	doc := emptyWorker()
	doc = SetWeekdayRule(doc, "friday", models.WeekdayRule{
		Available: true,
		TimeSlots: []models.TimeSlot{{Start: "07:00", End: "15:00"}},
	})
	if err := svc.SaveWorkerDocument(ctx, "w1", doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := svc.GetWorkerDocument(ctx, "w1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertWorkerEquivalent(t, doc, got)
}

func TestServiceDeleteDocuments(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	saturday := models.WeekdayRule{Available: true, TimeSlots: []models.TimeSlot{{Start: "10:00", End: "14:00"}}}
	if _, err := svc.SetWeekdayRule(ctx, "w1", "saturday", saturday); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	if err := svc.DeleteWorkerDocument(ctx, "w1"); err != nil {
		t.Fatalf("delete worker: %v", err)
	}

	// 2024-03-09 is a Saturday; with the document gone the hard default
	// applies again.
	resolved, err := svc.ResolveDay(ctx, "w1", "2024-03-09", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Available {
		t.Fatalf("deleted schedule must fall back to the default week, got %+v", resolved)
	}

	account := &models.AccountAvailability{BusinessHours: map[string]models.BusinessDay{
		"saturday": {Enabled: true, Start: "10:00", End: "14:00"},
	}}
	if err := svc.SaveAccountDocument(ctx, "a1", account); err != nil {
		t.Fatalf("save account: %v", err)
	}
	if err := svc.DeleteAccountDocument(ctx, "a1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	got, err := svc.GetAccountDocument(ctx, "a1")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if len(got.BusinessHours) != 0 {
		t.Fatalf("deleted account document must read back empty, got %+v", got.BusinessHours)
	}
}

func TestServiceSlotMutations(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	doc, err := svc.AddTimeSlot(ctx, "w1", SlotTarget{Weekday: "monday"}, models.TimeSlot{Start: "09:00", End: "12:00"})
	if err != nil {
		t.Fatalf("add slot: %v", err)
	}
	slotID := doc.WorkingHours["monday"].TimeSlots[0].ID

	doc, err = svc.RemoveTimeSlot(ctx, "w1", SlotTarget{Weekday: "monday"}, models.TimeSlot{ID: slotID})
	if err != nil {
		t.Fatalf("remove slot: %v", err)
	}
	if doc.WorkingHours["monday"].Available {
		t.Fatalf("removing the only slot must disable the weekday")
	}
}

func TestServiceValidation(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	if _, err := svc.ToggleDate(ctx, "w1", "03/04/2024", ""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.SetWeekdayRule(ctx, "w1", "funday", models.WeekdayRule{}); !errors.Is(err, ErrUnknownWeekday) {
		t.Fatalf("expected ErrUnknownWeekday, got %v", err)
	}
	if _, err := svc.AddTimeSlot(ctx, "w1", SlotTarget{}, models.TimeSlot{}); !errors.Is(err, ErrBadSlotTarget) {
		t.Fatalf("expected ErrBadSlotTarget, got %v", err)
	}
	if _, err := svc.AddTimeSlot(ctx, "w1", SlotTarget{Weekday: "monday", Date: "2024-03-04"}, models.TimeSlot{}); !errors.Is(err, ErrBadSlotTarget) {
		t.Fatalf("expected ErrBadSlotTarget for ambiguous target, got %v", err)
	}
	if _, err := svc.ApplyDateRange(ctx, "w1", "2024-06-03", "2024-06-01", DayState{}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestServiceApplyDateRange(t *testing.T) {
	repo := newMemRepo()
	svc := NewDefaultAvailabilityService(repo)
	ctx := context.Background()

	doc, err := svc.ApplyDateRange(ctx, "w1", "2024-06-01", "2024-06-03", DayState{Available: false})
	if err != nil {
		t.Fatalf("apply range: %v", err)
	}
	if len(doc.CustomAvailability) != 3 {
		t.Fatalf("expected 3 overrides, got %d", len(doc.CustomAvailability))
	}

	// The persisted copy matches what the service returned.
	got, err := svc.GetWorkerDocument(ctx, "w1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertWorkerEquivalent(t, doc, got)
}
