package availability

import (
	"context"
	"fmt"
	"time"

	"crewcal/models"
)

func (s *DefaultAvailabilityService) GetWorkerDocument(ctx context.Context, subjectID string) (*models.WorkerAvailability, error) {
	raw, err := s.Repo.GetRaw(ctx, subjectID, models.SubjectWorker)
	if err != nil {
		return nil, err
	}
	return NormalizeWorker(raw), nil
}

func (s *DefaultAvailabilityService) SaveWorkerDocument(ctx context.Context, subjectID string, doc *models.WorkerAvailability) error {
	payload, err := SerializeWorker(doc)
	if err != nil {
		return err
	}
	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()
	return s.Repo.SaveRaw(ctx, subjectID, models.SubjectWorker, payload)
}

// DeleteWorkerDocument drops the subject's stored schedule. Resolution falls
// back to business hours or the hard default afterwards.
func (s *DefaultAvailabilityService) DeleteWorkerDocument(ctx context.Context, subjectID string) error {
	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()
	return s.Repo.Delete(ctx, subjectID, models.SubjectWorker)
}

func (s *DefaultAvailabilityService) GetAccountDocument(ctx context.Context, accountID string) (*models.AccountAvailability, error) {
	raw, err := s.Repo.GetRaw(ctx, accountID, models.SubjectAccount)
	if err != nil {
		return nil, err
	}
	return NormalizeAccount(raw), nil
}

func (s *DefaultAvailabilityService) SaveAccountDocument(ctx context.Context, accountID string, doc *models.AccountAvailability) error {
	payload, err := SerializeAccount(doc)
	if err != nil {
		return err
	}
	lock := s.subjectLock(accountID)
	lock.Lock()
	defer lock.Unlock()
	return s.Repo.SaveRaw(ctx, accountID, models.SubjectAccount, payload)
}

func (s *DefaultAvailabilityService) DeleteAccountDocument(ctx context.Context, accountID string) error {
	lock := s.subjectLock(accountID)
	lock.Lock()
	defer lock.Unlock()
	return s.Repo.Delete(ctx, accountID, models.SubjectAccount)
}

func (s *DefaultAvailabilityService) ResolveDay(ctx context.Context, subjectID, date, accountID string) (models.ResolvedDay, error) {
	if _, err := time.Parse(isoDateLayout, date); err != nil {
		return models.ResolvedDay{}, ErrInvalidDate
	}
	worker, fallback, err := s.loadPair(ctx, subjectID, accountID)
	if err != nil {
		return models.ResolvedDay{}, err
	}
	return ResolveDay(worker, date, fallback), nil
}

func (s *DefaultAvailabilityService) ResolveMonth(ctx context.Context, subjectID string, year, monthIndex int, accountID string) (*MonthView, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return nil, fmt.Errorf("month index %d out of range", monthIndex)
	}
	worker, fallback, err := s.loadPair(ctx, subjectID, accountID)
	if err != nil {
		return nil, err
	}

	view := &MonthView{Year: year, MonthIndex: monthIndex}
	for _, cell := range GenerateMonthGrid(year, monthIndex) {
		resolved := ResolveDay(worker, cell.ISODate, fallback)
		view.Cells = append(view.Cells, MonthCell{CalendarDay: cell, Resolved: resolved})
		if !cell.InTargetMonth {
			continue
		}
		if resolved.Available {
			view.AvailableDays++
		} else {
			view.UnavailableDays++
		}
	}
	return view, nil
}

func (s *DefaultAvailabilityService) ToggleDate(ctx context.Context, subjectID, date, accountID string) (*models.WorkerAvailability, error) {
	if _, err := time.Parse(isoDateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	worker, fallback, err := s.loadPair(ctx, subjectID, accountID)
	if err != nil {
		return nil, err
	}
	template := TemplateFor(worker, date, fallback)
	updated := ToggleDate(worker, date, template)
	if err := s.persistWorker(ctx, subjectID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DefaultAvailabilityService) SetWeekdayRule(ctx context.Context, subjectID, weekday string, rule models.WeekdayRule) (*models.WorkerAvailability, error) {
	if !ValidWeekday(weekday) {
		return nil, ErrUnknownWeekday
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	worker, err := s.GetWorkerDocument(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	updated := SetWeekdayRule(worker, weekday, rule)
	if err := s.persistWorker(ctx, subjectID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DefaultAvailabilityService) AddTimeSlot(ctx context.Context, subjectID string, target SlotTarget, slot models.TimeSlot) (*models.WorkerAvailability, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	worker, err := s.GetWorkerDocument(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	updated := AddTimeSlot(worker, target, slot)
	if err := s.persistWorker(ctx, subjectID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DefaultAvailabilityService) RemoveTimeSlot(ctx context.Context, subjectID string, target SlotTarget, slot models.TimeSlot) (*models.WorkerAvailability, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	worker, err := s.GetWorkerDocument(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	updated := RemoveTimeSlot(worker, target, slot)
	if err := s.persistWorker(ctx, subjectID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DefaultAvailabilityService) ApplyDateRange(ctx context.Context, subjectID, startDate, endDate string, state DayState) (*models.WorkerAvailability, error) {
	if len(DatesInRange(startDate, endDate)) == 0 {
		return nil, ErrInvalidRange
	}

	lock := s.subjectLock(subjectID)
	lock.Lock()
	defer lock.Unlock()

	worker, err := s.GetWorkerDocument(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	updated := ApplyDateRange(worker, startDate, endDate, state)
	if err := s.persistWorker(ctx, subjectID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// loadPair loads and normalizes the worker document plus, when accountID is
// set, the account's business-hours fallback.
func (s *DefaultAvailabilityService) loadPair(ctx context.Context, subjectID, accountID string) (*models.WorkerAvailability, *models.AccountAvailability, error) {
	worker, err := s.GetWorkerDocument(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}
	if accountID == "" {
		return worker, nil, nil
	}
	fallback, err := s.GetAccountDocument(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return worker, fallback, nil
}

func (s *DefaultAvailabilityService) persistWorker(ctx context.Context, subjectID string, doc *models.WorkerAvailability) error {
	payload, err := SerializeWorker(doc)
	if err != nil {
		return err
	}
	return s.Repo.SaveRaw(ctx, subjectID, models.SubjectWorker, payload)
}

func validateTarget(target SlotTarget) error {
	if (target.Weekday == "") == (target.Date == "") {
		return ErrBadSlotTarget
	}
	if target.Weekday != "" {
		if !ValidWeekday(target.Weekday) {
			return ErrUnknownWeekday
		}
		return nil
	}
	if _, err := time.Parse(isoDateLayout, target.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
