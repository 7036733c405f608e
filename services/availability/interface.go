package availability

import (
	"context"
	"sync"

	availabilityRepo "crewcal/database/repository/availability"
	"crewcal/models"
)

// MonthCell pairs one grid cell with its resolved availability.
type MonthCell struct {
	models.CalendarDay
	Resolved models.ResolvedDay `json:"resolved"`
}

// MonthView is the month endpoint's payload: the full 42-cell grid plus the
// in-month availability counts the dashboard header shows.
type MonthView struct {
	Year            int         `json:"year"`
	MonthIndex      int         `json:"monthIndex"`
	Cells           []MonthCell `json:"cells"`
	AvailableDays   int         `json:"availableDays"`
	UnavailableDays int         `json:"unavailableDays"`
}

// AvailabilityService is the engine's service facade: normalization,
// resolution, the mutation builders, and grid generation over the store
// adapter. accountID selects the business-hours fallback document and may be
// empty.
type AvailabilityService interface {
	GetWorkerDocument(ctx context.Context, subjectID string) (*models.WorkerAvailability, error)
	SaveWorkerDocument(ctx context.Context, subjectID string, doc *models.WorkerAvailability) error
	DeleteWorkerDocument(ctx context.Context, subjectID string) error
	GetAccountDocument(ctx context.Context, accountID string) (*models.AccountAvailability, error)
	SaveAccountDocument(ctx context.Context, accountID string, doc *models.AccountAvailability) error
	DeleteAccountDocument(ctx context.Context, accountID string) error

	ResolveDay(ctx context.Context, subjectID, date, accountID string) (models.ResolvedDay, error)
	ResolveMonth(ctx context.Context, subjectID string, year, monthIndex int, accountID string) (*MonthView, error)

	ToggleDate(ctx context.Context, subjectID, date, accountID string) (*models.WorkerAvailability, error)
	SetWeekdayRule(ctx context.Context, subjectID, weekday string, rule models.WeekdayRule) (*models.WorkerAvailability, error)
	AddTimeSlot(ctx context.Context, subjectID string, target SlotTarget, slot models.TimeSlot) (*models.WorkerAvailability, error)
	RemoveTimeSlot(ctx context.Context, subjectID string, target SlotTarget, slot models.TimeSlot) (*models.WorkerAvailability, error)
	ApplyDateRange(ctx context.Context, subjectID, startDate, endDate string, state DayState) (*models.WorkerAvailability, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo availabilityRepo.AvailabilityRepository

	// Writes for one subject are serialized so a slow earlier save can never
	// clobber a later one. Last-write-wins at document granularity.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewDefaultAvailabilityService constructs the service facade.
func NewDefaultAvailabilityService(repo availabilityRepo.AvailabilityRepository) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *DefaultAvailabilityService) subjectLock(subjectID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, exists := s.locks[subjectID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[subjectID] = lock
	}
	return lock
}
