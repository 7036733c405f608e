package models

import "time"

// SubjectKind distinguishes the two availability document shapes we persist:
// an individual worker's schedule versus an account's business-hour defaults.
type SubjectKind string

const (
	SubjectWorker  SubjectKind = "worker"
	SubjectAccount SubjectKind = "account"
)

// TimeSlot is a contiguous start-end interval within one day, in 24-hour
// "HH:MM" form. The ID exists only so list editors have a stable key; it is
// never serialized or persisted.
type TimeSlot struct {
	ID    string `json:"-" bson:"-"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// WeekdayRule is the recurring weekly template for a single weekday. When
// Available is false resolution ignores TimeSlots even if the list is
// non-empty (legacy documents sometimes carry stale slots behind a false
// flag).
type WeekdayRule struct {
	Available bool       `json:"available" bson:"available"`
	TimeSlots []TimeSlot `json:"timeSlots" bson:"timeSlots"`
}

// DateOverride pins an exception to one exact calendar date ("YYYY-MM-DD",
// timezone-naive). It fully replaces the weekly template for that date.
type DateOverride struct {
	Date      string     `json:"date" bson:"date"`
	Available bool       `json:"available" bson:"available"`
	Hours     []TimeSlot `json:"hours,omitempty" bson:"hours,omitempty"`
}

// WorkerAvailability is the canonical document for a worker subject.
type WorkerAvailability struct {
	WorkingHours       map[string]WeekdayRule `json:"workingHours" bson:"workingHours"`
	CustomAvailability []DateOverride         `json:"customAvailability" bson:"customAvailability"`
}

// BusinessDay is one weekday entry of an account's default business hours.
type BusinessDay struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Start   string `json:"start" bson:"start"`
	End     string `json:"end" bson:"end"`
}

// AccountAvailability is the canonical document for an account subject.
type AccountAvailability struct {
	BusinessHours map[string]BusinessDay `json:"businessHours" bson:"businessHours"`
}

// AvailabilityDocument is the tagged union produced by the normalizer.
// Exactly one of Worker or Account is set, matching Kind.
type AvailabilityDocument struct {
	Kind    SubjectKind
	Worker  *WorkerAvailability
	Account *AccountAvailability
}

// ResolvedDay is the computed availability answer for one date. TimeRanges
// carries only the leading range for compact calendar summaries; AllRanges
// preserves the full list for editors. AllDay means "no partial-day
// granularity", not "available all day" -- it is always true when Available
// is false.
type ResolvedDay struct {
	Date       string     `json:"date"`
	Available  bool       `json:"available"`
	TimeRanges []TimeSlot `json:"timeRanges"`
	AllRanges  []TimeSlot `json:"allRanges,omitempty"`
	AllDay     bool       `json:"allDay"`
}

// CalendarDay is one cell of the 42-cell month grid.
type CalendarDay struct {
	Day           int          `json:"date"`
	DayOfWeek     time.Weekday `json:"dayOfWeek"`
	ISODate       string       `json:"isoDate"`
	InTargetMonth bool         `json:"inTargetMonth"`
}

// AvailabilityRecord is the persisted envelope for one subject's document.
// Payload holds the raw serialized availability JSON; it is stored as an
// opaque string so legacy shapes survive round trips untouched.
type AvailabilityRecord struct {
	SubjectID string      `bson:"subjectId"`
	Kind      SubjectKind `bson:"kind"`
	Payload   string      `bson:"payload"`
	UpdatedAt time.Time   `bson:"updatedAt"`
}
