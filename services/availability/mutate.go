package availability

import (
	"github.com/google/uuid"

	"crewcal/models"
)

// The mutation builders are pure: every function deep-copies its input and
// returns a new document, never touching unrelated entries. Applying the same
// mutation to the same input always yields the same result, which keeps
// optimistic UI retries harmless.

// DayState is the desired state ApplyDateRange stamps onto each date.
type DayState struct {
	Available bool
	Hours     []models.TimeSlot
}

// SlotTarget addresses a slot list: either a weekday of the recurring
// template or one exact date's override. Exactly one field is set.
type SlotTarget struct {
	Weekday string
	Date    string
}

// ToggleDate flips a date's resolved availability. Turning a date off writes
// a bare {date, available:false} override. Turning it on synthesizes a
// sensible default range: the weekday template's first slot when present,
// else the hard-default working day.
func ToggleDate(doc *models.WorkerAvailability, date string, template models.WeekdayRule) *models.WorkerAvailability {
	out := cloneWorker(doc)

	for i, override := range out.CustomAvailability {
		if override.Date != date {
			continue
		}
		if override.Available && len(validSlots(override.Hours)) > 0 {
			out.CustomAvailability[i] = models.DateOverride{Date: date, Available: false}
		} else {
			out.CustomAvailability[i] = models.DateOverride{
				Date:      date,
				Available: true,
				Hours:     []models.TimeSlot{defaultSlotFrom(template)},
			}
		}
		return out
	}

	// No prior override: the template decides the current state.
	currentlyAvailable := template.Available && len(validSlots(template.TimeSlots)) > 0
	if currentlyAvailable {
		out.CustomAvailability = append(out.CustomAvailability, models.DateOverride{
			Date:      date,
			Available: false,
		})
	} else {
		out.CustomAvailability = append(out.CustomAvailability, models.DateOverride{
			Date:      date,
			Available: true,
			Hours:     []models.TimeSlot{defaultSlotFrom(template)},
		})
	}
	return out
}

// SetWeekdayRule replaces the entire weekly rule for one weekday.
func SetWeekdayRule(doc *models.WorkerAvailability, weekday string, rule models.WeekdayRule) *models.WorkerAvailability {
	out := cloneWorker(doc)
	for i := range rule.TimeSlots {
		if rule.TimeSlots[i].ID == "" {
			rule.TimeSlots[i].ID = uuid.New().String()
		}
	}
	out.WorkingHours[weekday] = rule
	return out
}

// AddTimeSlot appends one slot to the targeted weekday's or date's slot list
// and marks that day available. A date target with no existing override gets
// a fresh one.
func AddTimeSlot(doc *models.WorkerAvailability, target SlotTarget, slot models.TimeSlot) *models.WorkerAvailability {
	out := cloneWorker(doc)
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}

	if target.Weekday != "" {
		rule := out.WorkingHours[target.Weekday]
		rule.Available = true
		rule.TimeSlots = append(rule.TimeSlots, slot)
		out.WorkingHours[target.Weekday] = rule
		return out
	}

	for i, override := range out.CustomAvailability {
		if override.Date != target.Date {
			continue
		}
		override.Available = true
		override.Hours = append(override.Hours, slot)
		out.CustomAvailability[i] = override
		return out
	}
	out.CustomAvailability = append(out.CustomAvailability, models.DateOverride{
		Date:      target.Date,
		Available: true,
		Hours:     []models.TimeSlot{slot},
	})
	return out
}

// RemoveTimeSlot removes one slot, addressed by its editor ID (falling back
// to start/end equality for slots that never got one). Removing the last
// slot for a day also flips that day's available flag off.
func RemoveTimeSlot(doc *models.WorkerAvailability, target SlotTarget, slot models.TimeSlot) *models.WorkerAvailability {
	out := cloneWorker(doc)

	if target.Weekday != "" {
		rule, present := out.WorkingHours[target.Weekday]
		if !present {
			return out
		}
		rule.TimeSlots = removeSlot(rule.TimeSlots, slot)
		if len(rule.TimeSlots) == 0 {
			rule.Available = false
		}
		out.WorkingHours[target.Weekday] = rule
		return out
	}

	for i, override := range out.CustomAvailability {
		if override.Date != target.Date {
			continue
		}
		override.Hours = removeSlot(override.Hours, slot)
		if len(override.Hours) == 0 {
			override.Available = false
			override.Hours = nil
		}
		out.CustomAvailability[i] = override
		return out
	}
	return out
}

// ApplyDateRange stamps the same desired state onto every date in the
// inclusive range, one override per calendar day. Dates that already carry an
// override are skipped: first write wins, both against existing entries and
// within the batch itself.
func ApplyDateRange(doc *models.WorkerAvailability, startDate, endDate string, state DayState) *models.WorkerAvailability {
	out := cloneWorker(doc)

	existing := make(map[string]bool, len(out.CustomAvailability))
	for _, override := range out.CustomAvailability {
		existing[override.Date] = true
	}

	for _, date := range DatesInRange(startDate, endDate) {
		if existing[date] {
			continue
		}
		existing[date] = true

		override := models.DateOverride{Date: date, Available: state.Available}
		if state.Available {
			override.Hours = cloneSlots(state.Hours)
			if len(override.Hours) == 0 {
				override.Hours = []models.TimeSlot{{
					ID:    uuid.New().String(),
					Start: DefaultDayStart,
					End:   DefaultDayEnd,
				}}
			}
		}
		out.CustomAvailability = append(out.CustomAvailability, override)
	}
	return out
}

func defaultSlotFrom(template models.WeekdayRule) models.TimeSlot {
	if slots := validSlots(template.TimeSlots); len(slots) > 0 {
		slot := slots[0]
		slot.ID = uuid.New().String()
		return slot
	}
	return models.TimeSlot{ID: uuid.New().String(), Start: DefaultDayStart, End: DefaultDayEnd}
}

func removeSlot(slots []models.TimeSlot, target models.TimeSlot) []models.TimeSlot {
	var out []models.TimeSlot
	for _, s := range slots {
		if target.ID != "" {
			if s.ID == target.ID {
				continue
			}
		} else if s.Start == target.Start && s.End == target.End {
			continue
		}
		out = append(out, s)
	}
	return out
}

func cloneWorker(doc *models.WorkerAvailability) *models.WorkerAvailability {
	if doc == nil {
		return &models.WorkerAvailability{
			WorkingHours:       map[string]models.WeekdayRule{},
			CustomAvailability: []models.DateOverride{},
		}
	}
	out := &models.WorkerAvailability{
		WorkingHours:       make(map[string]models.WeekdayRule, len(doc.WorkingHours)),
		CustomAvailability: make([]models.DateOverride, 0, len(doc.CustomAvailability)),
	}
	for weekday, rule := range doc.WorkingHours {
		rule.TimeSlots = cloneSlots(rule.TimeSlots)
		out.WorkingHours[weekday] = rule
	}
	for _, override := range doc.CustomAvailability {
		override.Hours = cloneSlots(override.Hours)
		out.CustomAvailability = append(out.CustomAvailability, override)
	}
	return out
}

func cloneSlots(slots []models.TimeSlot) []models.TimeSlot {
	if slots == nil {
		return nil
	}
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	return out
}
