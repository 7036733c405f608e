package availability

import (
	"crewcal/models"
)

// ResolveDay computes the availability answer for one date by walking the
// precedence tiers, highest first:
//
//  1. a date override for the exact date wins outright, with no blending;
//  2. otherwise the worker's weekly template for that weekday;
//  3. otherwise the account's business-hour fallback, so a worker who never
//     customized their schedule inherits the business defaults;
//  4. otherwise the hard default: Mon-Fri 09:00-18:00, weekends off.
//
// Tier 4 is unconditional, so resolution can never fail. Slots missing a
// decodable start or end are skipped as if absent, falling through to the
// next tier. TimeRanges carries only the leading range for compact calendar
// summaries; AllRanges preserves the full list for editors.
func ResolveDay(worker *models.WorkerAvailability, date string, fallback *models.AccountAvailability) models.ResolvedDay {
	// Tier 1: date override.
	if worker != nil {
		for _, override := range worker.CustomAvailability {
			if override.Date != date {
				continue
			}
			hours := validSlots(override.Hours)
			if !override.Available || len(hours) == 0 {
				return unavailableDay(date)
			}
			return models.ResolvedDay{
				Date:       date,
				Available:  true,
				TimeRanges: hours[:1],
				AllRanges:  hours,
			}
		}
	}

	weekday, ok := WeekdayOf(date)
	if !ok {
		return unavailableDay(date)
	}

	// Tier 2: weekly template.
	if worker != nil {
		if rule, present := worker.WorkingHours[weekday]; present && rule.Available {
			if slots := validSlots(rule.TimeSlots); len(slots) > 0 {
				return models.ResolvedDay{
					Date:       date,
					Available:  true,
					TimeRanges: slots[:1],
					AllRanges:  slots,
				}
			}
		}
	}

	// Tier 3: business-hours fallback.
	if fallback != nil {
		if day, present := fallback.BusinessHours[weekday]; present && day.Enabled {
			slot := models.TimeSlot{Start: day.Start, End: day.End}
			if ValidSlot(slot) {
				return models.ResolvedDay{
					Date:       date,
					Available:  true,
					TimeRanges: []models.TimeSlot{slot},
					AllRanges:  []models.TimeSlot{slot},
				}
			}
		}
	}

	// Tier 4: hard default.
	if weekday == "saturday" || weekday == "sunday" {
		return unavailableDay(date)
	}
	slot := models.TimeSlot{Start: DefaultDayStart, End: DefaultDayEnd}
	return models.ResolvedDay{
		Date:       date,
		Available:  true,
		TimeRanges: []models.TimeSlot{slot},
		AllRanges:  []models.TimeSlot{slot},
	}
}

// ResolveRange resolves every date in the inclusive range, in order.
func ResolveRange(worker *models.WorkerAvailability, startDate, endDate string, fallback *models.AccountAvailability) []models.ResolvedDay {
	dates := DatesInRange(startDate, endDate)
	if len(dates) == 0 {
		return nil
	}
	days := make([]models.ResolvedDay, 0, len(dates))
	for _, date := range dates {
		days = append(days, ResolveDay(worker, date, fallback))
	}
	return days
}

// TemplateFor returns the weekday rule the toggle path synthesizes defaults
// from: the worker's own template when present, otherwise the business-hours
// fallback recast as a single-slot rule, otherwise the hard default.
func TemplateFor(worker *models.WorkerAvailability, date string, fallback *models.AccountAvailability) models.WeekdayRule {
	weekday, ok := WeekdayOf(date)
	if !ok {
		return models.WeekdayRule{}
	}
	if worker != nil {
		if rule, present := worker.WorkingHours[weekday]; present {
			return rule
		}
	}
	if fallback != nil {
		if day, present := fallback.BusinessHours[weekday]; present && day.Enabled {
			slot := models.TimeSlot{Start: day.Start, End: day.End}
			if ValidSlot(slot) {
				return models.WeekdayRule{Available: true, TimeSlots: []models.TimeSlot{slot}}
			}
		}
	}
	if weekday == "saturday" || weekday == "sunday" {
		return models.WeekdayRule{}
	}
	return models.WeekdayRule{
		Available: true,
		TimeSlots: []models.TimeSlot{{Start: DefaultDayStart, End: DefaultDayEnd}},
	}
}

func unavailableDay(date string) models.ResolvedDay {
	return models.ResolvedDay{Date: date, AllDay: true}
}

func validSlots(slots []models.TimeSlot) []models.TimeSlot {
	var valid []models.TimeSlot
	for _, slot := range slots {
		if ValidSlot(slot) {
			valid = append(valid, slot)
		}
	}
	return valid
}

// ValidWeekday reports whether the given key is one of the seven
// canonical lowercase weekday names.
func ValidWeekday(weekday string) bool {
	for _, name := range weekdayNames {
		if name == weekday {
			return true
		}
	}
	return false
}
