package availability

import (
	"fmt"
	"strconv"
	"strings"

	"crewcal/models"
)

// Hard-default working day used whenever nothing better can be determined.
const (
	DefaultDayStart = "09:00"
	DefaultDayEnd   = "18:00"
)

// To24Hour converts a display time such as "9:00 AM" or "09:00 PM" to its
// 24-hour "HH:MM" form. Inputs already in 24-hour form pass through
// normalized (zero-padded). The boolean reports whether the input was
// decodable; callers decide how to degrade.
func To24Hour(display string) (string, bool) {
	s := strings.TrimSpace(display)
	if s == "" {
		return "", false
	}

	meridiem := ""
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return "", false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", false
	}
	if minute < 0 || minute > 59 {
		return "", false
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return "", false
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ToDisplay renders a 24-hour "HH:MM" time in 12-hour display form, e.g.
// "00:00" -> "12:00 AM", "13:30" -> "01:30 PM". Undecodable input is
// returned unchanged.
func ToDisplay(t string) string {
	hour, minute, ok := splitHHMM(t)
	if !ok {
		return t
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem)
}

// ParseLegacyRange decodes a legacy free-text range such as
// "09:00 AM - 06:00 PM" into a canonical slot, splitting on the first " - "
// and decoding each side independently. Malformed input yields the
// hard-default working day rather than an error, so a broken persisted
// string can never lock a schedule out.
func ParseLegacyRange(s string) models.TimeSlot {
	left, right, found := strings.Cut(s, " - ")
	if !found {
		return models.TimeSlot{Start: DefaultDayStart, End: DefaultDayEnd}
	}
	start, okStart := To24Hour(left)
	end, okEnd := To24Hour(right)
	if !okStart || !okEnd {
		return models.TimeSlot{Start: DefaultDayStart, End: DefaultDayEnd}
	}
	return models.TimeSlot{Start: start, End: end}
}

// RangeLabel renders a slot for compact calendar display,
// e.g. "09:00 AM - 06:00 PM".
func RangeLabel(slot models.TimeSlot) string {
	return fmt.Sprintf("%s - %s", ToDisplay(slot.Start), ToDisplay(slot.End))
}

// ValidSlot reports whether a slot has a decodable start and end. Overlap and
// end-before-start are deliberately not rejected; malformed content degrades,
// it does not fail.
func ValidSlot(slot models.TimeSlot) bool {
	_, _, okStart := splitHHMM(slot.Start)
	_, _, okEnd := splitHHMM(slot.End)
	return okStart && okEnd
}

func splitHHMM(t string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
