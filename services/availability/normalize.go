package availability

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"crewcal/models"
)

// Normalize parses a raw persisted payload into the canonical document for
// the given subject kind. Raw may be a JSON string, a decoded object, a
// typed document, or nil; every malformed shape degrades to the empty
// document of the right kind. Normalize never fails -- a broken persisted
// payload must not lock a subject out of their schedule.
func Normalize(raw interface{}, kind models.SubjectKind) models.AvailabilityDocument {
	if kind == models.SubjectAccount {
		return models.AvailabilityDocument{Kind: kind, Account: NormalizeAccount(raw)}
	}
	return models.AvailabilityDocument{Kind: models.SubjectWorker, Worker: NormalizeWorker(raw)}
}

// NormalizeWorker parses a raw worker payload into its canonical shape,
// coercing the legacy single-slot and free-text range shapes into timeSlots
// and assigning a stable editor ID to every recovered slot.
func NormalizeWorker(raw interface{}) *models.WorkerAvailability {
	doc := &models.WorkerAvailability{
		WorkingHours:       map[string]models.WeekdayRule{},
		CustomAvailability: []models.DateOverride{},
	}

	m, ok := rawToMap(raw)
	if !ok {
		return doc
	}

	if wh, ok := m["workingHours"].(map[string]interface{}); ok {
		for _, weekday := range weekdayNames {
			rawRule, present := wh[weekday]
			if !present {
				continue
			}
			rule, ok := normalizeRule(rawRule)
			if !ok {
				continue
			}
			doc.WorkingHours[weekday] = rule
		}
	}

	if ca, ok := m["customAvailability"].([]interface{}); ok {
		for _, rawOverride := range ca {
			override, ok := normalizeOverride(rawOverride)
			if !ok {
				continue
			}
			doc.CustomAvailability = append(doc.CustomAvailability, override)
		}
	}

	return doc
}

// NormalizeAccount parses a raw account payload into canonical business
// hours. Unknown weekday keys and undecodable entries are dropped.
func NormalizeAccount(raw interface{}) *models.AccountAvailability {
	doc := &models.AccountAvailability{BusinessHours: map[string]models.BusinessDay{}}

	m, ok := rawToMap(raw)
	if !ok {
		return doc
	}
	bh, ok := m["businessHours"].(map[string]interface{})
	if !ok {
		return doc
	}

	for _, weekday := range weekdayNames {
		entry, ok := bh[weekday].(map[string]interface{})
		if !ok {
			continue
		}
		day := models.BusinessDay{
			Enabled: asBool(entry["enabled"]),
			Start:   coerceTime(asString(entry["start"])),
			End:     coerceTime(asString(entry["end"])),
		}
		doc.BusinessHours[weekday] = day
	}
	return doc
}

// Serialize renders a canonical document back into the persisted JSON string
// form. Slot IDs are editor-only and never serialized (the TimeSlot json tags
// take care of that), so serialize-then-normalize round-trips the persisted
// shape exactly.
func Serialize(doc models.AvailabilityDocument) (string, error) {
	var payload interface{}
	switch doc.Kind {
	case models.SubjectAccount:
		if doc.Account == nil {
			payload = &models.AccountAvailability{BusinessHours: map[string]models.BusinessDay{}}
		} else {
			payload = doc.Account
		}
	case models.SubjectWorker:
		if doc.Worker == nil {
			payload = &models.WorkerAvailability{
				WorkingHours:       map[string]models.WeekdayRule{},
				CustomAvailability: []models.DateOverride{},
			}
		} else {
			payload = doc.Worker
		}
	default:
		return "", fmt.Errorf("serialize: unknown subject kind %q", doc.Kind)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serialize availability document: %w", err)
	}
	return string(b), nil
}

// SerializeWorker is a convenience wrapper around Serialize for the common
// worker path.
func SerializeWorker(doc *models.WorkerAvailability) (string, error) {
	return Serialize(models.AvailabilityDocument{Kind: models.SubjectWorker, Worker: doc})
}

// SerializeAccount serializes account-level business hours.
func SerializeAccount(doc *models.AccountAvailability) (string, error) {
	return Serialize(models.AvailabilityDocument{Kind: models.SubjectAccount, Account: doc})
}

// rawToMap funnels every accepted input shape into a generic JSON object.
// Strings and byte slices are parsed; typed documents and bson maps are
// re-marshaled through encoding/json so one decoding path handles them all.
func rawToMap(raw interface{}) (map[string]interface{}, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case map[string]interface{}:
		return v, true
	case string:
		if v == "" {
			return nil, false
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, false
		}
		return m, true
	case []byte:
		var m map[string]interface{}
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, false
		}
		return m, true
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, false
		}
		var m map[string]interface{}
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, false
		}
		return m, true
	}
}

// normalizeRule accepts the canonical rule object plus two legacy shapes: a
// rule with sibling start/end fields instead of a timeSlots list, and a bare
// "09:00 AM - 06:00 PM" string.
func normalizeRule(raw interface{}) (models.WeekdayRule, bool) {
	switch v := raw.(type) {
	case string:
		slot := ParseLegacyRange(v)
		slot.ID = uuid.New().String()
		return models.WeekdayRule{Available: true, TimeSlots: []models.TimeSlot{slot}}, true
	case map[string]interface{}:
		rule := models.WeekdayRule{Available: asBool(v["available"])}
		if slots, ok := v["timeSlots"].([]interface{}); ok {
			for _, rawSlot := range slots {
				slot, ok := normalizeSlot(rawSlot)
				if !ok {
					continue
				}
				rule.TimeSlots = append(rule.TimeSlots, slot)
			}
		} else if slot, ok := legacySiblingSlot(v); ok {
			rule.TimeSlots = []models.TimeSlot{slot}
		}
		return rule, true
	default:
		return models.WeekdayRule{}, false
	}
}

func normalizeOverride(raw interface{}) (models.DateOverride, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return models.DateOverride{}, false
	}
	date := asString(m["date"])
	if date == "" {
		return models.DateOverride{}, false
	}
	override := models.DateOverride{Date: date, Available: asBool(m["available"])}
	if hours, ok := m["hours"].([]interface{}); ok {
		for _, rawSlot := range hours {
			slot, ok := normalizeSlot(rawSlot)
			if !ok {
				continue
			}
			override.Hours = append(override.Hours, slot)
		}
	}
	return override, true
}

// normalizeSlot accepts a canonical {start,end} object or a legacy range
// string. Both sides are coerced to 24-hour form; a slot with neither a
// decodable start nor end is dropped.
func normalizeSlot(raw interface{}) (models.TimeSlot, bool) {
	switch v := raw.(type) {
	case string:
		slot := ParseLegacyRange(v)
		slot.ID = uuid.New().String()
		return slot, true
	case map[string]interface{}:
		slot := models.TimeSlot{
			Start: coerceTime(asString(v["start"])),
			End:   coerceTime(asString(v["end"])),
		}
		if slot.Start == "" && slot.End == "" {
			return models.TimeSlot{}, false
		}
		if slot.ID = asString(v["id"]); slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		return slot, true
	default:
		return models.TimeSlot{}, false
	}
}

// legacySiblingSlot recovers the oldest worker shape, where a weekday rule
// carried bare start/end fields.
func legacySiblingSlot(m map[string]interface{}) (models.TimeSlot, bool) {
	start := coerceTime(asString(m["start"]))
	end := coerceTime(asString(m["end"]))
	if start == "" || end == "" {
		return models.TimeSlot{}, false
	}
	return models.TimeSlot{ID: uuid.New().String(), Start: start, End: end}, true
}

// coerceTime normalizes any persisted time string to 24-hour "HH:MM". Display
// forms ("09:00 AM") are decoded; already-24-hour values are zero-padded;
// undecodable values collapse to empty.
func coerceTime(s string) string {
	if s == "" {
		return ""
	}
	if t, ok := To24Hour(s); ok {
		return t
	}
	return ""
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
