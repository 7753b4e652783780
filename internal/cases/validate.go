package cases

import (
	"fmt"
	"strconv"
	"time"
)

// dateLayouts are the only accepted date shapes: ISO YYYY-MM-DD and US
// M/D/YYYY with 1-2 digit month and day.
var dateLayouts = []string{"2006-01-02", "1/2/2006"}

// Prepare normalizes an untrusted submission (webhook query, JSON body, or
// CSV-derived map) into a Record. A validation failure is reported as a
// human-readable reason string, not an error: bad input is an expected
// outcome, and the caller branches on reason == "" rather than unwinding.
func Prepare(raw map[string]any) (*Record, string) {
	idValue, ok := raw["id"]
	if !ok {
		return nil, fmt.Sprintf("No id field found in submitted object %v", raw)
	}
	id, ok := toInt(idValue)
	if !ok || id <= 0 {
		return nil, fmt.Sprintf("id value %v is not a positive integer", idValue)
	}

	rec := &Record{ID: id}

	if v, ok := raw["pledgeAmount"]; ok && !isEmpty(v) {
		amount, ok := toInt(v)
		if !ok || amount < 0 {
			return nil, fmt.Sprintf("pledgeAmount value %v is not a non-negative integer", v)
		}
		rec.PledgeAmount = &amount
	}

	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"pledgeDate", &rec.PledgeDate},
		{"appointmentDate", &rec.AppointmentDate},
	} {
		v, ok := raw[field.name]
		if !ok || isEmpty(v) {
			continue
		}
		s, ok := v.(string)
		if !ok || !validDate(s) {
			return nil, fmt.Sprintf("%s value %v is not a date in YYYY-MM-DD or M/D/YYYY form", field.name, v)
		}
		*field.dst = s
	}

	// Plain string fields pass through only when string-typed and non-empty;
	// anything else is silently dropped.
	rec.Client = stringField(raw, "client")
	rec.Clinic = stringField(raw, "clinic")
	rec.InvoiceStatus = stringField(raw, "invoiceStatus")
	rec.Contact = stringField(raw, "contact")

	return rec, ""
}

// toInt accepts JSON numbers, native ints, and all-digit strings.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// validDate reports whether s parses under one of the accepted layouts with
// a 4-digit year in the 2000s.
func validDate(s string) bool {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() >= 2000 && t.Year() <= 2099 {
			return true
		}
	}
	return false
}

func stringField(raw map[string]any, name string) string {
	if s, ok := raw[name].(string); ok {
		return s
	}
	return ""
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
