package poll

import (
	"strings"
	"time"
)

// Normalizer turns the export's mixed date encodings into Timestamps.
// Relative keywords resolve against an injected reference instant so
// runs are reproducible; nothing here reads the wall clock.
type Normalizer struct {
	ref time.Time
}

func NewNormalizer(reference time.Time) *Normalizer {
	return &Normalizer{ref: reference}
}

var weekdays = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// Absolute formats, day-first preferred. Month-first layouts are a
// fallback for values like 04/13/2024 that cannot be day-first.
var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

var monthFirstLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3 PM",
	"3:04PM",
	"3PM",
}

// Normalize accepts a raw date value: a string, an already-canonical
// time.Time, or a Timestamp from an earlier pass (idempotent). Anything
// unrecognized yields an invalid Timestamp, never an error.
func (n *Normalizer) Normalize(v any) Timestamp {
	switch t := v.(type) {
	case time.Time:
		return At(t)
	case Timestamp:
		return t
	case string:
		return n.parse(t)
	default:
		return Timestamp{}
	}
}

func (n *Normalizer) parse(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}

	upper := strings.ToUpper(s)

	// Bare relative keywords: TODAY, YESTERDAY, weekday names.
	if d, ok := n.relativeDate(upper); ok {
		return At(d)
	}

	// Compound forms: "Today at 15:04", "Yesterday at 3:05 PM".
	if kw, rest, ok := splitAt(upper); ok {
		if d, ok := n.relativeDate(kw); ok {
			if tod, ok := parseTimeOfDay(rest); ok {
				return At(d.Add(tod))
			}
			return Timestamp{}
		}
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, n.ref.Location()); err == nil {
			return At(t)
		}
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, n.ref.Location()); err == nil {
			return At(t)
		}
	}
	return Timestamp{}
}

// relativeDate maps an upper-cased keyword to a calendar date at
// midnight. Weekday names resolve to the most recent occurrence, the
// reference date itself included.
func (n *Normalizer) relativeDate(kw string) (time.Time, bool) {
	day := n.midnight()
	switch kw {
	case "TODAY":
		return day, true
	case "YESTERDAY":
		return day.AddDate(0, 0, -1), true
	}
	if w, ok := weekdays[kw]; ok {
		back := (int(day.Weekday()) - int(w) + 7) % 7
		return day.AddDate(0, 0, -back), true
	}
	return time.Time{}, false
}

func (n *Normalizer) midnight() time.Time {
	y, m, d := n.ref.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.ref.Location())
}

// splitAt splits "TODAY AT 15:04" into keyword and time part. The last
// " AT " wins so prompts containing "at" in the keyword never match.
func splitAt(upper string) (kw, rest string, ok bool) {
	i := strings.LastIndex(upper, " AT ")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(upper[:i]), strings.TrimSpace(upper[i+4:]), true
}

func parseTimeOfDay(s string) (time.Duration, bool) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}
