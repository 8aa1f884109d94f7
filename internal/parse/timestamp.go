package parse

import (
	"encoding/json"
	"time"
)

// Plausible calendar window for Unix-second timestamps, roughly years
// 2000-2100. Numbers outside it are treated as milliseconds.
const (
	minUnixSeconds = 946684800
	maxUnixSeconds = 4102444800
)

var stringLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeValue decodes a timestamp that may be a JSON number (Unix
// seconds or milliseconds) or a string in a handful of layouts.
// Missing or unparseable values report ok=false; callers pick the
// fallback (conversation creation time for messages, the epoch for
// conversations).
func timeValue(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num > minUnixSeconds && num < maxUnixSeconds {
			sec := int64(num)
			nsec := int64((num - float64(sec)) * float64(time.Second))
			return time.Unix(sec, nsec).UTC(), true
		}
		return time.UnixMilli(int64(num)).UTC(), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range stringLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}

	return time.Time{}, false
}

// timeOrFallback is timeValue with an explicit default.
func timeOrFallback(raw json.RawMessage, fallback time.Time) time.Time {
	if t, ok := timeValue(raw); ok {
		return t
	}
	return fallback
}

// epoch is the normalization target for unparseable conversation
// timestamps.
func epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

// firstTime returns the first candidate that decodes to a timestamp,
// or the epoch when none does.
func firstTime(candidates ...json.RawMessage) time.Time {
	for _, raw := range candidates {
		if t, ok := timeValue(raw); ok {
			return t
		}
	}
	return epoch()
}
