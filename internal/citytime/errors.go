package citytime

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates every way a local time lookup can fail.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotGeocoded
	KindGeocodeTimeout
	KindGeocodeUnavailable
	KindGeocodeUnexpected
	KindNoTimezone
	KindInvalidTimezone
)

func (k Kind) String() string {
	switch k {
	case KindNotGeocoded:
		return "not_geocoded"
	case KindGeocodeTimeout:
		return "geocode_timeout"
	case KindGeocodeUnavailable:
		return "geocode_unavailable"
	case KindGeocodeUnexpected:
		return "geocode_unexpected"
	case KindNoTimezone:
		return "no_timezone"
	case KindInvalidTimezone:
		return "invalid_timezone"
	default:
		return "unexpected"
	}
}

// Error is a classified lookup failure. Its message is the report handed
// back to the model.
type Error struct {
	Kind      Kind
	City      string
	Latitude  float64
	Longitude float64
	Zone      string
	Err       error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotGeocoded:
		return fmt.Sprintf("City '%s' not found or could not be geocoded.", e.City)
	case KindGeocodeTimeout:
		return fmt.Sprintf("Geocoding service timed out for %s.", e.City)
	case KindGeocodeUnavailable:
		return fmt.Sprintf("Geocoding service unavailable/error for %s: %v", e.City, e.Err)
	case KindGeocodeUnexpected:
		return fmt.Sprintf("An unexpected error occurred during geocoding for %s: %v", e.City, e.Err)
	case KindNoTimezone:
		return fmt.Sprintf("Could not determine timezone for %s (lat: %s, lon: %s).", e.City, formatCoord(e.Latitude), formatCoord(e.Longitude))
	case KindInvalidTimezone:
		return fmt.Sprintf("Invalid timezone identifier '%s' found for %s.", e.Zone, e.City)
	default:
		return fmt.Sprintf("An unexpected error occurred while getting time for %s: %v", e.City, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// formatCoord prints the shortest exact form and keeps one decimal on whole
// numbers, so 0 reads as 0.0.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
