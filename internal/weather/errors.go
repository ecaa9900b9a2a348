package weather

import "fmt"

// Kind enumerates every way a weather lookup can fail.
type Kind int

const (
	KindUnexpected Kind = iota
	KindMissingKey
	KindUnauthorized
	KindNotFound
	KindHTTPStatus
	KindConnection
	KindTimeout
	KindRequest
	KindAPICode
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindMissingKey:
		return "missing_key"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindHTTPStatus:
		return "http_status"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindRequest:
		return "request"
	case KindAPICode:
		return "api_code"
	case KindParse:
		return "parse"
	default:
		return "unexpected"
	}
}

// Error is a classified weather lookup failure. Its message is the report
// handed back to the model.
type Error struct {
	Kind       Kind
	City       string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingKey:
		return "OpenWeather API key not found. Please set OPENWEATHER_API_KEY environment variable."
	case KindUnauthorized:
		return fmt.Sprintf("API Error for %s: Invalid API key or unauthorized.", e.City)
	case KindNotFound:
		return fmt.Sprintf("API Error for %s: City not found by API endpoint or resource not found.", e.City)
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP error for %s (Status: %d): %v", e.City, e.StatusCode, e.Err)
	case KindConnection:
		return fmt.Sprintf("Connection error for %s: %v", e.City, e.Err)
	case KindTimeout:
		return fmt.Sprintf("Request timed out for %s: %v", e.City, e.Err)
	case KindRequest:
		return fmt.Sprintf("Error fetching weather for %s: %v", e.City, e.Err)
	case KindAPICode:
		return fmt.Sprintf("API Error for %s: %s", e.City, e.Message)
	case KindParse:
		return fmt.Sprintf("Error parsing weather data for %s: %v", e.City, e.Err)
	default:
		return fmt.Sprintf("An unexpected error occurred while fetching weather for %s.", e.City)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
