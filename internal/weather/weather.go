package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/m2tx/city_agent/internal/logging"
	"github.com/m2tx/city_agent/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	RequestTimeout = 10 * time.Second

	notAvailable       = "not available"
	unknownAPIErrorMsg = "Unknown error from OpenWeather API."
)

// Report is the successfully extracted part of an OpenWeather response.
type Report struct {
	City        string
	Description string
	Temperature string
}

func (r Report) String() string {
	return fmt.Sprintf("The weather in %s is %s with a temperature of %s°C.", r.City, r.Description, r.Temperature)
}

// Service looks up the current weather of a city on OpenWeather.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

type Option func(*Service)

func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService creates a Service. An empty apiKey is accepted; lookups then
// fail with KindMissingKey without touching the network.
func NewService(apiKey string, opts ...Option) *Service {
	s := &Service{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: RequestTimeout},
		log:     logging.Module("weather"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup runs Fetch and folds any failure into an error ToolResult.
func (s *Service) Lookup(ctx context.Context, city string) (result model.ToolResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("city", city).Errorf("panic: %v", r)
			result = model.Failure((&Error{Kind: KindUnexpected, City: city}).Error())
		}
	}()

	report, err := s.Fetch(ctx, city)
	if err != nil {
		var werr *Error
		if !errors.As(err, &werr) {
			werr = &Error{Kind: KindUnexpected, City: city, Err: err}
		}
		s.log.WithFields(logrus.Fields{
			"city":    city,
			"kind":    werr.Kind.String(),
			"elapsed": time.Since(start).String(),
		}).Warn(werr.Error())
		return model.Failure(werr.Error())
	}

	s.log.WithFields(logrus.Fields{
		"city":    city,
		"elapsed": time.Since(start).String(),
	}).Debug("weather fetched")
	return model.Success(report.String())
}

// Fetch calls OpenWeather once. Every returned error is an *Error.
func (s *Service) Fetch(ctx context.Context, city string) (*Report, error) {
	if s.apiKey == "" {
		return nil, &Error{Kind: KindMissingKey, City: city}
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, &Error{Kind: KindUnexpected, City: city, Err: err}
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindRequest, City: city, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, transportError(city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, &Error{Kind: KindUnauthorized, City: city, StatusCode: resp.StatusCode}
		case http.StatusNotFound:
			return nil, &Error{Kind: KindNotFound, City: city, StatusCode: resp.StatusCode}
		}
		return nil, &Error{Kind: KindHTTPStatus, City: city, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(city, err)
	}

	return parse(city, body)
}

func parse(city string, body []byte) (*Report, error) {
	if !gjson.ValidBytes(body) {
		return nil, &Error{Kind: KindParse, City: city, Err: errors.New("response body is not valid JSON")}
	}

	data := gjson.ParseBytes(body)
	if !data.IsObject() {
		return nil, &Error{Kind: KindParse, City: city, Err: errors.New("response body is not a JSON object")}
	}

	if !codeOK(data.Get("cod")) {
		message := unknownAPIErrorMsg
		if m := data.Get("message"); m.Exists() && m.Type != gjson.Null {
			message = m.String()
		}
		return nil, &Error{Kind: KindAPICode, City: city, Message: message}
	}

	report := &Report{City: city, Description: notAvailable, Temperature: notAvailable}
	if d := data.Get("weather.0.description"); d.Exists() && d.Type != gjson.Null {
		report.Description = d.String()
	}
	if t := data.Get("main.temp"); t.Exists() && t.Type != gjson.Null {
		if t.Type == gjson.Number {
			report.Temperature = t.Raw
		} else {
			report.Temperature = t.String()
		}
	}

	return report, nil
}

// codeOK accepts the body status code as either 200 or "200".
func codeOK(cod gjson.Result) bool {
	switch cod.Type {
	case gjson.Number:
		return cod.Num == 200
	case gjson.String:
		return cod.Str == "200"
	default:
		return false
	}
}

func transportError(city string, err error) *Error {
	// url.Error carries the request URL, which includes the API key.
	detail := err
	var uerr *url.Error
	if errors.As(err, &uerr) {
		detail = uerr.Err
	}

	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &nerr) && nerr.Timeout():
		return &Error{Kind: KindTimeout, City: city, Err: detail}
	case isConnectionError(err):
		return &Error{Kind: KindConnection, City: city, Err: detail}
	default:
		return &Error{Kind: KindRequest, City: city, Err: detail}
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET)
}
