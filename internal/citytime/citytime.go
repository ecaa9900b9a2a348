package citytime

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/m2tx/city_agent/internal/geocode"
	"github.com/m2tx/city_agent/internal/logging"
	"github.com/m2tx/city_agent/internal/model"
	"github.com/m2tx/city_agent/internal/tzindex"
	"github.com/sirupsen/logrus"
)

// Layout renders as e.g. "2025-06-15 10:30:00 EDT-0400".
const Layout = "2006-01-02 15:04:05 MST-0700"

// Report is a resolved local time.
type Report struct {
	City string
	Zone string
	Time time.Time
}

func (r Report) String() string {
	return fmt.Sprintf("The current time in %s (%s) is %s", r.City, r.Zone, r.Time.Format(Layout))
}

// Service answers "what time is it in <city>" from a geocoder and an offline
// timezone index. Both are shared read-only across calls.
type Service struct {
	geocoder geocode.Geocoder
	index    tzindex.Index
	now      func() time.Time
	log      *logrus.Entry
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(geocoder geocode.Geocoder, index tzindex.Index, opts ...Option) *Service {
	s := &Service{
		geocoder: geocoder,
		index:    index,
		now:      time.Now,
		log:      logging.Module("citytime"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup runs Resolve and folds any failure into an error ToolResult.
func (s *Service) Lookup(ctx context.Context, city string) (result model.ToolResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("city", city).Errorf("panic: %v", r)
			result = model.Failure((&Error{Kind: KindUnexpected, City: city, Err: fmt.Errorf("%v", r)}).Error())
		}
	}()

	report, err := s.Resolve(ctx, city)
	if err != nil {
		var terr *Error
		if !errors.As(err, &terr) {
			terr = &Error{Kind: KindUnexpected, City: city, Err: err}
		}
		s.log.WithFields(logrus.Fields{
			"city":    city,
			"kind":    terr.Kind.String(),
			"elapsed": time.Since(start).String(),
		}).Warn(terr.Error())
		return model.Failure(terr.Error())
	}

	s.log.WithFields(logrus.Fields{
		"city":    city,
		"zone":    report.Zone,
		"elapsed": time.Since(start).String(),
	}).Debug("time resolved")
	return model.Success(report.String())
}

// Resolve geocodes the city, finds its timezone and reads the clock in it.
// Every returned error is an *Error.
func (s *Service) Resolve(ctx context.Context, city string) (*Report, error) {
	loc, err := s.geocoder.Geocode(ctx, city)
	switch {
	case errors.Is(err, geocode.ErrTimedOut):
		return nil, &Error{Kind: KindGeocodeTimeout, City: city, Err: err}
	case errors.Is(err, geocode.ErrUnavailable), errors.Is(err, geocode.ErrService):
		return nil, &Error{Kind: KindGeocodeUnavailable, City: city, Err: err}
	case err != nil:
		return nil, &Error{Kind: KindGeocodeUnexpected, City: city, Err: err}
	case loc == nil:
		return nil, &Error{Kind: KindNotGeocoded, City: city}
	}

	zone := s.index.TimezoneAt(loc.Latitude, loc.Longitude)
	if zone == "" {
		return nil, &Error{Kind: KindNoTimezone, City: city, Latitude: loc.Latitude, Longitude: loc.Longitude}
	}

	tz, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &Error{Kind: KindInvalidTimezone, City: city, Zone: zone, Err: err}
	}

	return &Report{City: city, Zone: zone, Time: s.now().In(tz)}, nil
}
