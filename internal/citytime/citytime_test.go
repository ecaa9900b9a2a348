package citytime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/m2tx/city_agent/internal/geocode"
	"github.com/m2tx/city_agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	loc     *geocode.Location
	err     error
	queries []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*geocode.Location, error) {
	f.queries = append(f.queries, query)
	return f.loc, f.err
}

type coord struct{ lat, lng float64 }

type fakeIndex struct {
	zone  string
	calls []coord
}

func (f *fakeIndex) TimezoneAt(lat, lng float64) string {
	f.calls = append(f.calls, coord{lat, lng})
	return f.zone
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLookup_Toronto(t *testing.T) {
	g := &fakeGeocoder{loc: &geocode.Location{Latitude: 43.6532, Longitude: -79.3832}}
	idx := &fakeIndex{zone: "America/Toronto"}
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	s := NewService(g, idx, WithClock(fixedClock(now)))
	result := s.Lookup(context.Background(), "Toronto")

	assert.Equal(t, model.ToolResult{
		Status: "success",
		Report: "The current time in Toronto (America/Toronto) is 2025-06-15 10:30:00 EDT-0400",
	}, result)
	assert.Equal(t, []string{"Toronto"}, g.queries)
	assert.Equal(t, []coord{{43.6532, -79.3832}}, idx.calls)
}

func TestLookup_NumericAbbreviation(t *testing.T) {
	g := &fakeGeocoder{loc: &geocode.Location{Latitude: -34.6037, Longitude: -58.3816}}
	idx := &fakeIndex{zone: "America/Argentina/Buenos_Aires"}
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	result := NewService(g, idx, WithClock(fixedClock(now))).Lookup(context.Background(), "Buenos Aires")

	assert.Equal(t, model.Success("The current time in Buenos Aires (America/Argentina/Buenos_Aires) is 2025-01-02 12:04:05 -03-0300"), result)
}

func TestLookup_GeocodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		city   string
		loc    *geocode.Location
		err    error
		kind   Kind
		report string
	}{
		{
			name:   "no match",
			city:   "UnknownCity",
			kind:   KindNotGeocoded,
			report: "City 'UnknownCity' not found or could not be geocoded.",
		},
		{
			name:   "timeout",
			city:   "TestCityTimeout",
			err:    fmt.Errorf("%w: deadline", geocode.ErrTimedOut),
			kind:   KindGeocodeTimeout,
			report: "Geocoding service timed out for TestCityTimeout.",
		},
		{
			name:   "unavailable",
			city:   "TestCityUnavailable",
			err:    fmt.Errorf("%w: Service unavailable", geocode.ErrUnavailable),
			kind:   KindGeocodeUnavailable,
			report: "Geocoding service unavailable/error for TestCityUnavailable: geocode: service unavailable: Service unavailable",
		},
		{
			name:   "service error",
			city:   "Nowhere",
			err:    fmt.Errorf("%w: 403 Forbidden", geocode.ErrService),
			kind:   KindGeocodeUnavailable,
			report: "Geocoding service unavailable/error for Nowhere: geocode: service error: 403 Forbidden",
		},
		{
			name:   "other",
			city:   "Nowhere",
			err:    errors.New("boom"),
			kind:   KindGeocodeUnexpected,
			report: "An unexpected error occurred during geocoding for Nowhere: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGeocoder{loc: tt.loc, err: tt.err}
			idx := &fakeIndex{zone: "UTC"}
			s := NewService(g, idx)

			_, err := s.Resolve(context.Background(), tt.city)
			var terr *Error
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.kind, terr.Kind)

			assert.Equal(t, model.Failure(tt.report), s.Lookup(context.Background(), tt.city))
			assert.Empty(t, idx.calls)
		})
	}
}

func TestLookup_NoTimezone(t *testing.T) {
	g := &fakeGeocoder{loc: &geocode.Location{Latitude: 0, Longitude: 0}}
	idx := &fakeIndex{}

	result := NewService(g, idx).Lookup(context.Background(), "NullIsland")

	assert.Equal(t, model.Failure("Could not determine timezone for NullIsland (lat: 0.0, lon: 0.0)."), result)
	assert.Equal(t, []coord{{0, 0}}, idx.calls)
}

func TestLookup_InvalidTimezone(t *testing.T) {
	g := &fakeGeocoder{loc: &geocode.Location{Latitude: 43.6532, Longitude: -79.3832}}
	idx := &fakeIndex{zone: "Bogus/Timezone"}

	result := NewService(g, idx).Lookup(context.Background(), "Toronto")

	assert.Equal(t, model.Failure("Invalid timezone identifier 'Bogus/Timezone' found for Toronto."), result)
}

func TestLookup_ClockPanicIsContained(t *testing.T) {
	g := &fakeGeocoder{loc: &geocode.Location{Latitude: 1, Longitude: 2}}
	idx := &fakeIndex{zone: "UTC"}
	s := NewService(g, idx, WithClock(func() time.Time { panic("clock stopped") }))

	result := s.Lookup(context.Background(), "Anywhere")

	assert.Equal(t, model.Failure("An unexpected error occurred while getting time for Anywhere: clock stopped"), result)
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "0.0", formatCoord(0))
	assert.Equal(t, "-79.3832", formatCoord(-79.3832))
	assert.Equal(t, "12.0", formatCoord(12))
}
