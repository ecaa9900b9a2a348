package tzindex

import (
	"fmt"

	"github.com/ringsaturn/tzf"
)

// Index maps coordinates to an IANA timezone identifier without network access.
// TimezoneAt returns "" when no zone applies.
type Index interface {
	TimezoneAt(lat, lng float64) string
}

// Finder is an Index backed by the polygons shipped with tzf.
type Finder struct {
	finder tzf.F
}

// NewFinder loads the default tzf dataset. Loading takes a noticeable amount
// of time and memory, so build one Finder per process and share it.
func NewFinder() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("tzindex: load default finder: %w", err)
	}
	return &Finder{finder: f}, nil
}

func (f *Finder) TimezoneAt(lat, lng float64) string {
	return f.finder.GetTimezoneName(lng, lat)
}
