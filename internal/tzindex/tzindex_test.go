package tzindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinder_TimezoneAt(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the full timezone dataset")
	}

	f, err := NewFinder()
	require.NoError(t, err)

	assert.Equal(t, "America/Toronto", f.TimezoneAt(43.6532, -79.3832))
	assert.Equal(t, "Europe/London", f.TimezoneAt(51.5085, -0.1257))
	assert.Equal(t, "Asia/Tokyo", f.TimezoneAt(35.6895, 139.6917))
}
