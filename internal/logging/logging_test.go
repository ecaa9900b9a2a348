package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONWithModule(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "debug")
	t.Cleanup(func() { Init(&bytes.Buffer{}, "info") })

	Module("weather").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "weather", entry["module"])
	assert.Contains(t, entry["file"], "logging_test.go:")
}

func TestInit_UnknownLevel(t *testing.T) {
	Init(&bytes.Buffer{}, "loud")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
