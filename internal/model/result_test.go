package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := Success("sunny")
		assert.True(t, r.OK())
		assert.Equal(t, map[string]any{"status": "success", "report": "sunny"}, r.Map())
	})

	t.Run("failure", func(t *testing.T) {
		r := Failure("boom")
		assert.False(t, r.OK())
		assert.Equal(t, StatusError, r.Map()["status"])
		assert.Equal(t, "boom", r.Map()["report"])
	})
}

func TestContent(t *testing.T) {
	prompt := Content{Role: RoleUser, Parts: []Part{{Text: "weather in Oslo?"}}}
	assert.True(t, prompt.IsPrompt())
	assert.Equal(t, "weather in Oslo?", prompt.Text())

	toolReply := Content{Role: RoleUser, Parts: []Part{{FunctionResponse: &FunctionResponse{Name: "get_weather"}}}}
	assert.False(t, toolReply.IsPrompt())
	assert.Empty(t, toolReply.Text())

	answer := Content{Role: RoleModel, Parts: []Part{{Text: "Cold."}, {FunctionCall: &FunctionCall{Name: "get_time"}}, {Text: "Windy."}}}
	assert.False(t, answer.IsPrompt())
	assert.Equal(t, "Cold.\nWindy.", answer.Text())
}
