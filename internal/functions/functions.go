package functions

import (
	"context"
	"strings"

	"github.com/m2tx/city_agent/internal/model"
)

// CityLookup answers a question about a single city.
type CityLookup interface {
	Lookup(ctx context.Context, city string) model.ToolResult
}

var cityParametersSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"city": map[string]any{
			"type":        "string",
			"description": "The name of the city, e.g. Toronto",
		},
	},
	"required": []string{"city"},
}

var toolResultSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status": map[string]any{
			"type":        "string",
			"enum":        []string{model.StatusSuccess, model.StatusError},
			"description": "Whether the lookup succeeded",
		},
		"report": map[string]any{
			"type":        "string",
			"description": "Human readable result or error message",
		},
	},
	"required": []string{"status", "report"},
}

// callCity extracts the city argument and runs the lookup. A missing city is
// reported to the model as an error result instead of failing the turn.
func callCity(ctx context.Context, lookup CityLookup, args map[string]any) (map[string]any, error) {
	city, _ := args["city"].(string)
	city = strings.TrimSpace(city)
	if city == "" {
		return model.Failure("A city name is required.").Map(), nil
	}

	return lookup.Lookup(ctx, city).Map(), nil
}
