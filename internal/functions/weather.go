package functions

import (
	"context"

	"github.com/m2tx/city_agent/internal/agent"
)

const WeatherFunctionName = "get_weather"

func CreateWeatherFunctionDeclaration(lookup CityLookup) *agent.FunctionDeclaration {
	return &agent.FunctionDeclaration{
		Name:             WeatherFunctionName,
		Description:      "Retrieves the current weather report for a specified city.",
		ParametersSchema: cityParametersSchema,
		ResponseSchema:   toolResultSchema,
		FunctionCall: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return callCity(ctx, lookup, args)
		},
	}
}
