package functions

import (
	"context"

	"github.com/m2tx/city_agent/internal/agent"
)

const TimeFunctionName = "get_current_time"

func CreateTimeFunctionDeclaration(lookup CityLookup) *agent.FunctionDeclaration {
	return &agent.FunctionDeclaration{
		Name:             TimeFunctionName,
		Description:      "Retrieves the current local time for a specified city.",
		ParametersSchema: cityParametersSchema,
		ResponseSchema:   toolResultSchema,
		FunctionCall: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return callCity(ctx, lookup, args)
		},
	}
}
