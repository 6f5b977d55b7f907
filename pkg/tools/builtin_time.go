package tools

import "time"

// nowFunc is overridden in tests; production always uses time.Now.
var nowFunc = time.Now

// GetCurrentTime returns the get_current_time built-in: an ISO-8601 UTC
// timestamp string (spec §4.4).
func GetCurrentTime() Definition {
	return Definition{
		Name:        "get_current_time",
		Description: "Returns the current UTC time as an ISO-8601 timestamp.",
		ParametersSchema: NewSchema(map[string]Parameter{}),
		Invoke: func(_ map[string]any) (any, error) {
			return nowFunc().UTC().Format(time.RFC3339), nil
		},
	}
}
