package tools

import "fmt"

// Echo returns the echo built-in: returns its message argument unchanged
// (spec §4.4).
func Echo() Definition {
	return Definition{
		Name:        "echo",
		Description: "Returns the given message unchanged.",
		ParametersSchema: NewSchema(map[string]Parameter{
			"message": {Type: TypeString, Description: "Text to echo back."},
		}, "message"),
		Invoke: func(args map[string]any) (any, error) {
			message, ok := args["message"]
			if !ok {
				return nil, fmt.Errorf("echo: missing required argument %q", "message")
			}
			s, ok := message.(string)
			if !ok {
				return nil, fmt.Errorf("echo: argument %q must be a string", "message")
			}
			return s, nil
		},
	}
}
