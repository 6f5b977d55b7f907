package tools

import "fmt"

// Calculate returns the calculate built-in: evaluates a restricted
// arithmetic expression containing only numeric literals, parentheses, and
// the operators + - * / // % ** and unary +/- (spec §4.4). Arbitrary-code
// evaluation is forbidden — the expression is tokenized and parsed into our
// own minimal AST (exprNode in calculate_parser.go), never handed to a general-purpose
// language parser or evaluator, so identifiers, calls, and attribute access
// have no AST node to land on: they fail at the lexer instead.
func Calculate() Definition {
	return Definition{
		Name:        "calculate",
		Description: "Evaluates a restricted arithmetic expression and returns a number.",
		ParametersSchema: NewSchema(map[string]Parameter{
			"expression": {Type: TypeString, Description: "Arithmetic expression, e.g. \"55 + 10\"."},
		}, "expression"),
		Invoke: func(args map[string]any) (any, error) {
			expr, ok := args["expression"]
			if !ok {
				return nil, fmt.Errorf("calculate: missing required argument %q", "expression")
			}
			s, ok := expr.(string)
			if !ok {
				return nil, fmt.Errorf("calculate: argument %q must be a string", "expression")
			}
			return EvaluateExpression(s)
		},
	}
}

// EvaluateExpression parses and evaluates s under the whitelist described
// above. It is exported so property tests can probe it directly (spec §8,
// property 5) without going through the tool-invocation plumbing.
func EvaluateExpression(s string) (float64, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return 0, fmt.Errorf("calculate: %w", err)
	}
	p := &exprParser{tokens: tokens}
	node, err := p.parseExpr()
	if err != nil {
		return 0, fmt.Errorf("calculate: %w", err)
	}
	if !p.atEnd() {
		return 0, fmt.Errorf("calculate: unexpected token %q", p.peek().text)
	}
	return evalNode(node)
}
