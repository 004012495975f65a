package builtin

import (
	"context"
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
)

// CalculatorToolName is the name the model uses to evaluate arithmetic.
const CalculatorToolName = "calculator"

// CalculatorArgs are the arguments of the calculator tool.
type CalculatorArgs struct {
	Expression string `json:"expression" jsonschema_description:"Arithmetic expression, e.g. '(3 + 4) * 2'"`
}

// NewCalculatorTool creates a tool that evaluates arithmetic expressions.
func NewCalculatorTool() *tool.FunctionTool {
	return tool.NewTypedTool(CalculatorToolName,
		"Evaluate an arithmetic expression and return the result",
		func(_ context.Context, in CalculatorArgs) (any, error) {
			return Calculate(in.Expression)
		},
	)
}

// Calculate evaluates expression without variables.
func Calculate(expression string) (string, error) {
	exp, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return "", &tool.ToolError{Tool: CalculatorToolName, Message: err.Error(), Code: tool.CodeValidation, Cause: err}
	}
	result, err := exp.Evaluate(nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Result: %v", result), nil
}
