// Package tool implements the tool invocation subsystem: the Tool contract,
// a capability-keyed Registry that resolves tool names at call time, and a
// BatchExecutor that runs one round of invocations concurrently behind a join
// barrier while preserving the original invocation order.
package tool

import (
	"context"
	"fmt"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/internal/util"
)

// Tool defines a capability the model can invoke by name.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a proper JSON schema for parameters
//   - Honour ctx cancellation for long-running work
//   - Be safe for concurrent use; a round may invoke the same tool in parallel
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description is shown to the model to explain when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input.
	Parameters() map[string]any

	// Call executes the tool with the already decoded arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Executor executes a named tool with an argument mapping and returns its
// textual result. Failures are reported as *ToolError.
type Executor interface {
	Execute(ctx context.Context, name string, input map[string]any) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, name string, input map[string]any) (string, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	return f(ctx, name, input)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes used by ToolError.
const (
	CodeUnknownTool   = "UNKNOWN_TOOL"
	CodeValidation    = "VALIDATION_ERROR"
	CodeExecution     = "EXECUTION_ERROR"
	CodePanic         = "PANIC"
	CodeInvalidResult = "INVALID_RESULT"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
	Cause   error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Cause }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
