package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry is a capability-keyed set of tools resolved by name at call time.
// It preserves registration order for Definitions and is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds tools to the registry. Registering a name twice is an error.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return fmt.Errorf("tool registry: empty tool name")
		}
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool registry: %q already registered", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return nil
}

// MustRegister is like Register but panics on error. Intended for static wiring.
func (r *Registry) MustRegister(tools ...Tool) *Registry {
	if err := r.Register(tools...); err != nil {
		panic(err)
	}
	return r
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Definitions returns the tool schema list handed to the model, in registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	return defs
}

// Execute implements Executor. Unknown names fail with CodeUnknownTool.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	impl, ok := r.Get(name)
	if !ok {
		r.logger.Warn("tool.call.unknown", "tool", name)
		return "", &ToolError{Tool: name, Message: fmt.Sprintf("tool %s not found", name), Code: CodeUnknownTool}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if input == nil {
		input = map[string]any{}
	}

	start := time.Now()
	r.logger.Debug("tool.call.start", "tool", name)

	result, err := impl.Call(ctx, input)
	if err != nil {
		r.logger.Error("tool.call.error", "tool", name, "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return "", asToolError(ctx, name, err)
	}

	text, err := stringify(result)
	if err != nil {
		return "", &ToolError{Tool: name, Message: err.Error(), Code: CodeInvalidResult, Cause: err}
	}

	r.logger.Info("tool.call.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// asToolError normalises a failure into *ToolError. Cancellation of ctx is
// passed through unchanged so callers can tell it apart from tool failures.
func asToolError(ctx context.Context, name string, err error) error {
	if ctx.Err() != nil && model.IsContextError(err) {
		return err
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	return &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution, Cause: err}
}

// stringify renders a tool result as text; strings pass through, everything
// else is JSON encoded.
func stringify(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		return string(raw), nil
	}
}
