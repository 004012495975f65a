package core

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks messages authored by the end user (including tool results).
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by the model.
	RoleAssistant Role = "assistant"
)

// Block represents one segment of message content. Concrete block types
// implement the unexported isBlock marker enabling a closed set.
type Block interface{ isBlock() }

// TextBlock is a plain text content segment.
type TextBlock struct {
	Text string `json:"text"`
}

// isBlock implements the Block interface for TextBlock.
func (TextBlock) isBlock() {}

// ToolUseBlock is a structured request from the model naming a tool and its arguments.
type ToolUseBlock struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// isBlock implements the Block interface for ToolUseBlock.
func (ToolUseBlock) isBlock() {}

// ToolResultBlock carries the outcome of a ToolUseBlock back to the model.
// It is correlated with its invocation through ToolUseID, never by position.
type ToolResultBlock struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// isBlock implements the Block interface for ToolResultBlock.
func (ToolResultBlock) isBlock() {}

// Message holds role + ordered content blocks.
type Message struct {
	Role    Role    `json:"role"`
	Content []Block `json:"content"`
}

// NewTextMessage builds a message consisting of a single text block.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []Block{TextBlock{Text: text}}}
}

// Text concatenates the text blocks of the message separated by newlines.
func (m Message) Text() string {
	return JoinText(m.Content)
}

// JoinText concatenates all TextBlocks in order, separated by newlines.
// Non-text blocks are skipped.
func JoinText(blocks []Block) string {
	var out string
	for _, b := range blocks {
		tb, ok := b.(TextBlock)
		if !ok || tb.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += tb.Text
	}
	return out
}

// ToolUses returns the ToolUseBlocks contained in blocks preserving order.
func ToolUses(blocks []Block) []ToolUseBlock {
	var uses []ToolUseBlock
	for _, b := range blocks {
		if tu, ok := b.(ToolUseBlock); ok {
			uses = append(uses, tu)
		}
	}
	return uses
}

// ToolResultsToBlocks widens a result batch into generic content blocks.
func ToolResultsToBlocks(results []ToolResultBlock) []Block {
	blocks := make([]Block, len(results))
	for i, r := range results {
		blocks[i] = r
	}
	return blocks
}
