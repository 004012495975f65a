package core

// CloneValue returns a deep copy of JSON-like values (maps, slices and
// scalars). Unknown types are returned as-is; they are treated as immutable.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// CloneMap deep copies a string-keyed map. A nil map stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneBlock deep copies a single content block.
func CloneBlock(b Block) Block {
	switch blk := b.(type) {
	case ToolUseBlock:
		return ToolUseBlock{ID: blk.ID, Name: blk.Name, Input: CloneMap(blk.Input)}
	case *ToolUseBlock:
		if blk == nil {
			return nil
		}
		return ToolUseBlock{ID: blk.ID, Name: blk.Name, Input: CloneMap(blk.Input)}
	case *TextBlock:
		if blk == nil {
			return nil
		}
		return *blk
	case *ToolResultBlock:
		if blk == nil {
			return nil
		}
		return *blk
	default:
		// TextBlock and ToolResultBlock are plain values.
		return b
	}
}

// CloneBlocks deep copies a block slice, preserving nil-ness.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = CloneBlock(b)
	}
	return out
}

// CloneMessage deep copies a message.
func CloneMessage(m Message) Message {
	return Message{Role: m.Role, Content: CloneBlocks(m.Content)}
}

// CloneMessages deep copies a message slice.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = CloneMessage(m)
	}
	return out
}
