// Package core provides the foundational conversation types shared by the
// model adapters, the tool layer and the orchestrator:
//
//   - Role and Message (an ordered list of content blocks)
//   - Block, a closed set of TextBlock, ToolUseBlock and ToolResultBlock
//   - deep copy helpers so states and recorded requests never alias
//
// Tool results are correlated with their invocation by ToolUseID, never by
// position.
package core
