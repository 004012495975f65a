// Package conversation implements the immutable state chain that carries one
// query's message history through the orchestrator's tool rounds.
//
// Every transition (WithAssistantResponse, WithToolResults) returns a new
// *State; the receiver is never modified. Content blocks are deep-copied on
// the way in and on the way out so a caller holding an earlier State can never
// observe a later mutation.
package conversation
