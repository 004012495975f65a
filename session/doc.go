// Package session keeps the recent exchanges of each chat session and renders
// them as the history passed to the orchestrator.
//
// Only the last MaxHistory exchanges are retained per session. Sessions live
// in process memory and are lost on restart; add other backends in
// sub-packages behind the same method set.
package session
