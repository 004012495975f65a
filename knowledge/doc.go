// Package knowledge provides the course catalogue and content search used by
// the course tools.
//
// Store is a naive process-local index: a catalogue of courses with their
// lessons and an append-only list of content chunks searched by term overlap.
// It stands in for a vector database and is safe for concurrent use.
package knowledge
