// Package testutil contains fluent builders used across tests to reduce
// boilerplate when scripting model responses and conversation transcripts.
// They are not intended for production usage.
package testutil
