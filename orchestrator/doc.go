// Package orchestrator answers a single user query by driving a bounded,
// multi-round conversation between a model.Client and a tool.Executor.
//
// A query moves through a small state machine:
//
//	INIT -> AWAITING_MODEL -> {EXECUTING_TOOLS <-> AWAITING_MODEL} -> FINALIZING -> DONE
//
// FAILED is reachable from every phase. Each round is a tools-enabled model
// call followed by the concurrent execution of every tool the model asked for
// and a fold of the ordered result batch into an immutable conversation.State.
// Once MaxRounds batches have been folded, exactly one tools-disabled
// finalization call forces a textual answer.
//
// Failures are terminal for the query and never retried. Callers receive the
// fallback message together with a typed error: *model.TransportError,
// *tool.ToolError or an error matching ErrCanceled.
//
//	gen := orchestrator.New(client)
//	answer, err := gen.GenerateResponse(ctx, "What is covered in lesson 3?",
//		orchestrator.WithHistory(history),
//		orchestrator.WithRegistry(registry),
//	)
package orchestrator
