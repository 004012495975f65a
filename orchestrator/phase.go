package orchestrator

// Phase is a state of the round state machine.
type Phase int

const (
	// PhaseInit is the phase before the first model call.
	PhaseInit Phase = iota
	// PhaseAwaitingModel waits for a tools-enabled model call.
	PhaseAwaitingModel
	// PhaseExecutingTools runs the tool invocations of one model turn.
	PhaseExecutingTools
	// PhaseFinalizing waits for the tools-disabled finalization call.
	PhaseFinalizing
	// PhaseDone means a final answer was produced.
	PhaseDone
	// PhaseFailed means the query ended with the fallback message.
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseAwaitingModel:
		return "AWAITING_MODEL"
	case PhaseExecutingTools:
		return "EXECUTING_TOOLS"
	case PhaseFinalizing:
		return "FINALIZING"
	case PhaseDone:
		return "DONE"
	case PhaseFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions can happen.
func (p Phase) Terminal() bool { return p == PhaseDone || p == PhaseFailed }
