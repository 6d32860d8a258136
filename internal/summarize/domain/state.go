package domain

// RequestState tracks the progress of one summarization request.
type RequestState string

const (
	StateIdle               RequestState = "Idle"
	StateCredentialResolved RequestState = "Credential_Resolved"
	StateMediaStaged        RequestState = "Media_Staged"
	StateSummarized         RequestState = "Summarized"
	StateDone               RequestState = "Done"
	StateFailed             RequestState = "Failed"
)

// validTransitions is the forward path of the request pipeline. Failed is
// reachable from every non-terminal state and handled separately.
var validTransitions = map[RequestState]RequestState{
	StateIdle:               StateCredentialResolved,
	StateCredentialResolved: StateMediaStaged,
	StateMediaStaged:        StateSummarized,
	StateSummarized:         StateDone,
}

// terminalStates are states from which no further transition may occur.
var terminalStates = map[RequestState]bool{
	StateDone:   true,
	StateFailed: true,
}

// IsTerminal returns true if the request is in a terminal state.
func IsTerminal(state RequestState) bool {
	return terminalStates[state]
}

// CanTransition reports whether moving from one state to another is allowed.
// Any non-terminal state may transition to Failed.
func CanTransition(from, to RequestState) bool {
	if terminalStates[from] {
		return false
	}
	if to == StateFailed {
		return true
	}
	return validTransitions[from] == to
}
