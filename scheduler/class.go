package scheduler

// Class is the priority class assigned to a pending token.
type Class int

const (
	// ClassImmediate is assigned to work for visible records. Dispatched
	// ahead of all background and idle work.
	ClassImmediate Class = iota
	// ClassBackground is assigned to work for hidden records that have
	// not been deferred yet.
	ClassBackground
	// ClassIdle is assigned to work for hidden records whose work has
	// already been deferred once.
	ClassIdle
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassImmediate:
		return "immediate"
	case ClassBackground:
		return "background"
	case ClassIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// TokenState represents the current state of a scheduled token.
type TokenState int

const (
	// TokenPending indicates the token is queued and waiting to run.
	TokenPending TokenState = iota
	// TokenRunning indicates the token's work is executing.
	TokenRunning
	// TokenDone indicates the token's work finished.
	TokenDone
	// TokenCancelled indicates the token was cancelled before it ran.
	TokenCancelled
)

// String returns the string representation of the token state.
func (s TokenState) String() string {
	switch s {
	case TokenPending:
		return "pending"
	case TokenRunning:
		return "running"
	case TokenDone:
		return "done"
	case TokenCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if this state represents a final state.
func (s TokenState) IsTerminal() bool {
	return s == TokenDone || s == TokenCancelled
}
