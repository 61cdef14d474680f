package scheduler

// Token identifies one unit of scheduled work. Tokens are created by
// Schedule and owned by the Scheduler; callers hold them to promote or
// cancel the pending work. All accessors are safe for concurrent use.
type Token struct {
	s   *Scheduler
	key string
	fn  func(*Token)

	// Guarded by s.mu.
	class    Class
	state    TokenState
	deferred bool
}

// Key returns the record key this token was scheduled for.
func (t *Token) Key() string {
	return t.key
}

// Class returns the token's current priority class.
func (t *Token) Class() Class {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.class
}

// State returns the token's current state.
func (t *Token) State() TokenState {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.state
}

// Deferred reports whether immediate work was ever dispatched ahead of
// this token while it waited. The registry uses this to demote the
// record's next scheduling request to the idle class.
func (t *Token) Deferred() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.deferred
}
