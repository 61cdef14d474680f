package scheduler

import (
	"context"
	"log/slog"
	"sync"
)

// YieldFunc is a host-provided yield point. It is called before each
// background or idle slice and may block until the host considers the
// system quiet enough for low-priority work.
type YieldFunc func()

// Stats describes the scheduler's current queue depths.
type Stats struct {
	Immediate  int  `json:"immediate"`
	Background int  `json:"background"`
	Idle       int  `json:"idle"`
	Running    bool `json:"running"`
}

// Scheduler dispatches scheduled tokens on a single worker goroutine,
// immediate work first, then background and idle work FIFO.
type Scheduler struct {
	logger *slog.Logger
	yield  YieldFunc

	mu         sync.Mutex
	cond       *sync.Cond
	immediate  []*Token
	background []*Token
	idle       []*Token
	active     *Token
	stopped    bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets a custom logger for the scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger.With("component", "scheduler")
	}
}

// WithYield sets the host yield point invoked before background and idle
// slices. The default is no yield point (low-priority work runs as soon as
// no immediate work is outstanding).
func WithYield(yield YieldFunc) Option {
	return func(s *Scheduler) {
		s.yield = yield
	}
}

// New creates a Scheduler with optional configuration. Call Start to begin
// dispatching.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: slog.Default().With("component", "scheduler"),
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the worker goroutine. Returns immediately. The worker
// exits when ctx is cancelled; tokens still pending at that point are
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.stopped = true
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	go s.loop()
}

// Schedule queues fn to run for the given key at the given class and
// returns the pending token. The token is passed to fn when it runs.
func (s *Scheduler) Schedule(key string, class Class, fn func(*Token)) *Token {
	tok := &Token{
		s:     s,
		key:   key,
		fn:    fn,
		class: class,
		state: TokenPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		tok.state = TokenCancelled
		s.logger.Debug("schedule after stop, token cancelled", "key", key, "class", class.String())
		return tok
	}

	switch class {
	case ClassImmediate:
		s.immediate = append(s.immediate, tok)
	case ClassBackground:
		s.background = append(s.background, tok)
	case ClassIdle:
		s.idle = append(s.idle, tok)
	}
	s.logger.Debug("token scheduled", "key", key, "class", class.String())
	s.cond.Broadcast()
	return tok
}

// Promote raises a pending background or idle token to the immediate
// class, keeping its queued work instead of enqueueing a duplicate.
// Tokens that are already immediate, running, or finished are left alone.
func (s *Scheduler) Promote(tok *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.state != TokenPending || tok.class == ClassImmediate {
		return
	}

	s.background = removeToken(s.background, tok)
	s.idle = removeToken(s.idle, tok)
	tok.class = ClassImmediate
	s.immediate = append(s.immediate, tok)
	s.logger.Debug("token promoted", "key", tok.key)
	s.cond.Broadcast()
}

// Cancel aborts a pending token. Work that has already started is not
// interrupted; cancelling a running or finished token is a no-op.
func (s *Scheduler) Cancel(tok *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.state != TokenPending {
		return
	}

	s.immediate = removeToken(s.immediate, tok)
	s.background = removeToken(s.background, tok)
	s.idle = removeToken(s.idle, tok)
	tok.state = TokenCancelled
	s.logger.Debug("token cancelled", "key", tok.key)
	s.cond.Broadcast()
}

// Drain blocks until no tokens are pending or running, or the scheduler
// has stopped. Used by tests and orderly shutdown.
func (s *Scheduler) Drain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.stopped && (len(s.immediate)+len(s.background)+len(s.idle) > 0 || s.active != nil) {
		s.cond.Wait()
	}
}

// Stats returns the current queue depths.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Immediate:  len(s.immediate),
		Background: len(s.background),
		Idle:       len(s.idle),
		Running:    s.active != nil,
	}
}

// loop is the single worker that dispatches tokens until stopped.
func (s *Scheduler) loop() {
	for {
		s.mu.Lock()
		for !s.stopped && len(s.immediate) == 0 && len(s.background) == 0 && len(s.idle) == 0 {
			s.cond.Wait()
		}
		if s.stopped {
			s.cancelPendingLocked()
			s.mu.Unlock()
			return
		}

		tok, lowPriority := s.nextLocked()
		tok.state = TokenRunning
		s.active = tok
		s.mu.Unlock()

		// The yield point runs outside the lock so the host can block.
		if lowPriority && s.yield != nil {
			s.yield()
		}

		tok.fn(tok)

		s.mu.Lock()
		tok.state = TokenDone
		s.active = nil
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// nextLocked picks the next token to dispatch. Immediate work goes first;
// dispatching it marks every waiting background and idle token deferred.
// Background and idle tokens are FIFO within their class.
func (s *Scheduler) nextLocked() (tok *Token, lowPriority bool) {
	if len(s.immediate) > 0 {
		tok = s.immediate[0]
		s.immediate = s.immediate[1:]
		for _, waiting := range s.background {
			waiting.deferred = true
		}
		for _, waiting := range s.idle {
			waiting.deferred = true
		}
		return tok, false
	}
	if len(s.background) > 0 {
		tok = s.background[0]
		s.background = s.background[1:]
		return tok, true
	}
	tok = s.idle[0]
	s.idle = s.idle[1:]
	return tok, true
}

// cancelPendingLocked cancels everything still queued at shutdown.
func (s *Scheduler) cancelPendingLocked() {
	for _, queue := range [][]*Token{s.immediate, s.background, s.idle} {
		for _, tok := range queue {
			tok.state = TokenCancelled
		}
	}
	s.immediate, s.background, s.idle = nil, nil, nil
	s.cond.Broadcast()
}

// removeToken returns queue with tok removed, preserving order.
func removeToken(queue []*Token, tok *Token) []*Token {
	for i, t := range queue {
		if t == tok {
			return append(queue[:i], queue[i+1:]...)
		}
	}
	return queue
}
