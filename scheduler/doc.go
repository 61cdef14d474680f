// Package scheduler decides when a record's recomputation runs relative to
// other pending work, without blocking the caller that requested it.
//
// Work is queued as tokens in one of three classes: Immediate (visible
// records), Background (hidden records), and Idle (hidden records whose
// work has already been deferred once by immediate traffic). A single
// worker goroutine dispatches immediate tokens ahead of all others;
// background and idle tokens run FIFO among themselves so no hidden record
// starves. A host-provided yield point runs before each low-priority slice,
// letting the embedding application gate idle work on its own notion of
// quiet time.
//
// A pending token can be promoted to Immediate when its record becomes
// visible, reusing the queued work instead of enqueueing a duplicate, or
// cancelled when its record is evicted. Work that has already started is
// never interrupted.
//
// Example usage:
//
//	sched := scheduler.New(scheduler.WithLogger(logger))
//	sched.Start(ctx)
//	tok := sched.Schedule("home", scheduler.ClassBackground, func(*scheduler.Token) {
//	    refresh(payload)
//	})
//	// later, when "home" becomes visible:
//	sched.Promote(tok)
package scheduler
