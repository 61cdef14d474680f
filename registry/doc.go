// Package registry provides the top-level facade over activity retention:
// create, look up, transition, iterate and evict activity records.
//
// A Registry composes the lifecycle controller (effect setup/teardown),
// the scheduler (priority-aware recomputation) and the retention policy
// (LRU eviction of hidden records under a budget). Host code calls
// SetMode on every navigation; the registry updates bookkeeping
// synchronously, runs the transition's effect callbacks, queues the
// record's recomputation at the right priority and evicts over-budget
// hidden records through the same teardown path as an explicit Remove.
//
// Example usage:
//
//	reg := registry.New(
//	    registry.WithLogger(logger),
//	    registry.WithRecompute(refresh),
//	    registry.WithErrorHandler(func(key string, err error) {
//	        logger.Warn("effect failed", "key", key, "error", err)
//	    }),
//	)
//	defer reg.Close()
//
//	if err := reg.ConfigureBudget(registry.MaxCount(8)); err != nil {
//	    return err
//	}
//	reg.SetMode("home", activity.ModeVisible, &registry.Spec{
//	    PayloadFactory: newHomeState,
//	    Effects:        homeEffects,
//	})
//
// All methods are safe for concurrent use. Effect setup and cleanup
// callbacks run with the registry's internal lock held and must not call
// back into the registry; recompute callbacks run on the scheduler's
// worker goroutine and may.
package registry
