// Package activity defines the core data model for retained activity
// instances: the Record, its Visible/Hidden mode, and the effect handles
// attached to it while it is live.
//
// A Record is one trackable unit of retained state, identified by a stable
// caller-assigned key (a route path, a tab id). The registry holds a Record
// per key; the payload inside it is opaque and owned jointly by the caller
// and the registry for the record's lifetime.
//
// # Effects
//
// Owners attach effects to a record at creation time. An effect is a setup
// function that runs when the record becomes visible and may return a
// cleanup that runs when the record is hidden again (in reverse
// registration order) or when the record is removed. Effects flagged
// mode-independent keep running while the record is hidden; their cleanups
// run only on removal or eviction:
//
//	rec := activity.Effect{
//	    Setup: func() activity.Cleanup {
//	        stop := subscribe(feed)
//	        return stop
//	    },
//	}
//
// # Status Reporting
//
// The package also provides a status line mechanism that lets effect and
// recompute callbacks communicate free-text progress. Status messages are
// both logged and collected for the ops server:
//
//	line := activity.NewStatusLine("checkout", logger, handler)
//	line.Set("refreshing cart totals")
package activity
