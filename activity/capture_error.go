package activity

// CaptureError wraps a callback and captures any error to the status line.
// If the function returns an error, it's prefixed with ❌ and set as the status.
//
// Usage in recompute callbacks:
//
//	func refresh(line *activity.StatusLine) error {
//	    return activity.CaptureError(line, func() error {
//	        line.Set("refreshing")
//	        // ... do actual work
//	        return nil
//	    })
//	}
func CaptureError(statusLine *StatusLine, f func() error) error {
	err := f()
	if err != nil && statusLine != nil {
		statusLine.Set("❌ " + err.Error())
	}
	return err
}
