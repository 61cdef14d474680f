package activity

import "log/slog"

// StatusLine logs status with record context AND updates the shared handler.
// One StatusLine is bound to one record key; effect and recompute callbacks
// use it to report progress with a clean API: statusLine.Set("message")
type StatusLine struct {
	logger  *slog.Logger
	handler *StatusHandler
	key     string
}

// NewStatusLine creates a status line bound to a record key.
// The handler parameter is optional - if nil, status updates are only logged.
func NewStatusLine(key string, logger *slog.Logger, handler *StatusHandler) *StatusLine {
	return &StatusLine{
		logger:  logger,
		handler: handler,
		key:     key,
	}
}

// Set logs the status with record context and updates the handler if present.
func (sl *StatusLine) Set(status string) {
	sl.logger.Info(status, "key", sl.key)
	if sl.handler != nil {
		sl.handler.Set(sl.key, status)
	}
}
