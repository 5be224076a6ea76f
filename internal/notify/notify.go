package notify

import "github.com/rs/zerolog"

// Notifier is the user-facing notification surface of the storefront.
// Components report outcomes here and still return errors to their
// callers, so the UI can additionally react.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the log, for headless use.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info().Msg(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Warn().Msg(msg)
}
