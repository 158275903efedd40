package extract

import "github.com/rs/zerolog"

type settings struct {
	blocking bool
	logger   zerolog.Logger
}

func defaultSettings() settings {
	return settings{
		blocking: true,
		logger:   zerolog.Nop(),
	}
}

// Option configures an Extractor.
type Option func(*settings)

// WithBlocking sets whether the remaining input is drained after the field
// completes (the default) or left untouched.
func WithBlocking(blocking bool) Option {
	return func(s *settings) {
		s.blocking = blocking
	}
}

// WithLogger sets the logger used to report progress at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
