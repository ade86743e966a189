package linecomp

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/internal/options"
)

// Option overrides a simulator setting taken from the configuration.
type Option = options.Option[*Simulator]

// WithLogger sets the logger for progress and per-source summaries.
// A nil logger discards messages.
func WithLogger(l Logger) Option {
	return options.NoError(func(s *Simulator) {
		if l == nil {
			l = NoopLogger{}
		}
		s.logger = l
	})
}

// WithWorkers sets how many sources are processed concurrently. One worker
// processes the sources as a single stream.
func WithWorkers(n int) Option {
	return options.New(func(s *Simulator) error {
		if n < 1 {
			return errors.Newf("workers must be at least 1, got %d", n)
		}
		s.workers = n

		return nil
	})
}

// WithProgressInterval logs a progress message every n lines. Zero disables
// progress messages.
func WithProgressInterval(n uint64) Option {
	return options.NoError(func(s *Simulator) {
		s.progress = n
	})
}
