package codec

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/internal/options"
	"github.com/arloliu/linecomp/page"
)

// Config holds the construction parameters of a codec. Only the stateful
// bit-plane codecs read the modes and the line table.
type Config struct {
	name      string
	diff      format.DiffMode
	plane     format.PlaneMode
	code      format.CodeMode
	lineTable page.SizeClassTable
}

// Option configures a codec created by New.
type Option = options.Option[*Config]

// DefaultConfig returns the configuration used when no option is given:
// xor diff, planes over words 1..n-1, the paper cost model and line table 2.
func DefaultConfig() *Config {
	return &Config{
		diff:      format.DiffXOR,
		plane:     format.PlaneDBXSkipFirst,
		code:      format.CodePaper,
		lineTable: page.DefaultLineTables()[2],
	}
}

func newConfig(kind format.CodecKind, opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, errors.Wrapf(err, "configure %s", kind)
	}

	return cfg, nil
}

// DiffMode returns the configured diff mode.
func (c *Config) DiffMode() format.DiffMode { return c.diff }

// PlaneMode returns the configured plane mode.
func (c *Config) PlaneMode() format.PlaneMode { return c.plane }

// CodeMode returns the configured code mode.
func (c *Config) CodeMode() format.CodeMode { return c.code }

// LineTable returns the post-quantization table, nil when disabled.
func (c *Config) LineTable() page.SizeClassTable { return c.lineTable }

// WithName sets the display name.
func WithName(name string) Option {
	return options.NoError(func(c *Config) {
		c.name = name
	})
}

// WithDiffMode sets the word transform of the stateful bit-plane codecs.
func WithDiffMode(mode format.DiffMode) Option {
	return options.New(func(c *Config) error {
		if mode > format.DiffIntraDelta2 {
			return errors.Wrapf(errs.ErrUnsupportedMode, "diff mode %d", mode)
		}
		c.diff = mode

		return nil
	})
}

// WithPlaneMode sets which words are transposed into bit-planes.
func WithPlaneMode(mode format.PlaneMode) Option {
	return options.New(func(c *Config) error {
		if mode > format.PlaneDBXSkipFirst {
			return errors.Wrapf(errs.ErrUnsupportedMode, "plane mode %d", mode)
		}
		c.plane = mode

		return nil
	})
}

// WithCodeMode sets the cost model of the stateful bit-plane codecs.
func WithCodeMode(mode format.CodeMode) Option {
	return options.New(func(c *Config) error {
		if mode != format.CodePaper && mode != format.CodePaper2 {
			return errors.Wrapf(errs.ErrUnsupportedMode, "code mode %d", mode)
		}
		c.code = mode

		return nil
	})
}

// WithLineTable sets the table BPS rounds every line length up in. A nil
// table disables the rounding; lengths are still clamped to the line size.
func WithLineTable(table page.SizeClassTable) Option {
	return options.New(func(c *Config) error {
		if table != nil {
			if err := table.Validate(); err != nil {
				return err
			}
		}
		c.lineTable = table

		return nil
	})
}
