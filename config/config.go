// Package config holds the run configuration of the simulator and loads it
// from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/errs"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
	"github.com/arloliu/linecomp/page"
)

// NoLineTable disables the line rounding of the stateful bit-plane codecs
// when used as CodecLineFrag.
const NoLineTable = -1

// Policy selects a line table and a page table by index.
type Policy struct {
	LineFrag int `yaml:"line_frag"`
	PageFrag int `yaml:"page_frag"`
}

// Config is the complete run configuration.
//
// Modes and compression types are kept as strings so a YAML file can name
// them; they are resolved through the format parsers, which also accept the
// numeric values.
type Config struct {
	LineBits  int `yaml:"line_bits"`
	PageBytes int `yaml:"page_bytes"`

	Codec     string `yaml:"codec"`
	CodecName string `yaml:"codec_name"`
	DiffMode  string `yaml:"diff_mode"`
	PlaneMode string `yaml:"plane_mode"`
	CodeMode  string `yaml:"code_mode"`
	// CodecLineFrag is the line table the stateful bit-plane codecs round
	// every line up in, or NoLineTable.
	CodecLineFrag int `yaml:"codec_line_frag"`

	Policies   []Policy `yaml:"policies"`
	LineTables [][]int  `yaml:"line_tables"`
	PageTables [][]int  `yaml:"page_tables"`

	Baselines []string `yaml:"baselines"`
	Dedup     bool     `yaml:"dedup"`

	Workers          int    `yaml:"workers"`
	ProgressInterval uint64 `yaml:"progress_interval"`
}

// Default returns the configuration of the reference run: BPS64 with xor
// diff over 512-bit lines in 4 KiB pages, line table 2 and page table 0.
func Default() *Config {
	return &Config{
		LineBits:         line.DefaultBits,
		PageBytes:        page.DefaultPageBytes,
		Codec:            format.CodecBPS64.String(),
		DiffMode:         format.DiffXOR.String(),
		PlaneMode:        format.PlaneDBXSkipFirst.String(),
		CodeMode:         format.CodePaper.String(),
		CodecLineFrag:    2,
		Policies:         []Policy{{LineFrag: 2, PageFrag: 0}},
		Workers:          1,
		ProgressInterval: 1_000_000,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

// Validate checks every field and the combinations between them.
func (c *Config) Validate() error {
	geom, err := c.Geometry()
	if err != nil {
		return err
	}
	if c.PageBytes <= 0 || (c.PageBytes*8)%geom.Bits() != 0 {
		return errors.Newf("page size %d bytes is not a whole number of %d-bit lines", c.PageBytes, geom.Bits())
	}
	if c.Workers < 0 {
		return errors.Newf("workers must not be negative, got %d", c.Workers)
	}

	q, err := c.Quantizer()
	if err != nil {
		return err
	}
	for i, t := range c.LineSizeClasses() {
		if t.Max() < geom.Bits() {
			return errors.Wrapf(errs.ErrInvalidTable, "line table %d tops out at %d bits, below the %d-bit line", i, t.Max(), geom.Bits())
		}
	}
	for i, t := range c.PageSizeClasses() {
		if t.Max() < c.PageBytes*8 {
			return errors.Wrapf(errs.ErrInvalidTable, "page table %d tops out at %d bits, below the %d-bit page", i, t.Max(), c.PageBytes*8)
		}
	}
	for _, p := range c.PagePolicies() {
		if err := q.Validate(p); err != nil {
			return err
		}
	}

	if _, err := c.CompressionTypes(); err != nil {
		return err
	}

	kind, opts, err := c.CodecSetup()
	if err != nil {
		return err
	}
	if _, err := codec.New(kind, geom, opts...); err != nil {
		return errors.Wrap(err, "codec")
	}

	return nil
}

// Geometry returns the line geometry.
func (c *Config) Geometry() (line.Geometry, error) {
	return line.NewGeometry(c.LineBits)
}

// LineSizeClasses returns the configured line tables, or the defaults scaled
// from 512-bit lines to LineBits.
func (c *Config) LineSizeClasses() []page.SizeClassTable {
	if len(c.LineTables) == 0 {
		if c.LineBits <= 0 || c.LineBits == line.DefaultBits {
			return page.DefaultLineTables()
		}

		return page.ScaleTables(page.DefaultLineTables(), c.LineBits, line.DefaultBits)
	}

	return toTables(c.LineTables)
}

// PageSizeClasses returns the configured page tables, or the defaults scaled
// from 4 KiB pages to PageBytes.
func (c *Config) PageSizeClasses() []page.SizeClassTable {
	if len(c.PageTables) == 0 {
		if c.PageBytes <= 0 || c.PageBytes == page.DefaultPageBytes {
			return page.DefaultPageTables()
		}

		return page.ScaleTables(page.DefaultPageTables(), c.PageBytes, page.DefaultPageBytes)
	}

	return toTables(c.PageTables)
}

// Quantizer builds the page quantizer from the page size and tables.
func (c *Config) Quantizer() (*page.Quantizer, error) {
	return page.NewQuantizer(c.PageBytes, c.LineSizeClasses(), c.PageSizeClasses())
}

// PagePolicies returns the configured policies as page policies. An empty
// list means every combination of tables.
func (c *Config) PagePolicies() []page.Policy {
	policies := make([]page.Policy, 0, len(c.Policies))
	for _, p := range c.Policies {
		policies = append(policies, page.Policy{LineFrag: p.LineFrag, PageFrag: p.PageFrag})
	}

	return policies
}

// CompressionTypes resolves the baseline names.
func (c *Config) CompressionTypes() ([]format.CompressionType, error) {
	types := make([]format.CompressionType, 0, len(c.Baselines))
	for _, name := range c.Baselines {
		typ, err := format.ParseCompressionType(name)
		if err != nil {
			return nil, errors.Wrap(err, "baseline")
		}
		types = append(types, typ)
	}

	return types, nil
}

// CodecSetup resolves the codec kind and the options codec.New needs.
func (c *Config) CodecSetup() (format.CodecKind, []codec.Option, error) {
	kind, err := format.ParseCodecKind(c.Codec)
	if err != nil {
		return 0, nil, err
	}
	diff, err := format.ParseDiffMode(c.DiffMode)
	if err != nil {
		return 0, nil, err
	}
	plane, err := format.ParsePlaneMode(c.PlaneMode)
	if err != nil {
		return 0, nil, err
	}
	code, err := format.ParseCodeMode(c.CodeMode)
	if err != nil {
		return 0, nil, err
	}

	opts := []codec.Option{
		codec.WithDiffMode(diff),
		codec.WithPlaneMode(plane),
		codec.WithCodeMode(code),
	}
	if c.CodecName != "" {
		opts = append(opts, codec.WithName(c.CodecName))
	}

	switch {
	case c.CodecLineFrag == NoLineTable:
		opts = append(opts, codec.WithLineTable(nil))
	case c.CodecLineFrag >= 0 && c.CodecLineFrag < len(c.LineSizeClasses()):
		opts = append(opts, codec.WithLineTable(c.LineSizeClasses()[c.CodecLineFrag]))
	default:
		return 0, nil, errors.Newf("codec line table %d does not exist", c.CodecLineFrag)
	}

	return kind, opts, nil
}

func toTables(raw [][]int) []page.SizeClassTable {
	tables := make([]page.SizeClassTable, len(raw))
	for i, t := range raw {
		tables[i] = page.SizeClassTable(t)
	}

	return tables
}
