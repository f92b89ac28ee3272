// Package config loads .alchemist.yaml.
//
// The file is decoded with gopkg.in/yaml.v3 (unknown keys rejected) over
// the defaults and the result is checked against an embedded CUE schema.
// Command-line flags override file values; that merge lives in the cli
// package.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/validate"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFileName is looked up in the working directory when no config
// path is given.
const DefaultFileName = ".alchemist.yaml"

// Config holds the user-level settings of the alchemist CLI.
type Config struct {
	// Format is the output format: "text" or "json".
	Format string `yaml:"format" json:"format"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// DuplicateIDs selects the duplicate-ID seen-set: "global" or "per_column".
	DuplicateIDs string `yaml:"duplicate_ids" json:"duplicate_ids"`

	// Journal is the SQLite journal path; ":memory:" keeps it in memory.
	Journal string `yaml:"journal" json:"journal"`

	// Workers is a default workers file used for skill coverage.
	Workers string `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Format:       "text",
		DuplicateIDs: string(validate.DuplicateIDGlobal),
		Journal:      store.MemoryPath,
	}
}

// DuplicateIDMode converts DuplicateIDs for validate.WithDuplicateIDMode.
func (c Config) DuplicateIDMode() validate.DuplicateIDMode {
	return validate.DuplicateIDMode(c.DuplicateIDs)
}

// Load reads the config at path. An empty path means DefaultFileName,
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the embedded #Config schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}
	return nil
}
