// Package config loads the optional YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"phtnsrc/internal/logging"
	"phtnsrc/internal/mcnp"
	"phtnsrc/internal/mesh"
	"phtnsrc/internal/report"
	"phtnsrc/internal/sdef"
)

// Outputs names the artifact written by each mode.
type Outputs struct {
	SDEF   string `yaml:"sdef"`
	Gammas string `yaml:"gammas"`
	Mesh   string `yaml:"mesh"`
}

// Log configures diagnostics.
type Log struct {
	Level string `yaml:"level"`
}

// Config is a full run configuration. The zero value is not usable; start
// from Default.
type Config struct {
	Isotope     string   `yaml:"isotope"`
	CoolingStep Scalar   `yaml:"cooling_step"`
	Mesh        MeshSpec `yaml:"mesh"`
	WrapWidth   int      `yaml:"wrap_width"`
	ZeroPolicy  string   `yaml:"zero_policy"`
	Outputs     Outputs  `yaml:"outputs"`
	Log         Log      `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Isotope:     report.TotalKey,
		CoolingStep: "0",
		Mesh:        "0 1 1 0 1 1 0 1 1",
		WrapWidth:   mcnp.DefaultWrap,
		ZeroPolicy:  string(sdef.ZeroCompat),
		Outputs: Outputs{
			SDEF:   "phtn_sdef",
			Gammas: "gammas",
			Mesh:   "phtn_src.db",
		},
		Log: Log{Level: logging.DefaultLevel},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that can be checked without input data.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Isotope) == "" {
		errs = append(errs, errors.New("isotope must not be empty"))
	}
	if strings.TrimSpace(string(c.CoolingStep)) == "" {
		errs = append(errs, errors.New("cooling_step must not be empty"))
	}
	if _, err := c.Geometry(); err != nil {
		errs = append(errs, fmt.Errorf("mesh: %w", err))
	}
	if c.WrapWidth < 20 {
		errs = append(errs, fmt.Errorf("wrap_width %d is below 20", c.WrapWidth))
	}
	if _, err := sdef.ParseZeroPolicy(c.ZeroPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Geometry parses the mesh field.
func (c Config) Geometry() (mesh.Geometry, error) { return mesh.Parse(string(c.Mesh)) }

// Scalar is a YAML scalar kept as its literal text, so a cooling step may
// be written as 0 or as "1 h".
type Scalar string

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

// MeshSpec is the nine mesh numbers, written either as one string or as a
// YAML sequence.
type MeshSpec string

func (m *MeshSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*m = MeshSpec(node.Value)
	case yaml.SequenceNode:
		vals := make([]string, 0, len(node.Content))
		for _, n := range node.Content {
			if _, err := strconv.ParseFloat(n.Value, 64); err != nil {
				return fmt.Errorf("line %d: mesh value %q is not a number", n.Line, n.Value)
			}
			vals = append(vals, n.Value)
		}
		*m = MeshSpec(strings.Join(vals, " "))
	default:
		return fmt.Errorf("line %d: mesh must be a string or a list", node.Line)
	}
	return nil
}
