package jsep

import (
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds expression nesting when Config.MaxDepth is zero.
const DefaultMaxDepth = 1024

// Config holds the operator and keyword vocabulary of a parser.
//
// Each list is matched as a prefix of the remaining input, in list order,
// first match wins. An operator that is a textual prefix of another (such as
// "<" and "<=") must therefore come after it. The parser never reorders.
//
// A nil list means "use the default"; a non-nil empty list disables the
// category entirely.
type Config struct {
	UnaryOps  []string `yaml:"unary_ops,omitempty"`
	BinaryOps []string `yaml:"binary_ops,omitempty"`
	Keywords  []string `yaml:"keywords,omitempty"`

	// Precedence switches binary grouping from leftmost-operator-is-root to
	// conventional precedence climbing. Operators BinaryPrecedence does not
	// rank bind loosest.
	Precedence bool `yaml:"precedence,omitempty"`

	// MaxDepth limits recursion. Zero means DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// DefaultUnaryOps returns the default unary operators.
func DefaultUnaryOps() []string {
	return []string{"-", "!"}
}

// DefaultBinaryOps returns the default binary operators in matching order.
func DefaultBinaryOps() []string {
	return []string{
		"+", "-", "*", "/", "%",
		"&&", "||", "&", "|",
		"<<", ">>",
		"===", "==", "!==", "!=",
		">=", "<=", "<", ">",
	}
}

// DefaultKeywords returns the default keywords.
func DefaultKeywords() []string {
	return []string{"true", "false", "this"}
}

// DefaultConfig returns a config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		UnaryOps:  DefaultUnaryOps(),
		BinaryOps: DefaultBinaryOps(),
		Keywords:  DefaultKeywords(),
		MaxDepth:  DefaultMaxDepth,
	}
}

// Merge returns a copy of c with every field present in over replacing the
// corresponding field of c. Lists are replaced whole, never merged.
func (c *Config) Merge(over *Config) *Config {
	out := c.clone()
	if over == nil {
		return out
	}

	if over.UnaryOps != nil {
		out.UnaryOps = slices.Clone(over.UnaryOps)
	}

	if over.BinaryOps != nil {
		out.BinaryOps = slices.Clone(over.BinaryOps)
	}

	if over.Keywords != nil {
		out.Keywords = slices.Clone(over.Keywords)
	}

	if over.Precedence {
		out.Precedence = true
	}

	if over.MaxDepth != 0 {
		out.MaxDepth = over.MaxDepth
	}

	return out
}

func (c *Config) clone() *Config {
	if c == nil {
		return &Config{}
	}

	return &Config{
		UnaryOps:   slices.Clone(c.UnaryOps),
		BinaryOps:  slices.Clone(c.BinaryOps),
		Keywords:   slices.Clone(c.Keywords),
		Precedence: c.Precedence,
		MaxDepth:   c.MaxDepth,
	}
}

// resolve fills absent fields of cfg with defaults.
func resolve(cfg *Config) *Config {
	return DefaultConfig().Merge(cfg)
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".jsep.yaml", ".jsep.yml", "jsep.yaml", "jsep.yml"}

// LoadConfig finds and loads the nearest .jsep.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
