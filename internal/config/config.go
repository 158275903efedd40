// Package config holds the configuration of the jf command.  Values come from
// flags, then environment variables, then an optional YAML or JSON file, in
// decreasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/arnodel/fieldstream/extract"
)

const (
	DefaultType      = "string"
	DefaultChunkSize = 64
	DefaultColor     = "auto"
)

// Config is the resolved configuration of a jf run.
type Config struct {
	Field       string
	Type        string
	NonBlocking bool
	ChunkSize   int
	Color       string
	PrintValue  bool
	Verbose     bool

	// When Prompt is set the input is the answer of a chat model instead of
	// stdin.
	Prompt     string
	System     string
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Names of the flags set on the command line
	explicit map[string]bool
}

// SetExplicit records that the named flags were given on the command line.
// Environment variables and the configuration file never override them, even
// when their value is the default.
func (c *Config) SetExplicit(names ...string) {
	if c.explicit == nil {
		c.explicit = make(map[string]bool, len(names))
	}
	for _, name := range names {
		c.explicit[name] = true
	}
}

// unset reports whether the flag was not given and the value is either
// empty or still at its default.
func (c *Config) unset(flag string, atDefault bool) bool {
	return !c.explicit[flag] && atDefault
}

// Default returns a Config with default values set.
func Default() Config {
	return Config{
		Type:      DefaultType,
		ChunkSize: DefaultChunkSize,
		Color:     DefaultColor,
	}
}

// FileConfig is the schema of a configuration file.
type FileConfig struct {
	Field       string `yaml:"field" json:"field"`
	Type        string `yaml:"type" json:"type"`
	NonBlocking bool   `yaml:"nonBlocking" json:"nonBlocking"`
	ChunkSize   int    `yaml:"chunkSize" json:"chunkSize"`
	Color       string `yaml:"color" json:"color"`
	PrintValue  bool   `yaml:"printValue" json:"printValue"`
	Verbose     bool   `yaml:"verbose" json:"verbose"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		System  string `yaml:"system" json:"system"`
	} `yaml:"llm" json:"llm"`
}

// LoadFile reads a YAML or JSON configuration file.  Files without a known
// extension are tried as YAML then as JSON.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFile fills the fields of cfg that are unset or still at their default
// value with the values of fc.
func ApplyFile(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.unset("field", cfg.Field == "") && fc.Field != "" {
		cfg.Field = fc.Field
	}
	if cfg.unset("type", cfg.Type == "" || cfg.Type == DefaultType) && fc.Type != "" {
		cfg.Type = fc.Type
	}
	if cfg.unset("chunk", cfg.ChunkSize == 0 || cfg.ChunkSize == DefaultChunkSize) && fc.ChunkSize > 0 {
		cfg.ChunkSize = fc.ChunkSize
	}
	if cfg.unset("color", cfg.Color == "" || cfg.Color == DefaultColor) && fc.Color != "" {
		cfg.Color = fc.Color
	}
	if cfg.unset("nonblocking", !cfg.NonBlocking) && fc.NonBlocking {
		cfg.NonBlocking = true
	}
	if cfg.unset("value", !cfg.PrintValue) && fc.PrintValue {
		cfg.PrintValue = true
	}
	if cfg.unset("v", !cfg.Verbose) && fc.Verbose {
		cfg.Verbose = true
	}
	if cfg.unset("llm.base", cfg.LLMBaseURL == "") && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.unset("llm.model", cfg.LLMModel == "") && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.unset("llm.key", cfg.LLMAPIKey == "") && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.unset("system", cfg.System == "") && fc.LLM.System != "" {
		cfg.System = fc.LLM.System
	}
}

// ApplyEnv fills unset fields of cfg from environment variables, looked up
// with getenv (os.Getenv in production).
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil {
		return
	}
	if cfg.unset("field", cfg.Field == "") {
		cfg.Field = getenv("JF_FIELD")
	}
	if v := getenv("JF_TYPE"); v != "" && cfg.unset("type", cfg.Type == "" || cfg.Type == DefaultType) {
		cfg.Type = v
	}
	if cfg.unset("llm.base", cfg.LLMBaseURL == "") {
		cfg.LLMBaseURL = getenv("LLM_BASE_URL")
	}
	if cfg.unset("llm.model", cfg.LLMModel == "") {
		cfg.LLMModel = getenv("LLM_MODEL")
	}
	if cfg.unset("llm.key", cfg.LLMAPIKey == "") {
		cfg.LLMAPIKey = getenv("LLM_API_KEY")
	}
}

// Kind returns the extraction kind named by cfg.Type.
func (c Config) Kind() (extract.Kind, error) {
	return extract.ParseKind(c.Type)
}

// Validate reports all the problems found in cfg.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Field) == "" {
		errs = append(errs, fmt.Errorf("%w: a field name is required", extract.ErrInvalidFieldName))
	}
	if _, err := c.Kind(); err != nil {
		errs = append(errs, err)
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("invalid color mode %q (use auto, always, or never)", c.Color))
	}
	if c.Prompt != "" && c.LLMModel == "" {
		errs = append(errs, errors.New("a model is required to send a prompt"))
	}
	return errors.Join(errs...)
}
