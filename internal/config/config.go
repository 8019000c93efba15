// Package config defines the runtime configuration surface shared by the CLI
// flags, environment variables, and the optional config file.
package config

import (
	"fmt"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/composer"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/refiner"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

// Config holds the resolved settings for a run. Field tags serve both the
// YAML config file and viper's unmarshal step.
type Config struct {
	// Focus selects the fragment set appended to every positive prompt.
	Focus string `yaml:"focus" mapstructure:"focus"`
	// ViewType selects which view fragments of an entry are used.
	ViewType string `yaml:"view_type" mapstructure:"view_type"`
	// Output is "text" or "json".
	Output string `yaml:"output" mapstructure:"output"`
	// VocabPath overrides the embedded vocabulary corpus when set.
	VocabPath string `yaml:"vocab" mapstructure:"vocab"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Default returns the baseline configuration before flags and environment
// overrides are applied.
func Default() Config {
	return Config{
		Focus:    string(composer.FocusEducation),
		ViewType: string(vocabulary.ViewStandard),
		Output:   "text",
	}
}

// Validate rejects selector values the pipeline would refuse later, so the
// CLI can fail before loading the vocabulary. Selector errors carry the
// accepted values, matching what the engine reports.
func (c Config) Validate() error {
	if _, err := refiner.ParseFocus(c.Focus); err != nil {
		return err
	}
	if _, err := refiner.ParseViewType(c.ViewType); err != nil {
		return err
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output format %q (accepted values: text, json)", c.Output)
	}
	return nil
}

// LoadVocabulary opens the configured corpus, falling back to the embedded
// one when no override path is set.
func (c Config) LoadVocabulary() (*vocabulary.Store, error) {
	if c.VocabPath != "" {
		return vocabulary.LoadFile(c.VocabPath)
	}
	return vocabulary.LoadEmbedded()
}
