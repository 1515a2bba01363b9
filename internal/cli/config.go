package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the validated application configuration
type Config struct {
	Output      OutputConfig      `mapstructure:"output" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	Deck        DeckConfig        `mapstructure:"deck" validate:"required"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline" validate:"required"`
	Translation TranslationConfig `mapstructure:"translation" validate:"required"`
	Audio       AudioConfig       `mapstructure:"audio" validate:"required"`

	// Run mode, flags only
	BatchFile  string `mapstructure:"-"`
	AnkiCSV    bool   `mapstructure:"-"`
	Archive    bool   `mapstructure:"-"`
	ListModels bool   `mapstructure:"-"`
}

// OutputConfig defines where runs are stored
type OutputConfig struct {
	Directory string        `mapstructure:"directory" validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"gte=0"`
}

// ServerConfig defines the web UI listener
type ServerConfig struct {
	Listen string `mapstructure:"listen" validate:"required,hostname_port"`
}

// LogConfig defines logging
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DeckConfig defines the generated deck
type DeckConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	ID   int64  `mapstructure:"id" validate:"gt=0"`
}

// PipelineConfig tunes the per-word processing
type PipelineConfig struct {
	Delay     time.Duration `mapstructure:"delay" validate:"gte=0"`
	POSLabels string        `mapstructure:"pos_labels" validate:"oneof=en vi"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// TranslationConfig selects the translation provider
type TranslationConfig struct {
	Provider    string `mapstructure:"provider" validate:"oneof=google openai gemini"`
	TargetLang  string `mapstructure:"target_lang" validate:"required,min=2"`
	OpenAIModel string `mapstructure:"openai_model"`
	OpenAIKey   string `mapstructure:"openai_key" validate:"required_if=Provider openai"`
	GeminiModel string `mapstructure:"gemini_model"`
	GeminiKey   string `mapstructure:"gemini_key" validate:"required_if=Provider gemini"`
}

// AudioConfig selects the pronunciation provider
type AudioConfig struct {
	Provider    string `mapstructure:"provider" validate:"oneof=google openai none"`
	Skip        bool   `mapstructure:"skip"`
	OpenAIKey   string `mapstructure:"openai_key" validate:"required_if=Provider openai"`
	OpenAIModel string `mapstructure:"openai_model"`
	OpenAIVoice string `mapstructure:"openai_voice"`
}

// AudioProvider returns the effective provider; skipping audio means "none"
func (c AudioConfig) AudioProvider() string {
	if c.Skip {
		return "none"
	}
	return c.Provider
}

var validate = validator.New()

// LoadConfig builds the configuration from viper (config file, environment
// and bound flags) plus the run mode flags, then validates it
func LoadConfig(flags *Flags) (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	openAIKey := GetOpenAIKey()
	if cfg.Audio.OpenAIKey == "" {
		cfg.Audio.OpenAIKey = openAIKey
	}
	if cfg.Translation.OpenAIKey == "" {
		cfg.Translation.OpenAIKey = openAIKey
	}
	if key := GetGeminiKey(); key != "" {
		cfg.Translation.GeminiKey = key
	}
	if cfg.Audio.OpenAIModel == "" {
		cfg.Audio.OpenAIModel = "tts-1"
	}

	if flags != nil {
		cfg.BatchFile = flags.BatchFile
		cfg.AnkiCSV = flags.AnkiCSV
		cfg.Archive = flags.Archive
		cfg.ListModels = flags.ListModels
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
