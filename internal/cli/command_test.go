package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newTestCommand resets the global viper state and parses args
func newTestCommand(t *testing.T, args ...string) (*cobra.Command, *Flags) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Keys from the developer's environment must not leak into tests
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd, flags
}

func TestCreateRootCommand(t *testing.T) {
	cmd, _ := newTestCommand(t)

	if cmd.Use != "vocabdeck" {
		t.Errorf("Expected Use to be 'vocabdeck', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "Anki Flashcard Generator") {
		t.Errorf("Unexpected Short description %q", cmd.Short)
	}

	flagNames := []string{
		"config", "output", "listen", "batch", "anki-csv", "archive", "list-models", "log-level",
		"deck-name", "deck-id", "delay", "pos-labels", "timeout", "image-timeout", "retention",
		"translator", "target-lang", "openai-model", "gemini-model",
		"audio-provider", "skip-audio", "openai-voice",
	}

	for _, name := range flagNames {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Flag %s not found", name)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	_, flags := newTestCommand(t)

	cfg, err := LoadConfig(flags)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Deck.Name != "Vocabulary Deck" || cfg.Deck.ID != 100123 {
		t.Errorf("Deck = %+v", cfg.Deck)
	}
	if cfg.Pipeline.Delay != 200*time.Millisecond {
		t.Errorf("Delay = %v", cfg.Pipeline.Delay)
	}
	if cfg.Pipeline.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Pipeline.Timeout)
	}
	if cfg.Translation.Provider != "google" || cfg.Translation.TargetLang != "vi" {
		t.Errorf("Translation = %+v", cfg.Translation)
	}
	if cfg.Audio.AudioProvider() != "google" {
		t.Errorf("AudioProvider() = %q", cfg.Audio.AudioProvider())
	}
	if cfg.Audio.OpenAIModel != "tts-1" {
		t.Errorf("Audio model = %q", cfg.Audio.OpenAIModel)
	}
	if cfg.Output.Directory != DefaultOutputDir() {
		t.Errorf("Output = %q", cfg.Output.Directory)
	}
}

func TestLoadConfig_Flags(t *testing.T) {
	_, flags := newTestCommand(t,
		"--batch", "words.txt",
		"--anki-csv",
		"--list-models",
		"--skip-audio",
		"--delay", "0s",
		"--pos-labels", "vi",
		"--deck-id", "42",
		"--listen", "127.0.0.1:9000",
	)

	cfg, err := LoadConfig(flags)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BatchFile != "words.txt" || !cfg.AnkiCSV || !cfg.ListModels {
		t.Errorf("Run mode not taken from flags: %+v", cfg)
	}
	if cfg.Audio.AudioProvider() != "none" {
		t.Errorf("--skip-audio should disable audio, got %q", cfg.Audio.AudioProvider())
	}
	if cfg.Pipeline.Delay != 0 || cfg.Pipeline.POSLabels != "vi" {
		t.Errorf("Pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Deck.ID != 42 {
		t.Errorf("Deck id = %d", cfg.Deck.ID)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown translator", []string{"--translator", "babel"}, "Provider"},
		{"openai translator without key", []string{"--translator", "openai"}, "OpenAIKey"},
		{"gemini translator without key", []string{"--translator", "gemini"}, "GeminiKey"},
		{"unknown audio provider", []string{"--audio-provider", "espeak"}, "Provider"},
		{"bad pos labels", []string{"--pos-labels", "fr"}, "POSLabels"},
		{"zero deck id", []string{"--deck-id", "0"}, "ID"},
		{"bad listen address", []string{"--listen", "nowhere"}, "Listen"},
		{"zero timeout", []string{"--timeout", "0s"}, "Timeout"},
		{"bad log level", []string{"--log-level", "loud"}, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, flags := newTestCommand(t, tt.args...)

			_, err := LoadConfig(flags)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_Timeout(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want time.Duration
	}{
		{"default", nil, 10 * time.Second},
		{"timeout flag", []string{"--timeout", "3s"}, 3 * time.Second},
		{"old image-timeout name", []string{"--image-timeout", "5s"}, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, flags := newTestCommand(t, tt.args...)

			cfg, err := LoadConfig(flags)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.Pipeline.Timeout != tt.want {
				t.Errorf("Pipeline.Timeout = %v, want %v", cfg.Pipeline.Timeout, tt.want)
			}
			if flags.Timeout != tt.want {
				t.Errorf("flags.Timeout = %v, want %v", flags.Timeout, tt.want)
			}
		})
	}
}

func TestLoadConfig_OpenAIKeyFromEnv(t *testing.T) {
	_, flags := newTestCommand(t, "--translator", "openai", "--audio-provider", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(flags)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Translation.OpenAIKey != "sk-test" || cfg.Audio.OpenAIKey != "sk-test" {
		t.Errorf("OpenAI key not applied: %+v %+v", cfg.Translation, cfg.Audio)
	}
}

func TestInitConfig_File(t *testing.T) {
	_, flags := newTestCommand(t)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "vocabdeck.yaml")
	content := `translation:
  provider: gemini
  gemini_key: from-file
deck:
  name: Animals
pipeline:
  delay: 1s
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	// Keep godotenv from picking up a .env of the developer
	t.Chdir(dir)

	InitConfig(cfgFile)

	cfg, err := LoadConfig(flags)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Translation.Provider != "gemini" || cfg.Translation.GeminiKey != "from-file" {
		t.Errorf("Translation = %+v", cfg.Translation)
	}
	if cfg.Deck.Name != "Animals" {
		t.Errorf("Deck name = %q", cfg.Deck.Name)
	}
	if cfg.Pipeline.Delay != time.Second {
		t.Errorf("Delay = %v", cfg.Pipeline.Delay)
	}
}

func TestInitConfig_Env(t *testing.T) {
	_, flags := newTestCommand(t)
	t.Chdir(t.TempDir())
	t.Setenv("VOCABDECK_DECK_NAME", "From Env")

	InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadConfig(flags)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Deck.Name != "From Env" {
		t.Errorf("Deck name = %q, want value from environment", cfg.Deck.Name)
	}
}

func TestGetKeys(t *testing.T) {
	newTestCommand(t)

	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	if got := GetOpenAIKey(); got != "env-openai" {
		t.Errorf("GetOpenAIKey() = %q", got)
	}
	if got := GetGeminiKey(); got != "env-gemini" {
		t.Errorf("GetGeminiKey() = %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("audio.openai_key", "cfg-openai")
	viper.Set("translation.gemini_key", "cfg-gemini")
	if got := GetOpenAIKey(); got != "cfg-openai" {
		t.Errorf("GetOpenAIKey() = %q", got)
	}
	if got := GetGeminiKey(); got != "cfg-gemini" {
		t.Errorf("GetGeminiKey() = %q", got)
	}
}
