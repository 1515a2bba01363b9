package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdeck/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vocabdeck",
		Short: "English-Vietnamese Anki Flashcard Generator",
		Long: `vocabdeck turns a list of English words into an Anki deck.

Every card shows a picture, the word with its part of speech and a
pronunciation clip on the front, and the Vietnamese translation of the
word's definition on the back.

Examples:
  vocabdeck                       # Start the web UI on :8080 (default)
  vocabdeck --listen :9000        # Start the web UI on another address
  vocabdeck --batch words.txt     # Build a deck from a file (one word per line)`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultOutputDir is where runs are stored unless configured otherwise
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vocabdeck")
	}
	return filepath.Join(home, ".local", "state", "vocabdeck", "runs")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vocabdeck.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory for generated runs")
	cmd.Flags().StringVar(&flags.Listen, "listen", flags.Listen, "Address of the web UI")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Build a deck from file (one word per line) instead of serving the web UI")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Also write a Front/Back CSV next to the .apkg in batch mode")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory into a timestamped archive and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI models usable for translation and speech and exit")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name shown in Anki")
	cmd.Flags().Int64Var(&flags.DeckID, "deck-id", flags.DeckID, "Deck id; keep it stable so re-imports update the same deck")

	cmd.Flags().DurationVar(&flags.Delay, "delay", flags.Delay, "Pause between words")
	cmd.Flags().StringVar(&flags.POSLabels, "pos-labels", flags.POSLabels, "Part of speech labels: en or vi")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout for each external step (definition, translation, image, audio)")
	cmd.Flags().DurationVar(&flags.Retention, "retention", flags.Retention, "Remove runs older than this (0 keeps everything)")

	// Translation flags
	cmd.Flags().StringVar(&flags.Translator, "translator", flags.Translator, "Translation provider: google, openai, gemini")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Target language code")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for translation")

	// Audio flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Audio provider: google, openai, none")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Build cards without pronunciation")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")

	// --image-timeout is the old name of --timeout
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "image-timeout" {
			name = "timeout"
		}
		return pflag.NormalizedName(name)
	})

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.retention", cmd.Flags().Lookup("retention"))
	viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("deck.name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("deck.id", cmd.Flags().Lookup("deck-id"))
	viper.BindPFlag("pipeline.delay", cmd.Flags().Lookup("delay"))
	viper.BindPFlag("pipeline.pos_labels", cmd.Flags().Lookup("pos-labels"))
	viper.BindPFlag("pipeline.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("translator"))
	viper.BindPFlag("translation.target_lang", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translation.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("translation.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.skip", cmd.Flags().Lookup("skip-audio"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
}

// InitConfig initializes viper configuration. A .env file in the working
// directory is loaded first; variables already set are not overridden.
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabdeck")
	}

	// Environment variables: VOCABDECK_TRANSLATION_PROVIDER etc.
	viper.SetEnvPrefix("VOCABDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}
