// Package cli wires vocabdeck's command line: cobra root command, pflag
// flags bound to viper keys, .env and config file loading, and the
// validated Config the rest of the program runs on.
package cli
