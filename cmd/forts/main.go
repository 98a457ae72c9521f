// forts is IsoForts: build an isometric fort in the terminal and hold it
// against a siege every round.
//
// Usage:
//
//	forts                    - Start the fort picker menu
//	forts play               - Play a fort directly
//	forts saves              - List or delete saved forts
//	forts history <fort-id>  - Show the siege history of a fort
//	forts serve              - Start SSH server for remote play
//	forts api                - Serve saved forts over HTTP
//	forts simulate           - Run sieges headless and print a report
//	forts export <fort-id>   - Print a saved fort as a text map
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible sieges
//	--db <path>           - Set database path (default: ~/.forts/forts.db)
//	--config <path>       - Use a custom forts.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-forts/internal/config"
	"github.com/vovakirdan/tui-forts/internal/core"
	"github.com/vovakirdan/tui-forts/internal/games/forts"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "forts",
	Short: "IsoForts - build a fort, survive the siege",
	Long: `IsoForts is a terminal fort-building game on an isometric grid.

Each round you draw cards, build walls, moats and towers against the
clock, weather a siege and repair the damage.

Available commands:
  play      - Play a fort directly
  saves     - List or delete saved forts
  history   - Siege history of a fort
  serve     - Start SSH server for remote play
  api       - Serve saved forts over HTTP
  simulate  - Run sieges headless
  export    - Print a saved fort as a text map

Run without a command to open the fort picker.

Examples:
  forts
  forts play --name Aldmoor
  forts play --blueprint ring-keep
  forts simulate --rounds 10 --blueprint ring-keep
  forts serve --ssh :2222`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return configureGame()
	},
	Run: runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.forts/forts.db", "Path to fort database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom forts.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(exportCmd)
}

// configureGame applies the global flags to the game package.
func configureGame() error {
	forts.SetConfigPath(flagConfig)
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		forts.SetDifficulty(preset)
	}
	if _, err := log.ParseLevel(flagLogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

// newLogger returns a stderr logger at the --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// gameLogger logs to ~/.forts/forts.log while the terminal is taken by
// the game. The returned closer must be called on exit.
func gameLogger() (*log.Logger, io.Closer) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	dir := filepath.Join(home, ".forts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(filepath.Join(dir, "forts.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "forts",
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger, f
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadConfig loads forts.yaml with the difficulty preset applied.
func loadConfig() (config.FortsConfig, error) {
	cfg, err := config.LoadForts(flagConfig)
	if err != nil {
		return cfg, err
	}
	if preset, ok := config.ParsePreset(flagDifficulty); ok {
		config.ApplyFortsPreset(&cfg, preset)
	}
	return cfg, nil
}
