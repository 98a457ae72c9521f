package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/games/forts"
	"github.com/vovakirdan/tui-forts/internal/games/forts/blueprints"
	"github.com/vovakirdan/tui-forts/internal/platform/tui"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

var (
	flagPlayName      string
	flagPlayBlueprint string
	flagPlayResume    string
	flagPlayFree      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a fort",
	Long: `Start a new fort, or resume a saved one, without the picker menu.

Controls:
  W/A/S/D, arrows - Move cursor
  Space           - Place with the current tool
  Tab/[ ]         - Change tool
  Mouse drag      - Draw walls and moats
  N               - End the current phase
  R               - Repair the selected tile
  C               - Play a moat card
  U               - Toggle underground view
  T               - Cycle wall material
  P/Esc           - Pause
  Q/Ctrl+C        - Save and quit

Difficulty options:
  easy   - Low siege damage, grows slowly
  normal - Default siege curve
  hard   - Heavy siege damage from round one
  fixed  - No progression, damage stays at the configured level

Examples:
  forts play --name Aldmoor
  forts play --blueprint ring-keep
  forts play --blueprint ./my-fort.yaml --difficulty hard
  forts play --resume fort-1715000000
  forts play --free`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayName, "name", "", "Fort name (skips name entry)")
	playCmd.Flags().StringVar(&flagPlayBlueprint, "blueprint", "", "Start from a blueprint (built-in id or YAML path)")
	playCmd.Flags().StringVar(&flagPlayResume, "resume", "", "Resume a saved fort by id")
	playCmd.Flags().BoolVar(&flagPlayFree, "free", false, "Free builder mode (unlimited resources)")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closer := gameLogger()
	defer closer.Close()
	forts.SetLogger(logger)

	// Open fort storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open fort database: %v\n", err)
		// Continue without storage - the fort just is not saved
		store = nil
	} else {
		forts.SetSaveSink(store)
	}

	launch, err := playLaunch(store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Run the game
	_, runErr := tui.Run(forts.NewWithLaunch(launch), runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playLaunch builds the launch described by the play flags.
func playLaunch(store *storage.Store) (forts.Launch, error) {
	launch := forts.Launch{FortName: flagPlayName, FreeBuilder: flagPlayFree}

	if flagPlayResume != "" {
		if store == nil {
			return launch, fmt.Errorf("cannot resume %q without a fort database", flagPlayResume)
		}
		rec, err := store.LoadFort(flagPlayResume)
		if err != nil {
			return launch, err
		}
		if rec == nil {
			return launch, fmt.Errorf("no saved fort %q (run 'forts saves' to list them)", flagPlayResume)
		}
		return forts.Launch{ID: rec.ID, Resume: rec.Snapshot}, nil
	}

	if flagPlayBlueprint != "" {
		bp, err := blueprints.Find(flagPlayBlueprint)
		if err != nil {
			return launch, err
		}
		grid, err := bp.Grid()
		if err != nil {
			return launch, err
		}
		launch.Layout = grid
		if launch.FortName == "" {
			launch.FortName = bp.Name
		}
	}
	return launch, nil
}
