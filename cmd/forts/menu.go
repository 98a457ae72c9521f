package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/games/forts"
	"github.com/vovakirdan/tui-forts/internal/platform/tui"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

// runMenu shows the fort picker and plays the chosen fort, looping back
// to the picker until the player quits.
func runMenu(_ *cobra.Command, _ []string) {
	logger, closer := gameLogger()
	defer closer.Close()
	forts.SetLogger(logger)

	// Open fort storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open fort database: %v\n", err)
		store = nil
	} else {
		forts.SetSaveSink(store)
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		launch := menuResult.Launch
		if menuResult.WantsBoard {
			board, boardErr := tui.RunBoard(store, cfg.ScreenW, cfg.ScreenH)
			if boardErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", boardErr)
			}
			if board.Resume == nil {
				if board.Back {
					continue // Back to menu
				}
				break // User quit from the board
			}
			launch = &forts.Launch{ID: board.Resume.ID, Resume: board.Resume.Snapshot}
		}
		if launch == nil {
			break
		}

		// Fresh seed for each siege run
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, runErr := tui.Run(forts.NewWithLaunch(*launch), cfg)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		}
		if !backToMenu {
			break
		}
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
