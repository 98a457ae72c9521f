package main

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/games/forts"
	"github.com/vovakirdan/tui-forts/internal/games/forts/blueprints"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

var (
	flagSimBlueprint string
	flagSimRounds    int
	flagSimName      string
	flagSimSave      bool
	flagSimCopy      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run sieges headless and print a report",
	Long: `Play whole rounds without a player and report the damage.

Every phase ends immediately. After each siege the fort repairs damaged
tiles while its resources last. Use --seed for a reproducible run.

Examples:
  forts simulate --rounds 10
  forts simulate --blueprint ring-keep --difficulty hard --seed 42
  forts simulate --blueprint ./my-fort.yaml --save
  forts simulate --rounds 20 --copy`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimBlueprint, "blueprint", "", "Blueprint to besiege (built-in id or YAML path)")
	simulateCmd.Flags().IntVar(&flagSimRounds, "rounds", 10, "Number of sieges to run")
	simulateCmd.Flags().StringVar(&flagSimName, "name", "Simulated Fort", "Fort name")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save the fort and its history to the database")
	simulateCmd.Flags().BoolVar(&flagSimCopy, "copy", false, "Copy the report to the clipboard")
}

func runSimulate(_ *cobra.Command, _ []string) {
	if flagSimRounds <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --rounds must be positive")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	engine := forts.NewEngine(cfg, fort.SystemClock{}, flagSeed)
	engine.SetLogger(newLogger("forts-sim"))

	state := engine.New(fmt.Sprintf("sim-%d", time.Now().UnixNano()))
	state.FortName = flagSimName
	if flagSimBlueprint != "" {
		bp, err := blueprints.Find(flagSimBlueprint)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		grid, err := bp.Grid()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if grid.Size != state.GridSize() {
			fmt.Fprintf(os.Stderr, "Error: blueprint %s is %dx%d, the configured grid is %dx%d\n",
				bp.ID, grid.Size, grid.Size, state.GridSize(), state.GridSize())
			os.Exit(1)
		}
		state.Grid = grid
		state.Stats = grid.Stats()
	}

	sim := forts.Simulation{Engine: engine, State: state}
	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening fort database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		sim.Sink = store
	}

	reports, err := sim.Run(flagSimRounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	report := fmt.Sprintf("Siege Simulation - %s\n\n%s", flagSimName, forts.FormatReports(reports))
	fmt.Print(report)
	if flagSimSave {
		fmt.Printf("\nSaved as %s\n", sim.State.ID)
	}

	if flagSimCopy {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Report copied to clipboard.")
		}
	}
}
