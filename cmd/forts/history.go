package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <fort-id>",
	Short: "Show the siege history of a fort",
	Long: `Display every recorded siege of a saved fort, oldest first.

Examples:
  forts history fort-1715000000
  forts history fort-1715000000 --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 0, "Show only the most recent rounds (0 = all)")
}

func runHistory(_ *cobra.Command, args []string) {
	id := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fort database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rec, err := store.LoadFort(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fort: %v\n", err)
		return
	}
	if rec == nil {
		fmt.Printf("No saved fort %q.\n", id)
		fmt.Println("Run 'forts saves' to list saved forts.")
		return
	}

	rounds, err := store.RoundHistory(id, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		return
	}

	fmt.Printf("Siege History - %s\n", rec.FortName)
	fmt.Println()

	if len(rounds) == 0 {
		fmt.Println("No sieges recorded yet.")
		return
	}

	fmt.Printf("  %-5s  %-7s  %-7s  %-6s  %-16s  %s\n", "Round", "Damaged", "Defense", "Towers", "Wood/Stone/Food", "Date")
	fmt.Printf("  %-5s  %-7s  %-7s  %-6s  %-16s  %s\n", "-----", "-------", "-------", "------", "---------------", "----")
	for _, r := range rounds {
		res := fmt.Sprintf("%d/%d/%d", r.Wood, r.Stone, r.Food)
		fmt.Printf("  %-5d  %-7d  %-7d  %-6d  %-16s  %s\n",
			r.Round, r.Damaged, r.Defense, r.Towers, res, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show totals
	fmt.Println()
	if stats, err := store.GetFortStats(id); err == nil {
		fmt.Printf("Sieges: %d  Tiles lost: %d  Best defense: %d\n", stats.Rounds, stats.TotalDamaged, stats.BestDefense)
	}
}
