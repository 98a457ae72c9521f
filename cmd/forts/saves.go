package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/storage"
)

var (
	flagSavesLimit int
	flagSavesTop   bool
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved forts",
	Long: `List saved forts, most recently saved first.

Examples:
  forts saves
  forts saves --top
  forts saves delete fort-1715000000`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <fort-id>",
	Short: "Delete a saved fort and its history",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.Flags().IntVar(&flagSavesLimit, "limit", 20, "Maximum number of forts to list")
	savesCmd.Flags().BoolVar(&flagSavesTop, "top", false, "Order by defense instead of save time")
	savesCmd.AddCommand(savesDeleteCmd)
}

func runSaves(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fort database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var records []storage.FortRecord
	if flagSavesTop {
		records, err = store.TopForts(flagSavesLimit)
	} else {
		records, err = store.ListForts(flagSavesLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing forts: %v\n", err)
		return
	}

	if len(records) == 0 {
		fmt.Println("No saved forts yet.")
		fmt.Println()
		fmt.Println("Run 'forts play' to build your first fort!")
		return
	}

	fmt.Printf("  %-24s  %-20s  %5s  %7s  %-10s  %s\n", "ID", "Fort", "Round", "Defense", "Phase", "Saved")
	fmt.Printf("  %-24s  %-20s  %5s  %7s  %-10s  %s\n", "--", "----", "-----", "-------", "-----", "-----")
	for _, rec := range records {
		fmt.Printf("  %-24s  %-20s  %5d  %7d  %-10s  %s\n",
			rec.ID, rec.FortName, rec.Round, rec.Defense, rec.Phase,
			rec.SavedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(_ *cobra.Command, args []string) {
	id := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fort database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	deleted, err := store.DeleteFort(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting fort: %v\n", err)
		return
	}
	if !deleted {
		fmt.Printf("No saved fort %q.\n", id)
		return
	}
	fmt.Printf("Deleted %s.\n", id)
}
