package commands

import (
	"fmt"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/db"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all processing runs and their status",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}

	// Ensure database directory exists
	if err := ensureDirectories(cfg.SQLitePath, "", ""); err != nil {
		return err
	}

	repo, err := db.NewRepository(cfg.SQLitePath)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	runs, err := repo.ListRuns()
	if err != nil {
		return errors.Wrap(err, "list failed")
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-40s %-10s %-12s %-8s %-10s\n", "ID", "INPUT", "GENERATOR", "STATUS", "LAYERS", "SNAPSHOTS")
	fmt.Println("---------------------------------------------------------------------------------------------")

	for _, run := range runs {
		input := run.InputPath
		if len(input) > 40 {
			input = "..." + input[len(input)-37:]
		}
		fmt.Printf("%-6d %-40s %-10s %-12s %-8d %-10d\n",
			run.ID, input, run.Generator, run.Status, run.LayersDetected, run.SnapshotCount)
	}

	return nil
}
