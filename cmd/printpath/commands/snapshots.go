package commands

import (
	"fmt"
	"strconv"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/db"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots <run-id>",
	Short: "Show the snapshot records for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid run id %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}

	if err := ensureDirectories(cfg.SQLitePath, "", ""); err != nil {
		return err
	}

	repo, err := db.NewRepository(cfg.SQLitePath)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	run, err := repo.GetRun(runID)
	if err != nil {
		return errors.Wrap(err, "run lookup failed")
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	snaps, err := repo.ListSnapshots(runID)
	if err != nil {
		return errors.Wrap(err, "snapshot lookup failed")
	}

	fmt.Printf("Run %d  input=%s  generator=%s  status=%s\n\n", run.ID, run.InputPath, run.Generator, run.Status)

	if len(snaps) == 0 {
		fmt.Println("No snapshots recorded")
		return nil
	}

	fmt.Printf("%-6s %-8s %10s %10s %10s\n", "SEQ", "LAYER", "X", "Y", "Z")
	fmt.Println("------------------------------------------------")

	for _, s := range snaps {
		fmt.Printf("%-6d %-8d %10.3f %10.3f %10.3f\n", s.Sequence, s.Layer, s.X, s.Y, s.Z)
	}

	return nil
}
