package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/db"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cleanupAll bool
	cleanupRun string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove run records, downloads, and generated output files",
	Long: `Clean up resources associated with processing runs:
  --all          Remove all runs, their outputs, and downloaded inputs
  --run <id>     Remove a single run by ID`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "Remove all runs")
	cleanupCmd.Flags().StringVar(&cleanupRun, "run", "", "Remove a single run by ID")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}

	repo, err := db.NewRepository(cfg.SQLitePath)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	switch {
	case cleanupAll:
		return cleanupAllRuns(repo, cfg)
	case cleanupRun != "":
		id, err := strconv.ParseInt(cleanupRun, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid run id %q", cleanupRun)
		}
		return cleanupOneRun(repo, cfg, id)
	default:
		return fmt.Errorf("must specify --all or --run")
	}
}

func cleanupAllRuns(repo *db.Repository, cfg *config.Config) error {
	runs, err := repo.ListRuns()
	if err != nil {
		return errors.Wrap(err, "list failed")
	}

	fmt.Printf("Cleaning up %d runs...\n", len(runs))

	for _, run := range runs {
		if err := cleanupRunResources(repo, cfg, run); err != nil {
			fmt.Printf("Failed to clean run %d: %v\n", run.ID, err)
		} else {
			fmt.Printf("Cleaned run %d (%s)\n", run.ID, run.InputPath)
		}
	}

	return nil
}

func cleanupOneRun(repo *db.Repository, cfg *config.Config, id int64) error {
	run, err := repo.GetRun(id)
	if err != nil {
		return errors.Wrap(err, "run lookup failed")
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}

	if err := cleanupRunResources(repo, cfg, run); err != nil {
		return errors.Wrap(err, "cleanup failed")
	}

	fmt.Printf("Cleaned run %d (%s)\n", run.ID, run.InputPath)
	return nil
}

func cleanupRunResources(repo *db.Repository, cfg *config.Config, run *db.Run) error {
	// Remove the generated output file
	if run.OutputPath != "" {
		if err := os.Remove(run.OutputPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to remove output file")
		}
	}

	// Remove the downloaded input, if the run came from S3
	downloadPath := filepath.Join(cfg.WorkDir, "downloads", filepath.Base(run.InputPath))
	if _, err := os.Stat(downloadPath); err == nil {
		if err := os.Remove(downloadPath); err != nil {
			return errors.Wrap(err, "failed to remove download")
		}
	}

	// Remove the run and its snapshot records
	return repo.DeleteRun(run.ID)
}
