package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/db"
	"github.com/printpath/printpath/pkg/errors"
	appfsm "github.com/printpath/printpath/pkg/fsm"
	"github.com/printpath/printpath/pkg/security"
	"github.com/printpath/printpath/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/superfly/fsm"
)

var processOutput string

var processCmd = &cobra.Command{
	Use:   "process <input>",
	Short: "Inject timelapse snapshots into a G-code file",
	Long: `Process a sliced G-code file, injecting camera snapshot blocks at
scheduled layer changes. The input is a local path, or an s3://<key> to
fetch from the configured bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "Output file path (default <input>_<generator><ext>)")

	processCmd.Flags().String("generator", "orbit", "Path generator: orbit or arc")
	processCmd.Flags().Int("snapshots", 0, "Snapshot count (0 = derive from generator)")
	processCmd.Flags().Int("first-layer", 1, "First eligible layer")
	processCmd.Flags().String("firmware", "", "Trigger firmware: klipper or marlin (default: detect)")
	processCmd.Flags().Float64("travel-speed", 9000, "Travel speed in mm/min")
	processCmd.Flags().Int("dwell-time", 500, "Dwell before trigger in ms")
	processCmd.Flags().Float64("retract-length", 0.5, "Retraction length in mm (0 disables)")
	processCmd.Flags().Float64("retract-speed", 40, "Retraction speed in mm/s")
	processCmd.Flags().Float64("z-hop-height", 0.2, "Extra Z clearance for snapshot moves")

	processCmd.Flags().Float64("orbit-radius", 30, "Orbit radius in mm")
	processCmd.Flags().Int("orbits", 1, "Full loops over the print")
	processCmd.Flags().Int("snapshots-per-loop", 5, "Snapshots per loop")
	processCmd.Flags().Float64("start-angle", 0, "Starting azimuth in degrees")
	processCmd.Flags().Bool("center-on-model", true, "Center the orbit on the model instead of the bed")
	processCmd.Flags().Float64("fixed-z", 0, "Fixed camera height in mm")
	processCmd.Flags().Bool("use-fixed-z", false, "Pin the orbit to fixed-z instead of climbing")

	processCmd.Flags().String("start-corner", "front-left", "Arc start corner")
	processCmd.Flags().String("end-corner", "back-right", "Arc end corner")
	processCmd.Flags().Float64("vertical-fraction", 0.2, "Leading climb share of the arc")
	processCmd.Flags().Float64("horizontal-fraction", 0.2, "Trailing hold share of the arc")
	processCmd.Flags().Float64("control-offset-h", 0, "Bezier control horizontal offset in mm")
	processCmd.Flags().Float64("control-offset-v", 0, "Bezier control vertical offset in mm")

	processCmd.Flags().Float64("z-offset", 0, "Constant Z offset for all waypoints")
	processCmd.Flags().Float64("z-follow-factor", 1.0, "Blend between path height and print height")

	for _, name := range []string{
		"generator", "snapshots", "first-layer", "firmware",
		"travel-speed", "dwell-time", "retract-length", "retract-speed", "z-hop-height",
		"orbit-radius", "orbits", "snapshots-per-loop", "start-angle",
		"center-on-model", "fixed-z", "use-fixed-z",
		"start-corner", "end-corner", "vertical-fraction", "horizontal-fraction",
		"control-offset-h", "control-offset-v",
		"z-offset", "z-follow-factor",
	} {
		viper.BindPFlag(name, processCmd.Flags().Lookup(name))
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config invalid")
	}
	cfg.Normalize()

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	// Ensure all necessary directories exist
	if err := ensureDirectories(cfg.SQLitePath, cfg.FSMDBPath, cfg.WorkDir); err != nil {
		return err
	}

	repo, err := db.NewRepository(cfg.SQLitePath)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	s3Key := strings.TrimPrefix(input, "s3://")
	remote := s3Key != input

	var s3Client *storage.Client
	if remote {
		if cfg.S3Bucket == "" {
			return fmt.Errorf("s3-bucket must be set for s3:// inputs")
		}
		s3Client, err = storage.NewClient(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return errors.Wrap(err, "S3 client failed")
		}
	}

	validator := security.NewValidator(cfg.MaxFileSize, cfg.MaxLineLength, cfg.MaxLineCount)

	manager, err := fsm.New(fsm.Config{DBPath: cfg.FSMDBPath})
	if err != nil {
		return errors.Wrap(err, "FSM manager failed")
	}
	defer manager.Shutdown(10 * time.Second)

	machine := appfsm.NewMachine(repo, s3Client, validator, opts, cfg.WorkDir, cfg.FSMMaxRetries)
	start, _, err := machine.Register(ctx, manager)
	if err != nil {
		return errors.Wrap(err, "FSM register failed")
	}

	req := &appfsm.ProcessRequest{
		OutputPath: processOutput,
		Generator:  opts.Generator.Name(),
	}
	if remote {
		req.S3Key = s3Key
	} else {
		req.InputPath = input
	}
	resp := &appfsm.ProcessResponse{}

	version, err := start(ctx, input, fsm.NewRequest(req, resp))
	if err != nil {
		return errors.Wrap(err, "FSM start failed")
	}

	slog.Info("fsm started", "version", version)

	if err := manager.Wait(ctx, version); err != nil {
		return errors.Wrap(err, "FSM execution failed")
	}

	slog.Info("process completed",
		"status", resp.Status,
		"output", resp.OutputPath,
		"layers_detected", resp.LayersDetected,
		"snapshot_count", resp.SnapshotCount,
	)

	return nil
}
