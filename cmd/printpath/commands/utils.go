package commands

import (
	"os"
	"path/filepath"

	"github.com/printpath/printpath/internal/config"
	"github.com/printpath/printpath/pkg/camera"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/printpath/printpath/pkg/timelapse"
)

// ensureDirectories creates all necessary directories for the application
func ensureDirectories(sqlitePath, fsmDBPath, workDir string) error {
	// Create database directory
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
		return errors.Wrap(err, "failed to create database directory")
	}

	// Create FSM database directory (only needed for process command)
	if fsmDBPath != "" {
		if err := os.MkdirAll(fsmDBPath, 0755); err != nil {
			return errors.Wrap(err, "failed to create FSM directory")
		}
	}

	// Create work directory (only needed for process command)
	if workDir != "" {
		if err := os.MkdirAll(workDir, 0755); err != nil {
			return errors.Wrap(err, "failed to create work directory")
		}
	}

	return nil
}

// buildOptions assembles the processing options from configuration,
// including the selected path generator. A snapshot count of zero resolves
// to the orbit's implied budget for orbit paths and to ten for arcs.
func buildOptions(cfg *config.Config) (timelapse.Options, error) {
	startCorner, err := camera.ParseCorner(cfg.StartCorner)
	if err != nil {
		return timelapse.Options{}, errors.Wrapf(err, "invalid start-corner %q", cfg.StartCorner)
	}
	endCorner, err := camera.ParseCorner(cfg.EndCorner)
	if err != nil {
		return timelapse.Options{}, errors.Wrapf(err, "invalid end-corner %q", cfg.EndCorner)
	}

	orbitCfg := camera.OrbitConfig{
		Radius:           cfg.OrbitRadius,
		Orbits:           cfg.Orbits,
		SnapshotsPerLoop: cfg.SnapshotsPerLoop,
		StartAngle:       cfg.StartAngle,
		CenterOnModel:    cfg.CenterOnModel,
		FixedZ:           cfg.FixedZ,
		UseFixedZ:        cfg.UseFixedZ,
		ZOffset:          cfg.ZOffset,
		ZFollowFactor:    cfg.ZFollowFactor,
	}
	arcCfg := camera.ArcConfig{
		StartCorner:        startCorner,
		EndCorner:          endCorner,
		VerticalFraction:   cfg.VerticalFraction,
		HorizontalFraction: cfg.HorizontalFraction,
		ControlOffsetH:     cfg.ControlOffsetH,
		ControlOffsetV:     cfg.ControlOffsetV,
		ZOffset:            cfg.ZOffset,
		ZFollowFactor:      cfg.ZFollowFactor,
	}

	gen, err := camera.New(cfg.Generator, orbitCfg, arcCfg)
	if err != nil {
		return timelapse.Options{}, errors.Wrap(err, "generator init failed")
	}

	snapshots := cfg.Snapshots
	if snapshots <= 0 {
		if orbit, ok := gen.(*camera.Orbit); ok {
			snapshots = orbit.Snapshots()
		} else {
			snapshots = 10
		}
	}

	return timelapse.Options{
		Firmware:      cfg.Firmware,
		TravelSpeed:   int(cfg.TravelSpeed),
		DwellTime:     cfg.DwellTime,
		RetractLength: cfg.RetractLength,
		RetractSpeed:  int(cfg.RetractSpeed),
		ZHopHeight:    cfg.ZHopHeight,
		Snapshots:     snapshots,
		FirstLayer:    cfg.FirstLayer,
		Generator:     gen,
	}, nil
}
