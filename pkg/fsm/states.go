package fsm

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/printpath/printpath/pkg/db"
	"github.com/printpath/printpath/pkg/errors"
	"github.com/printpath/printpath/pkg/security"
	"github.com/printpath/printpath/pkg/storage"
	"github.com/printpath/printpath/pkg/timelapse"
	"github.com/superfly/fsm"
)

// Machine holds dependencies for FSM transitions
type Machine struct {
	repo       *db.Repository
	s3Client   *storage.Client
	validator  *security.Validator
	opts       timelapse.Options
	workDir    string
	maxRetries int
}

// NewMachine creates a new FSM machine with dependencies. s3Client may be
// nil when only local inputs are processed.
func NewMachine(
	repo *db.Repository,
	s3Client *storage.Client,
	validator *security.Validator,
	opts timelapse.Options,
	workDir string,
	maxRetries int,
) *Machine {
	return &Machine{
		repo:       repo,
		s3Client:   s3Client,
		validator:  validator,
		opts:       opts,
		workDir:    workDir,
		maxRetries: maxRetries,
	}
}

// inputKey identifies a run across retries for idempotency checks.
func inputKey(req *ProcessRequest) string {
	if req.S3Key != "" {
		return "s3://" + req.S3Key
	}
	return req.InputPath
}

// handleCheckDB checks if the input was already processed (idempotency)
func (m *Machine) handleCheckDB(ctx context.Context, req *fsm.Request[ProcessRequest, ProcessResponse]) (*fsm.Response[ProcessResponse], error) {
	key := inputKey(req.Msg)
	slog.Info("fsm_state_check_db", "input", key)

	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "input", key, "max_retries", m.maxRetries)
		return nil, fsm.Abort(fmt.Errorf("max retries (%d) exceeded", m.maxRetries))
	}

	run, err := m.repo.GetLatestByInput(key)
	if err != nil {
		slog.Error("database_check_failed", "input", key, "error", err)
		return nil, fsm.Abort(errors.Wrap(err, "database error"))
	}

	resp := req.W.Msg
	if resp == nil {
		resp = &ProcessResponse{}
	}

	if run != nil && run.Status == db.StatusDone {
		// Already processed; skip to complete
		resp.RunID = run.ID
		resp.OutputPath = run.OutputPath
		resp.LayersDetected = run.LayersDetected
		resp.SnapshotCount = run.SnapshotCount
		resp.Status = run.Status
		slog.Info("run_already_done", "input", key, "run_id", run.ID, "output_path", run.OutputPath)
		return fsm.NewResponse(resp), nil
	}

	run = &db.Run{
		InputPath: key,
		Generator: req.Msg.Generator,
		Status:    db.StatusPending,
	}
	if err := m.repo.CreateRun(run); err != nil {
		slog.Error("create_run_failed", "input", key, "error", err)
		return nil, errors.Wrap(err, "failed to create run record")
	}
	resp.RunID = run.ID
	slog.Info("run_created", "input", key, "run_id", run.ID)

	return fsm.NewResponse(resp), nil
}

// handleFetch resolves the local G-code file, downloading from S3 if needed
func (m *Machine) handleFetch(ctx context.Context, req *fsm.Request[ProcessRequest, ProcessResponse]) (*fsm.Response[ProcessResponse], error) {
	key := inputKey(req.Msg)
	slog.Info("fsm_state_fetch", "input", key)

	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "input", key, "max_retries", m.maxRetries)
		return nil, fsm.Abort(fmt.Errorf("max retries (%d) exceeded", m.maxRetries))
	}

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if resp.Status == db.StatusDone {
		return fsm.NewResponse(resp), nil
	}

	if req.Msg.S3Key == "" {
		resp.LocalPath = req.Msg.InputPath
		if err := m.validator.ValidateFile(resp.LocalPath); err != nil {
			slog.Error("input_validation_failed", "path", resp.LocalPath, "error", err)
			m.repo.UpdateRunStatus(resp.RunID, db.StatusFailed, err.Error())
			return nil, fsm.Abort(err)
		}
		slog.Info("local_input_resolved", "path", resp.LocalPath)
		return fsm.NewResponse(resp), nil
	}

	if m.s3Client == nil {
		err := fmt.Errorf("S3 input requested but no bucket configured")
		m.repo.UpdateRunStatus(resp.RunID, db.StatusFailed, err.Error())
		return nil, fsm.Abort(err)
	}

	downloadDir := filepath.Join(m.workDir, "downloads")
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		slog.Error("download_dir_creation_failed", "path", downloadDir, "error", err)
		return nil, errors.Wrap(err, "failed to create download dir")
	}

	localPath := filepath.Join(downloadDir, filepath.Base(req.Msg.S3Key))
	result, err := m.s3Client.Fetch(ctx, req.Msg.S3Key, localPath)
	if err != nil {
		slog.Error("fetch_failed", "s3_key", req.Msg.S3Key, "error", err)
		return nil, errors.Wrap(err, "failed to fetch from S3")
	}

	resp.LocalPath = result.LocalPath
	resp.SHA256 = result.SHA256
	resp.FetchSize = result.Size

	if err := m.validator.ValidateFile(resp.LocalPath); err != nil {
		slog.Error("input_validation_failed", "path", resp.LocalPath, "error", err)
		m.repo.UpdateRunStatus(resp.RunID, db.StatusFailed, err.Error())
		return nil, fsm.Abort(err)
	}

	return fsm.NewResponse(resp), nil
}

// handleProcess runs the timelapse post-processor and writes the output file
func (m *Machine) handleProcess(ctx context.Context, req *fsm.Request[ProcessRequest, ProcessResponse]) (*fsm.Response[ProcessResponse], error) {
	key := inputKey(req.Msg)
	slog.Info("fsm_state_process", "input", key)

	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "input", key, "max_retries", m.maxRetries)
		return nil, fsm.Abort(fmt.Errorf("max retries (%d) exceeded", m.maxRetries))
	}

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if resp.Status == db.StatusDone {
		return fsm.NewResponse(resp), nil
	}

	if err := m.repo.UpdateRunStatus(resp.RunID, db.StatusProcessing, ""); err != nil {
		slog.Error("status_update_failed", "run_id", resp.RunID, "error", err)
		return nil, errors.Wrap(err, "failed to update status")
	}

	lines, err := m.readLines(resp.LocalPath)
	if err != nil {
		slog.Error("input_read_failed", "path", resp.LocalPath, "error", err)
		m.repo.UpdateRunStatus(resp.RunID, db.StatusFailed, err.Error())
		return nil, fsm.Abort(err)
	}

	result := timelapse.Process(lines, m.opts)

	outputPath := req.Msg.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(resp.LocalPath, req.Msg.Generator)
	}
	if err := writeLines(outputPath, result.Lines); err != nil {
		slog.Error("output_write_failed", "path", outputPath, "error", err)
		m.repo.UpdateRunStatus(resp.RunID, db.StatusFailed, err.Error())
		return nil, errors.Wrap(err, "failed to write output")
	}

	resp.OutputPath = outputPath
	resp.LayersDetected = result.LayersDetected
	resp.SnapshotCount = len(result.Snapshots)
	resp.Snapshots = resp.Snapshots[:0]
	for _, s := range result.Snapshots {
		resp.Snapshots = append(resp.Snapshots, SnapshotRecord{
			Sequence: s.Sequence,
			Layer:    s.Layer,
			X:        s.X,
			Y:        s.Y,
			Z:        s.Z,
		})
	}

	slog.Info("processing_done",
		"input", key,
		"output_path", outputPath,
		"layers_detected", resp.LayersDetected,
		"snapshot_count", resp.SnapshotCount,
	)

	return fsm.NewResponse(resp), nil
}

// handlePersist stores snapshot records and run results in the database
func (m *Machine) handlePersist(ctx context.Context, req *fsm.Request[ProcessRequest, ProcessResponse]) (*fsm.Response[ProcessResponse], error) {
	key := inputKey(req.Msg)
	slog.Info("fsm_state_persist", "input", key)

	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "input", key, "max_retries", m.maxRetries)
		return nil, fsm.Abort(fmt.Errorf("max retries (%d) exceeded", m.maxRetries))
	}

	resp := req.W.Msg
	if resp == nil {
		return nil, fsm.Abort(fmt.Errorf("response not initialized"))
	}

	if resp.Status == db.StatusDone {
		return fsm.NewResponse(resp), nil
	}

	snaps := make([]db.Snapshot, 0, len(resp.Snapshots))
	for _, s := range resp.Snapshots {
		snaps = append(snaps, db.Snapshot{
			RunID:    resp.RunID,
			Sequence: s.Sequence,
			Layer:    s.Layer,
			X:        s.X,
			Y:        s.Y,
			Z:        s.Z,
		})
	}
	if err := m.repo.InsertSnapshots(resp.RunID, snaps); err != nil {
		slog.Error("snapshot_persist_failed", "run_id", resp.RunID, "error", err)
		return nil, errors.Wrap(err, "failed to persist snapshots")
	}

	run, err := m.repo.GetRun(resp.RunID)
	if err != nil {
		return nil, fsm.Abort(errors.Wrap(err, "failed to load run"))
	}
	if run == nil {
		return nil, fsm.Abort(fmt.Errorf("run not found in database"))
	}
	run.OutputPath = resp.OutputPath
	run.LayersDetected = resp.LayersDetected
	run.SnapshotCount = resp.SnapshotCount
	if err := m.repo.UpdateRun(run); err != nil {
		slog.Error("run_update_failed", "run_id", run.ID, "error", err)
		return nil, errors.Wrap(err, "failed to update run")
	}

	return fsm.NewResponse(resp), nil
}

// handleComplete marks the run as done
func (m *Machine) handleComplete(ctx context.Context, req *fsm.Request[ProcessRequest, ProcessResponse]) (*fsm.Response[ProcessResponse], error) {
	key := inputKey(req.Msg)
	slog.Info("fsm_state_complete", "input", key)

	if retryCount := fsm.RetryFromContext(ctx); retryCount >= uint64(m.maxRetries) {
		slog.Error("max_retries_exceeded", "input", key, "max_retries", m.maxRetries)
		return nil, fsm.Abort(fmt.Errorf("max retries (%d) exceeded", m.maxRetries))
	}

	resp := req.W.Msg
	if resp == nil {
		resp = &ProcessResponse{}
	}

	if resp.Status != db.StatusDone {
		if err := m.repo.UpdateRunStatus(resp.RunID, db.StatusDone, ""); err != nil {
			slog.Error("status_update_failed", "run_id", resp.RunID, "error", err)
			return nil, errors.Wrap(err, "failed to update status")
		}
		resp.Status = db.StatusDone
	}

	slog.Info("fsm_complete", "input", key, "run_id", resp.RunID, "status", resp.Status)

	return fsm.NewResponse(resp), nil
}

// DefaultOutputPath derives the output file name from the input file and
// the generator name: model.gcode with orbit becomes model_orbit.gcode.
func DefaultOutputPath(inputPath, generator string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + "_" + generator + ext
}

// readLines reads a G-code file enforcing the validator's line limits.
func (m *Machine) readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), m.validator.MaxLineLength()+1)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if err := m.validator.ValidateLine(line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
		if err := m.validator.ValidateLineCount(len(lines)); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
