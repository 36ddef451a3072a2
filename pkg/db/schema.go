package db

// Schema defines the SQLite schema for processed runs. Each run row records
// one processing invocation; snapshot rows are the append-only records a
// viewer consumes, ordered by sequence_index.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input_path TEXT NOT NULL,
    output_path TEXT,
    generator TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'processing', 'done', 'failed')),
    layers_detected INTEGER NOT NULL DEFAULT 0,
    snapshot_count INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_input_path ON runs(input_path);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    sequence_index INTEGER NOT NULL,
    layer_index INTEGER NOT NULL,
    x REAL NOT NULL,
    y REAL NOT NULL,
    z REAL NOT NULL,
    UNIQUE(run_id, sequence_index)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id);
`

// Status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Run represents one processing invocation.
type Run struct {
	ID             int64
	InputPath      string
	OutputPath     string
	Generator      string
	Status         string
	LayersDetected int
	SnapshotCount  int
	ErrorMessage   string
	CreatedAt      string
	UpdatedAt      string
}

// Snapshot is the persisted form of a timelapse.SnapshotRecord.
type Snapshot struct {
	ID       int64
	RunID    int64
	Sequence int
	Layer    int
	X, Y, Z  float64
}
