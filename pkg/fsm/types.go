package fsm

// ProcessRequest is the FSM input. Exactly one of InputPath or S3Key is
// the source; when S3Key is set the file is fetched from the bucket first.
type ProcessRequest struct {
	InputPath  string
	S3Key      string
	OutputPath string
	Generator  string
}

// ProcessResponse is the FSM output (accumulated across transitions)
type ProcessResponse struct {
	// From CheckDB
	RunID int64

	// From Fetch
	LocalPath string
	SHA256    string
	FetchSize int64

	// From Process
	OutputPath     string
	LayersDetected int
	SnapshotCount  int

	// Snapshot records carried to the persist state
	Snapshots []SnapshotRecord

	// From Complete/Failed
	Status       string
	ErrorMessage string
}

// SnapshotRecord is the serializable form of one injected snapshot.
type SnapshotRecord struct {
	Sequence int
	Layer    int
	X, Y, Z  float64
}

// State names
const (
	StateCheckDB  = "check_db"
	StateFetch    = "fetch"
	StateProcess  = "process"
	StatePersist  = "persist"
	StateComplete = "complete"
	StateFailed   = "failed"
)
