package timelapse

// fallbackStride is the constant layer interval used when the total layer
// count is unknown.
const fallbackStride = 5

// Scheduler decides which layer boundaries get a snapshot and assigns each
// an even progress fraction. With a known total T and N > 1 snapshots,
// targets are spaced across the layer index range and walked forward
// greedily; with an unknown total it falls back to a constant stride.
type Scheduler struct {
	n        int
	floor    int
	interval float64
	next     float64
	taken    int
}

// NewScheduler builds a scheduler for the requested count n, first eligible
// layer floor, and total layer count (zero means unknown).
func NewScheduler(n, floor, totalLayers int) *Scheduler {
	if n < 0 {
		n = 0
	}
	if floor < 0 {
		floor = 0
	}
	s := &Scheduler{n: n, floor: floor, next: float64(floor), interval: fallbackStride}
	if totalLayers > 0 && n > 1 {
		iv := float64(totalLayers-1-floor) / float64(n-1)
		if iv < 1 {
			iv = 1
		}
		s.interval = iv
	}
	return s
}

// Accept reports whether the given layer index gets a snapshot, and if so
// the progress fraction t_k = k/max(1, N-1) for the k-th acceptance. Layers
// below the floor never qualify; once N snapshots are handed out, every
// further event is refused. Callers feed strictly increasing layer indices,
// so no two acceptances can share an index.
func (s *Scheduler) Accept(layer int) (float64, bool) {
	if s.taken >= s.n || layer < s.floor {
		return 0, false
	}
	if s.n > 1 && float64(layer)+1e-9 < s.next {
		return 0, false
	}

	k := s.taken
	s.taken++
	s.next += s.interval
	if s.next <= float64(layer) {
		s.next = float64(layer) + s.interval
	}

	div := s.n - 1
	if div < 1 {
		div = 1
	}
	return float64(k) / float64(div), true
}

// Taken returns how many snapshots have been accepted so far.
func (s *Scheduler) Taken() int { return s.taken }
