package progress

// Aggregator folds phase-local percentages into one end-to-end percentage.
// A single-phase job reports 0-100 directly; a two-phase job maps phase 1
// into [0, 50] and phase 2 into [50, 100].
type Aggregator struct {
	phases int
}

// NewAggregator creates an aggregator for a job with the given number of
// phases. Anything other than two is treated as a single phase.
func NewAggregator(phases int) Aggregator {
	if phases != 2 {
		phases = 1
	}
	return Aggregator{phases: phases}
}

// Phases returns the number of phases of the job
func (a Aggregator) Phases() int {
	return a.phases
}

// Scale maps a phase-local percent (phase is 1-based) to the job percent
func (a Aggregator) Scale(phase int, percent float64) float64 {
	percent = min(max(percent, 0), 100)
	if a.phases == 1 {
		return percent
	}

	share := 100 / float64(a.phases)
	phase = min(max(phase, 1), a.phases)
	return float64(phase-1)*share + percent*share/100
}

// Boundary returns the value emitted once a phase has completed. The last
// phase always ends at exactly 100.
func (a Aggregator) Boundary(phase int) float64 {
	if phase >= a.phases {
		return 100
	}
	return a.Scale(phase, 100)
}
