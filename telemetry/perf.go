package telemetry

import (
	"log/slog"
	"time"
)

// Step phases, in execution order.
const (
	PhasePheromones = "pheromones"
	PhaseMovement   = "movement"
	PhaseObserve    = "observe"
)

// PerfSample is the timing and workload of one step.
type PerfSample struct {
	StepDuration time.Duration
	Phases       map[string]time.Duration
	Items        map[string]int // work units handled per phase
}

// PerfCollector keeps the last windowSize step samples in a ring buffer.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentItems  map[string]int
	stepStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector sizes the ring to windowSize steps, usually one lifespan.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 20
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		currentItems:  make(map[string]int),
	}
}

// StartStep opens a sample.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentItems = make(map[string]int)
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and opens the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// AddItems records n work units for a phase of the open step: pheromone
// samples emitted, agents moved.
func (p *PerfCollector) AddItems(phase string, n int) {
	p.currentItems[phase] += n
}

// EndStep closes the running phase and stores the sample.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		StepDuration: now.Sub(p.stepStart),
		Phases:       p.currentPhases,
		Items:        p.currentItems,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average step

	// PhaseItems is the average work units per step for each phase.
	PhaseItems map[string]float64

	StepsPerSecond float64
}

// Stats summarizes the window. An empty window yields zero values with
// non-nil maps.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:   make(map[string]time.Duration),
			PhasePct:   make(map[string]float64),
			PhaseItems: make(map[string]float64),
		}
	}

	var total, minStep, maxStep time.Duration
	phaseSum := make(map[string]time.Duration)
	itemSum := make(map[string]int)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.StepDuration

		if i == 0 || s.StepDuration < minStep {
			minStep = s.StepDuration
		}
		if s.StepDuration > maxStep {
			maxStep = s.StepDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
		for phase, n := range s.Items {
			itemSum[phase] += n
		}
	}

	n := time.Duration(p.sampleCount)
	avg := total / n

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / n
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	phaseItems := make(map[string]float64)
	for phase, sum := range itemSum {
		phaseItems[phase] = float64(sum) / float64(p.sampleCount)
	}

	var stepsPerSec float64
	if avg > 0 {
		stepsPerSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgStepDuration: avg,
		MinStepDuration: minStep,
		MaxStepDuration: maxStep,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		PhaseItems:      phaseItems,
		StepsPerSecond:  stepsPerSec,
	}
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
		slog.Float64("pheromone_samples", s.PhaseItems[PhasePheromones]),
		slog.Float64("agents_moved", s.PhaseItems[PhaseMovement]),
	}
	for _, phase := range []string{PhasePheromones, PhaseMovement, PhaseObserve} {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Generation       int     `csv:"generation"`
	AvgStepUS        int64   `csv:"avg_step_us"`
	MinStepUS        int64   `csv:"min_step_us"`
	MaxStepUS        int64   `csv:"max_step_us"`
	StepsPerSec      float64 `csv:"steps_per_sec"`
	PheromoneSamples float64 `csv:"pheromone_samples"`
	AgentsMoved      float64 `csv:"agents_moved"`
	PheromonesPct    float64 `csv:"pheromones_pct"`
	MovementPct      float64 `csv:"movement_pct"`
	ObservePct       float64 `csv:"observe_pct"`
}

// ToCSV flattens the stats for a generation into a CSV row.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:       generation,
		AvgStepUS:        s.AvgStepDuration.Microseconds(),
		MinStepUS:        s.MinStepDuration.Microseconds(),
		MaxStepUS:        s.MaxStepDuration.Microseconds(),
		StepsPerSec:      s.StepsPerSecond,
		PheromoneSamples: s.PhaseItems[PhasePheromones],
		AgentsMoved:      s.PhaseItems[PhaseMovement],
		PheromonesPct:    s.PhasePct[PhasePheromones],
		MovementPct:      s.PhasePct[PhaseMovement],
		ObservePct:       s.PhasePct[PhaseObserve],
	}
}
