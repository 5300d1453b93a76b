package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhasePheromones)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMovement)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if _, ok := stats.PhaseAvg[PhasePheromones]; !ok {
		t.Error("expected pheromones phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseMovement]; !ok {
		t.Error("expected movement phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseMovement)
		time.Sleep(10 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgStepDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseMovement: 80},
	}
	row := s.ToCSV(3)
	if row.Generation != 3 || row.AvgStepUS != 1500 || row.MovementPct != 80 {
		t.Errorf("unexpected CSV row: %+v", row)
	}
}

func TestPerfCollector_PhaseItems(t *testing.T) {
	pc := NewPerfCollector(4)

	for i := 0; i < 4; i++ {
		pc.StartStep()
		pc.StartPhase(PhasePheromones)
		pc.AddItems(PhasePheromones, i)
		pc.StartPhase(PhaseMovement)
		pc.AddItems(PhaseMovement, 10)
		pc.EndStep()
	}

	stats := pc.Stats()
	if got := stats.PhaseItems[PhasePheromones]; got != 1.5 {
		t.Errorf("pheromone samples per step = %v, want 1.5", got)
	}
	if got := stats.PhaseItems[PhaseMovement]; got != 10 {
		t.Errorf("agents moved per step = %v, want 10", got)
	}

	row := stats.ToCSV(1)
	if row.PheromoneSamples != 1.5 || row.AgentsMoved != 10 {
		t.Errorf("unexpected CSV row: %+v", row)
	}
}
