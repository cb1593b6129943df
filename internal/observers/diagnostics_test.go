package observers

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/drivers"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/state"
)

// spinWorld returns a registry with a live rotation block and the matching
// context.
func spinWorld(t *testing.T, omega float64) (*engine.Registry, *engine.Context, *state.Rotation) {
	t.Helper()
	rot := state.NewRotation()
	rot.SetOmega(omega)
	reg := engine.NewRegistry()
	reg.Register(engine.Spin, rot)
	ctx := &engine.Context{Structure: star.Canonical(), Physics: star.DefaultPhysics()}
	return reg, ctx, rot
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(lines)+1, err)
		}
		lines = append(lines, m)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestDiagnosticsStream(t *testing.T) {
	reg, ctx, rot := spinWorld(t, 100)
	path := filepath.Join(t.TempDir(), "diag.jsonl")

	obs := NewDiagnostics(path, Schedule{}, []engine.Driver{drivers.NewSpindown()})
	if err := obs.OnStart(engine.RunInfo{T0: 0, TF: 100, RunID: "test-run"}, reg, ctx); err != nil {
		t.Fatalf("OnStart: %v", err)
	}

	for i := 0; i < 3; i++ {
		rot.SetOmega(100 - float64(i))
		info := engine.SampleInfo{Time: float64(i), Sample: i, Step: i}
		if err := obs.OnSample(info, reg, ctx); err != nil {
			t.Fatalf("OnSample %d: %v", i, err)
		}
	}
	if err := obs.OnFinish(engine.FinishInfo{Time: 2, Success: true}, reg, ctx); err != nil {
		t.Fatalf("OnFinish: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	first := lines[0]
	if first["schema"] != "compactstar.diag.packet" {
		t.Errorf("schema = %v", first["schema"])
	}
	if first["producer"] != "driver.spindown" {
		t.Errorf("producer = %v", first["producer"])
	}
	if first["run_id"] != "test-run" {
		t.Errorf("run_id = %v", first["run_id"])
	}

	scalars, ok := first["scalars"].(map[string]any)
	if !ok {
		t.Fatal("scalars missing")
	}
	wdot, ok := scalars["omega_dot"].(map[string]any)
	if !ok {
		t.Fatal("omega_dot missing from first line")
	}
	if unitOK, ok := wdot["unit_ok"].(bool); !ok || !unitOK {
		t.Errorf("omega_dot unit_ok = %v, want true", wdot["unit_ok"])
	}
}

// TestDiagnosticsCadenceAcrossSamples checks that a once_per_run scalar
// appears on the first line and is absent from later lines.
func TestDiagnosticsCadenceAcrossSamples(t *testing.T) {
	reg, ctx, _ := spinWorld(t, 100)
	path := filepath.Join(t.TempDir(), "diag.jsonl")

	obs := NewDiagnostics(path, Schedule{}, []engine.Driver{drivers.NewSpindown()})
	if err := obs.OnStart(engine.RunInfo{RunID: "cadence"}, reg, ctx); err != nil {
		t.Fatalf("OnStart: %v", err)
	}
	for i := 0; i < 2; i++ {
		info := engine.SampleInfo{Time: float64(i), Sample: i, Step: i}
		if err := obs.OnSample(info, reg, ctx); err != nil {
			t.Fatalf("OnSample %d: %v", i, err)
		}
	}
	obs.OnFinish(engine.FinishInfo{}, reg, ctx)

	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	firstScalars := lines[0]["scalars"].(map[string]any)
	if _, ok := firstScalars["braking_index"]; !ok {
		t.Error("braking_index should appear on the first sample")
	}
	secondScalars := lines[1]["scalars"].(map[string]any)
	if _, ok := secondScalars["braking_index"]; ok {
		t.Error("once_per_run scalar repeated on the second sample")
	}
}

func TestDiagnosticsSchedulePrunesSamples(t *testing.T) {
	reg, ctx, _ := spinWorld(t, 100)
	path := filepath.Join(t.TempDir(), "diag.jsonl")

	obs := NewDiagnostics(path, Schedule{EverySamples: 2}, []engine.Driver{drivers.NewSpindown()})
	if err := obs.OnStart(engine.RunInfo{RunID: "sched"}, reg, ctx); err != nil {
		t.Fatalf("OnStart: %v", err)
	}
	for i := 0; i < 5; i++ {
		info := engine.SampleInfo{Time: float64(i), Sample: i, Step: i}
		if err := obs.OnSample(info, reg, ctx); err != nil {
			t.Fatalf("OnSample %d: %v", i, err)
		}
	}
	obs.OnFinish(engine.FinishInfo{}, reg, ctx)

	// Samples 0, 2, 4 pass the modulus.
	if lines := readLines(t, path); len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
}

func TestDiagnosticsAppendMode(t *testing.T) {
	reg, ctx, _ := spinWorld(t, 100)
	path := filepath.Join(t.TempDir(), "diag.jsonl")

	run := func(appendTo bool, runID string) {
		obs := NewDiagnostics(path, Schedule{}, []engine.Driver{drivers.NewSpindown()})
		obs.SetAppend(appendTo)
		if err := obs.OnStart(engine.RunInfo{RunID: runID}, reg, ctx); err != nil {
			t.Fatalf("OnStart: %v", err)
		}
		if err := obs.OnSample(engine.SampleInfo{}, reg, ctx); err != nil {
			t.Fatalf("OnSample: %v", err)
		}
		obs.OnFinish(engine.FinishInfo{}, reg, ctx)
	}

	run(false, "first")
	run(true, "second")
	lines := readLines(t, path)
	if len(lines) != 2 {
		t.Fatalf("got %d lines after append, want 2", len(lines))
	}
	if lines[0]["run_id"] != "first" || lines[1]["run_id"] != "second" {
		t.Errorf("run ids = %v, %v", lines[0]["run_id"], lines[1]["run_id"])
	}

	run(false, "third") // truncate mode starts over
	if lines := readLines(t, path); len(lines) != 1 {
		t.Errorf("got %d lines after truncate, want 1", len(lines))
	}
}

func TestDiagnosticsSkipsNonDiagnosers(t *testing.T) {
	obs := NewDiagnostics("unused", Schedule{}, []engine.Driver{plainDriver{}})
	if len(obs.Catalog().Producers()) != 0 {
		t.Error("driver without diagnostics support should contribute nothing")
	}
}

// plainDriver implements Driver but not Diagnoser.
type plainDriver struct{}

func (plainDriver) Name() string            { return "plain" }
func (plainDriver) DependsOn() []engine.Tag { return nil }
func (plainDriver) Updates() []engine.Tag   { return nil }
func (plainDriver) AccumulateRHS(float64, *engine.Registry, *engine.Accumulator, *engine.Context) error {
	return nil
}
