package observers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

// NaNToken is written for any column that fails to resolve at a sample.
const NaNToken = "nan"

// Builtin column keys resolved from sample metadata rather than the catalog.
const (
	ColTime   = "time"
	ColSample = "sample"
	ColStep   = "step"
)

// TimeSeries writes one delimited row per eligible sample, columns in
// declared order. Columns are either builtins or catalog-resolved driver
// scalars; a column that cannot be resolved yields the nan token instead of
// failing the row.
type TimeSeries struct {
	path      string
	sidecar   string
	delimiter rune
	precision int
	noHeader  bool
	schedule  Schedule
	columns   []string

	diagnosers map[string]engine.Diagnoser // producer -> diagnoser
	catalog    *diag.Catalog

	f *os.File
	w *csv.Writer
}

// NewTimeSeries builds the table writer over the run's driver list. With an
// empty column list, columns are auto-populated from every catalog profile
// named profile, with time and sample-index builtins prepended.
func NewTimeSeries(path string, schedule Schedule, drivers []engine.Driver, columns []string, profile string) *TimeSeries {
	ts := &TimeSeries{
		path:       path,
		delimiter:  ',',
		precision:  -1,
		schedule:   schedule,
		columns:    columns,
		diagnosers: make(map[string]engine.Diagnoser),
		catalog:    diag.NewCatalog(),
	}
	for _, drv := range drivers {
		if dg, ok := drv.(engine.Diagnoser); ok {
			ts.diagnosers[dg.DiagnosticsName()] = dg
			dg.DescribeScalars(ts.catalog)
		}
	}
	if len(ts.columns) == 0 {
		ts.columns = ts.autoColumns(profile)
	}
	return ts
}

// SetDelimiter switches the field separator (',' for CSV, '\t' for TSV).
func (ts *TimeSeries) SetDelimiter(d rune) { ts.delimiter = d }

// SetPrecision fixes the floating-point output precision (strconv 'g').
func (ts *TimeSeries) SetPrecision(p int) { ts.precision = p }

// SuppressHeader drops the header row.
func (ts *TimeSeries) SuppressHeader() { ts.noHeader = true }

// SetSidecar enables the JSON metadata sidecar describing each column.
func (ts *TimeSeries) SetSidecar(path string) { ts.sidecar = path }

// Columns returns the resolved column order.
func (ts *TimeSeries) Columns() []string { return ts.columns }

// autoColumns derives the column list from the catalog's named profiles,
// keeping producer order lexicographic for determinism. Keys shared by
// several profiles appear once, at their first position.
func (ts *TimeSeries) autoColumns(profile string) []string {
	cols := []string{ColTime, ColSample}
	seen := map[string]bool{ColTime: true, ColSample: true}
	add := func(keys []string) {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	for _, producer := range ts.catalog.Producers() {
		p, _ := ts.catalog.Producer(producer)
		if profile != "" {
			if pr, ok := p.Profile(profile); ok {
				add(pr.Keys)
			}
			continue
		}
		for _, pr := range p.Profiles {
			add(pr.Keys)
		}
	}
	return cols
}

type sidecarColumn struct {
	Key         string `json:"key"`
	Source      string `json:"source"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

func (ts *TimeSeries) writeSidecar() error {
	cols := make([]sidecarColumn, 0, len(ts.columns))
	for _, key := range ts.columns {
		switch key {
		case ColTime:
			cols = append(cols, sidecarColumn{Key: key, Source: "builtin", Unit: "s", Description: "simulated time"})
		case ColSample:
			cols = append(cols, sidecarColumn{Key: key, Source: "builtin", Description: "monotonic sample index"})
		case ColStep:
			cols = append(cols, sidecarColumn{Key: key, Source: "builtin", Description: "integrator step index"})
		default:
			producer, d, ok := ts.catalog.Find(key)
			if !ok {
				cols = append(cols, sidecarColumn{Key: key, Source: "unresolved"})
				continue
			}
			cols = append(cols, sidecarColumn{Key: key, Source: producer, Unit: d.Unit, Description: d.Description})
		}
	}
	f, err := os.Create(ts.sidecar)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cols)
}

func (ts *TimeSeries) OnStart(info engine.RunInfo, _ *engine.Registry, _ *engine.Context) error {
	f, err := os.Create(ts.path)
	if err != nil {
		return fmt.Errorf("observers: open time-series table: %w", err)
	}
	ts.f = f
	ts.w = csv.NewWriter(f)
	ts.w.Comma = ts.delimiter
	ts.schedule.Reset()

	if ts.sidecar != "" {
		if err := ts.writeSidecar(); err != nil {
			return fmt.Errorf("observers: write sidecar: %w", err)
		}
	}
	if !ts.noHeader {
		if err := ts.w.Write(ts.columns); err != nil {
			return err
		}
	}
	return nil
}

func (ts *TimeSeries) OnSample(info engine.SampleInfo, state *engine.Registry, ctx *engine.Context) error {
	if ts.w == nil || !ts.schedule.Eligible(info) {
		return nil
	}

	// One snapshot per producer per row, shared across its columns.
	packets := make(map[string]*diag.Packet)
	snapshot := func(producer string) *diag.Packet {
		if p, ok := packets[producer]; ok {
			return p
		}
		dg, ok := ts.diagnosers[producer]
		if !ok {
			return nil
		}
		p := diag.NewPacket(producer, info.Time, info.Step)
		dg.DiagnoseSnapshot(info.Time, state, ctx, p)
		packets[producer] = p
		return p
	}

	row := make([]string, len(ts.columns))
	for i, key := range ts.columns {
		switch key {
		case ColTime:
			row[i] = ts.format(info.Time)
		case ColSample:
			row[i] = strconv.Itoa(info.Sample)
		case ColStep:
			row[i] = strconv.Itoa(info.Step)
		default:
			row[i] = NaNToken
			producer, _, ok := ts.catalog.Find(key)
			if !ok {
				continue
			}
			p := snapshot(producer)
			if p == nil {
				continue
			}
			if s, ok := p.Scalar(key); ok && !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0) {
				row[i] = ts.format(s.Value)
			}
		}
	}

	if err := ts.w.Write(row); err != nil {
		return err
	}
	ts.w.Flush()
	return ts.w.Error()
}

func (ts *TimeSeries) OnFinish(info engine.FinishInfo, _ *engine.Registry, _ *engine.Context) error {
	if ts.w == nil {
		return nil
	}
	ts.w.Flush()
	err := ts.w.Error()
	if cerr := ts.f.Close(); err == nil {
		err = cerr
	}
	ts.f, ts.w = nil, nil
	return err
}

func (ts *TimeSeries) format(v float64) string {
	return strconv.FormatFloat(v, 'g', ts.precision, 64)
}
