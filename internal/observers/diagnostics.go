package observers

import (
	"fmt"
	"os"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

// Diagnostics records one JSON line per diagnostics-capable driver at each
// eligible sample, after cadence filtering and basic validation.
type Diagnostics struct {
	path     string
	appendTo bool
	schedule Schedule
	filter   *diag.CadenceFilter

	diagnosers []engine.Diagnoser
	catalog    *diag.Catalog

	f     *os.File
	runID string
}

// NewDiagnostics builds the observer from the run's driver list, keeping the
// drivers that implement [engine.Diagnoser] and assembling their merged
// catalog. The output file opens at run start; open failure is fatal there.
func NewDiagnostics(path string, schedule Schedule, drivers []engine.Driver) *Diagnostics {
	d := &Diagnostics{
		path:     path,
		schedule: schedule,
		filter:   diag.NewCadenceFilter(0),
		catalog:  diag.NewCatalog(),
	}
	for _, drv := range drivers {
		if dg, ok := drv.(engine.Diagnoser); ok {
			d.diagnosers = append(d.diagnosers, dg)
			dg.DescribeScalars(d.catalog)
		}
	}
	return d
}

// SetAppend switches the output stream from truncate to append mode.
func (d *Diagnostics) SetAppend(appendTo bool) { d.appendTo = appendTo }

// Catalog returns the merged schema of every diagnostics-capable driver.
func (d *Diagnostics) Catalog() *diag.Catalog { return d.catalog }

func (d *Diagnostics) OnStart(info engine.RunInfo, _ *engine.Registry, _ *engine.Context) error {
	flags := os.O_CREATE | os.O_WRONLY
	if d.appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(d.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("observers: open diagnostics stream: %w", err)
	}
	d.f = f
	d.runID = info.RunID
	d.filter.Reset()
	d.schedule.Reset()
	return nil
}

func (d *Diagnostics) OnSample(info engine.SampleInfo, state *engine.Registry, ctx *engine.Context) error {
	if d.f == nil || !d.schedule.Eligible(info) {
		return nil
	}
	for _, dg := range d.diagnosers {
		p := diag.NewPacket(dg.DiagnosticsName(), info.Time, info.Step)
		for _, line := range dg.UnitContract() {
			p.AddContractLine(line)
		}
		dg.DiagnoseSnapshot(info.Time, state, ctx, p)
		d.filter.Apply(p)
		p.ValidateBasic()
		if err := p.WriteLine(d.f, d.runID, d.catalog); err != nil {
			return err
		}
	}
	return d.f.Sync()
}

func (d *Diagnostics) OnFinish(info engine.FinishInfo, state *engine.Registry, ctx *engine.Context) error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
