// Package sim owns the outer integration loop: lifecycle notification,
// stepping, bounds, and cancellation.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/integrators"
)

// ErrStepBudget indicates MaxSteps ran out before reaching TF.
var ErrStepBudget = errors.New("sim: step budget exhausted")

// Config bounds one run. TF and either MaxSteps or the time span terminate
// it; Tolerance only matters for adaptive integrators.
type Config struct {
	T0        float64
	TF        float64
	Dt        float64 // initial (adaptive) or fixed step
	MaxDt     float64
	Tolerance float64
	MaxSteps  int
	RunID     string
	Validate  bool // abort on non-finite flat state after a step
}

func DefaultConfig() Config {
	return Config{
		T0:        0,
		TF:        3.15e10, // ~1000 yr
		Dt:        1e4,
		MaxDt:     1e9,
		Tolerance: 1e-8,
		MaxSteps:  2_000_000,
		RunID:     "run",
		Validate:  true,
	}
}

// Result is the in-memory record of one run, kept for the CLI summary and
// plotting; the observers own the durable output.
type Result struct {
	Times   []float64
	States  [][]float64
	Steps   int
	Success bool
	Message string
}

// Final returns the last recorded flat state.
func (r *Result) Final() []float64 {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Runner drives the RHS through an integrator, firing lifecycle
// notifications at start, after every accepted step, and at finish.
type Runner struct {
	rhs   *engine.RHS
	integ integrators.Integrator
	log   *slog.Logger
}

func New(rhs *engine.RHS, integ integrators.Integrator) *Runner {
	return &Runner{rhs: rhs, integ: integ, log: slog.Default()}
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.TF <= cfg.T0 {
		return fmt.Errorf("sim: tf %g must exceed t0 %g", cfg.TF, cfg.T0)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("sim: max steps must be positive, got %d", cfg.MaxSteps)
	}
	return nil
}

// Run integrates from cfg.T0 to cfg.TF. The returned Result is valid even on
// error; NotifyFinish has always fired by the time Run returns.
func (r *Runner) Run(ctx context.Context, y0 []float64, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}
	if len(y0) != r.rhs.Dim() {
		return nil, fmt.Errorf("sim: initial state has %d components, layout needs %d",
			len(y0), r.rhs.Dim())
	}

	y := append([]float64(nil), y0...)
	t := cfg.T0
	dt := cfg.Dt
	result := &Result{}

	if err := r.rhs.NotifyStart(engine.RunInfo{T0: cfg.T0, TF: cfg.TF, RunID: cfg.RunID}, y); err != nil {
		return result, err
	}

	finish := func(success bool, msg string) error {
		result.Success = success
		result.Message = msg
		return r.rhs.NotifyFinish(engine.FinishInfo{Time: t, Success: success, Message: msg}, y)
	}

	record := func(sample int) error {
		result.Times = append(result.Times, t)
		result.States = append(result.States, append([]float64(nil), y...))
		return r.rhs.NotifySample(engine.SampleInfo{Time: t, Sample: sample, Step: result.Steps}, y)
	}

	if err := record(0); err != nil {
		finish(false, "observer failed at start")
		return result, err
	}

	adaptive, _ := r.integ.(integrators.Adaptive)
	sample := 0

	for t < cfg.TF {
		select {
		case <-ctx.Done():
			ferr := finish(false, "canceled")
			if ferr != nil {
				return result, ferr
			}
			return result, ctx.Err()
		default:
		}

		if result.Steps >= cfg.MaxSteps {
			budget := fmt.Errorf("%w: %d steps at t=%g", ErrStepBudget, cfg.MaxSteps, t)
			if ferr := finish(false, budget.Error()); ferr != nil {
				return result, ferr
			}
			return result, budget
		}

		step := math.Min(dt, cfg.TF-t)
		var yNew []float64
		var err error
		if adaptive != nil {
			var taken, next float64
			yNew, taken, next, err = adaptive.StepAdaptive(r.rhs.Eval, y, t, step, cfg.Tolerance)
			if err == nil {
				// A rejected-and-retried step advances less than requested.
				step = taken
				dt = next
				if cfg.MaxDt > 0 {
					dt = math.Min(dt, cfg.MaxDt)
				}
			}
		} else {
			yNew, err = r.integ.Step(r.rhs.Eval, y, t, step)
		}
		if err != nil {
			finish(false, err.Error())
			return result, err
		}

		if cfg.Validate && !engine.CheckFinite("flat", yNew) {
			err := fmt.Errorf("sim: non-finite state at t=%g", t)
			finish(false, err.Error())
			return result, err
		}

		t += step
		y = yNew
		result.Steps++
		sample++
		if err := record(sample); err != nil {
			finish(false, "observer failed mid-run")
			return result, err
		}
	}

	r.log.Info("run complete", "run_id", cfg.RunID, "t_final", t, "steps", result.Steps)
	return result, finish(true, "reached tf")
}
