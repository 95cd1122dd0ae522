package macrunner

import (
	"context"
	"maps"
	"time"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/export"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/abhimishr/gcam-core/simulation"
	"github.com/abhimishr/gcam-core/usage"
	"github.com/abhimishr/gcam-core/watchdog"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/i/stg"
)

// Model is a facade whose fixed taxes can be dropped so the next run follows
// the scenario policy again.
type Model interface {
	simulation.Facade
	ClearTaxes()
}

type Option func(*options)

type options struct {
	observer        policycost.TrialObserver
	snapshotStorage curve.Storage
	outputStorage   stg.FileStorage
	exportOptions   []export.Option
	watchDogConfig  *watchdog.Config
}

func WithTrialObserver(observer policycost.TrialObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func WithSnapshotStorage(storage curve.Storage) Option {
	return func(o *options) {
		o.snapshotStorage = storage
	}
}

func WithOutputStorage(storage stg.FileStorage) Option {
	return func(o *options) {
		o.outputStorage = storage
	}
}

func WithExportOptions(opts ...export.Option) Option {
	return func(o *options) {
		o.exportOptions = append(o.exportOptions, opts...)
	}
}

// WithWatchDog reports trial runs that stay silent longer than
// cfg.CheckMaxDuration for cfg.CheckFailCount checks in a row.
func WithWatchDog(cfg watchdog.Config) Option {
	return func(o *options) {
		o.watchDogConfig = &cfg
	}
}

// Runner runs one scenario: the policy baseline, the cost curve sweep over
// it and the output of the result.
type Runner struct {
	logger l.Wrapper
	model  Model

	watchDog watchdog.WatchDog
	calc     *policycost.Calculator
	exporter *export.Exporter

	timings map[usage.Status]time.Duration
}

const (
	StatusBaseline usage.Status = "baseline"
	StatusSweep    usage.Status = "sweep"
	StatusExport   usage.Status = "export"
)

func NewRunner(model Model, cfg config.Config, logger l.Wrapper, opts ...Option) (*Runner, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	r := &Runner{
		logger: logger.WithFields(l.StringField(l.ClsKey, "Runner")),
		model:  model,
	}

	calcOpts := []policycost.Option{
		policycost.WithTrialObserver(o.observer),
		policycost.WithSnapshotStorage(o.snapshotStorage),
	}

	if o.watchDogConfig != nil {
		r.watchDog = watchdog.NewWatchDog(*o.watchDogConfig, &stallLogger{logger: r.logger})
		calcOpts = append(calcOpts, policycost.WithWatchDog(r.watchDog))
	}

	calc, err := policycost.NewCalculator(model, cfg.CostCurve, logger, calcOpts...)
	if err != nil {
		r.Close()

		return nil, err
	}

	r.calc = calc
	r.exporter = export.NewExporter(cfg.Output, o.outputStorage, logger, o.exportOptions...)

	return r, nil
}

// Run solves the baseline, computes the policy cost curves over it and
// exports them. The bool is false when the baseline or any trial did not
// solve; output is still produced from what was computed.
func (r *Runner) Run(ctx context.Context) (success bool, err error) {
	timeUsage := usage.NewTimeUsage()
	start := time.Now()

	defer func() {
		r.timings = timeUsage.Statistics(start, time.Now())

		logger := r.logger.WithFields(l.StringField("scenario", r.model.GetName()),
			l.StringField("elapsed", time.Since(start).String()))
		for _, status := range []usage.Status{StatusBaseline, StatusSweep, StatusExport} {
			logger = logger.WithFields(l.StringField(string(status), r.timings[status].String()))
		}

		logger.Info("scenario finished")
	}()

	r.model.ClearTaxes()

	timeUsage.Update(StatusBaseline)

	success = r.model.Run(ctx, simulation.RunAllPeriods, false, "")
	if !success {
		r.logger.WithFields(l.StringField("scenario", r.model.GetName())).Warn("baseline did not solve")
	}

	timeUsage.Update(StatusSweep)

	calcOK, err := r.calc.CalculateAbatementCostCurve(ctx)

	r.model.ClearTaxes()

	if err != nil {
		success = false

		return
	}

	success = success && calcOK

	timeUsage.Update(StatusExport)

	err = r.exporter.Export(ctx, r.calc)

	return
}

// Timings splits the wall time of the last Run by phase.
func (r *Runner) Timings() map[usage.Status]time.Duration {
	return maps.Clone(r.timings)
}

func (r *Runner) Result() (*policycost.Result, bool) {
	return r.calc.Result()
}

func (r *Runner) Close() {
	if r.watchDog != nil {
		r.watchDog.Close()
	}
}

type stallLogger struct {
	logger l.Wrapper
}

func (n *stallLogger) NotifyTimeout(name string, idle time.Duration) {
	n.logger.WithFields(l.StringField("watchDog", name), l.StringField("idle", idle.String())).
		Warn("cost curve trial looks stalled")
}
