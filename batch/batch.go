package batch

import (
	"context"
	"time"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/macrunner"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
)

const (
	defaultOutcomeTTL = time.Hour
)

// Job names a scenario and builds the model it runs on. Each job gets a
// model of its own.
type Job struct {
	Name     string
	NewModel func() (macrunner.Model, error)
}

type Outcome struct {
	Scenario string
	Success  bool
	Err      error
	Result   *policycost.Result
	Elapsed  time.Duration
}

// Batch runs independent scenarios side by side and remembers their
// outcomes for a while.
type Batch struct {
	logger  l.Wrapper
	cfg     config.Config
	opts    []macrunner.Option
	workers int

	outcomes *cache.Cache
}

// NewBatch runs at most workers scenarios at once, all of them when workers
// is not positive.
func NewBatch(cfg config.Config, workers int, logger l.Wrapper, opts ...macrunner.Option) *Batch {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &Batch{
		logger:   logger.WithFields(l.StringField(l.ClsKey, "Batch")),
		cfg:      cfg,
		opts:     opts,
		workers:  workers,
		outcomes: cache.New(defaultOutcomeTTL, defaultOutcomeTTL),
	}
}

// Run returns the outcomes in job order once every job has finished.
func (b *Batch) Run(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	workers := b.workers
	if workers <= 0 || workers > len(jobs) {
		workers = len(jobs)
	}

	slots := make(chan struct{}, workers)

	routineMan := routineman.NewRoutineMan(ctx, b.logger)

	for idx, job := range jobs {
		idx, job := idx, job

		routineMan.StartRoutine(func(ctx context.Context, _ func() bool) {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				outcomes[idx] = Outcome{Scenario: job.Name, Err: ctx.Err()}

				return
			}

			defer func() {
				<-slots
			}()

			outcomes[idx] = b.runJob(ctx, job)
		}, "scenario-"+job.Name)
	}

	routineMan.Wait()

	for _, outcome := range outcomes {
		b.outcomes.Set(outcome.Scenario, outcome, cache.DefaultExpiration)
	}

	return outcomes
}

func (b *Batch) Outcome(scenario string) (outcome Outcome, ok bool) {
	v, ok := b.outcomes.Get(scenario)
	if !ok {
		return
	}

	outcome, ok = v.(Outcome)

	return
}

func (b *Batch) runJob(ctx context.Context, job Job) (outcome Outcome) {
	start := time.Now()

	outcome.Scenario = job.Name

	defer func() {
		outcome.Elapsed = time.Since(start)
	}()

	model, err := job.NewModel()
	if err != nil {
		outcome.Err = err

		return
	}

	runner, err := macrunner.NewRunner(model, b.cfg, b.logger, b.opts...)
	if err != nil {
		outcome.Err = err

		return
	}
	defer runner.Close()

	outcome.Success, outcome.Err = runner.Run(ctx)
	outcome.Result, _ = runner.Result()

	if outcome.Err != nil {
		b.logger.WithFields(l.ErrorField(outcome.Err), l.StringField("scenario", job.Name)).Error("scenario failed")
	}

	return
}
