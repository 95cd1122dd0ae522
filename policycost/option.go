package policycost

import (
	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/watchdog"
)

type Option func(c *Calculator)

// WithWatchDog starts the dog for the sweep and touches it after every trial.
func WithWatchDog(dog watchdog.WatchDog) Option {
	return func(c *Calculator) {
		c.watchDog = dog
	}
}

func WithTrialObserver(observer TrialObserver) Option {
	return func(c *Calculator) {
		c.observer = observer
	}
}

// WithSnapshotStorage archives the raw emissions curves of every trial.
func WithSnapshotStorage(storage curve.Storage) Option {
	return func(c *Calculator) {
		c.snapshotStorage = storage
	}
}
