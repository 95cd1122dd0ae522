package usage

import (
	"sync"
	"time"
)

// Status names what a tracked process is busy with.
type Status string

// TimeUsage attributes wall time to statuses. Each Update ends the previous
// status and starts a new one.
type TimeUsage interface {
	Update(status Status)

	Statistics(tsB, tsE time.Time) map[Status]time.Duration
	StatisticsAndClean(tsB, tsE time.Time) map[Status]time.Duration
}

func NewTimeUsage() TimeUsage {
	return &timeUsageImpl{}
}

type timeUsageImpl struct {
	sync.Mutex

	ds []statusWithTime
}

type statusWithTime struct {
	status Status
	at     time.Time
}

func (ts *timeUsageImpl) Update(status Status) {
	ts.updateAt(status, time.Now())
}

func (ts *timeUsageImpl) updateAt(status Status, at time.Time) {
	ts.Lock()
	defer ts.Unlock()

	ts.ds = append(ts.ds, statusWithTime{
		status: status,
		at:     at,
	})
}

func (ts *timeUsageImpl) Statistics(tsB, tsE time.Time) map[Status]time.Duration {
	return ts.doStatistics(tsB, tsE, false)
}

// StatisticsAndClean also drops the transitions that no longer matter for
// windows starting at tsE.
func (ts *timeUsageImpl) StatisticsAndClean(tsB, tsE time.Time) map[Status]time.Duration {
	return ts.doStatistics(tsB, tsE, true)
}

// doStatistics charges [tsB, tsE) to the statuses in effect. Time before the
// first known transition has no status and is not reported.
func (ts *timeUsageImpl) doStatistics(tsB, tsE time.Time, clearData bool) (ds map[Status]time.Duration) {
	ts.Lock()
	defer ts.Unlock()

	ds = make(map[Status]time.Duration)

	last := tsB
	lastIdx := 0

	var current Status

	for idx, f := range ts.ds {
		if f.at.Before(last) {
			current = f.status
			lastIdx = idx

			continue
		}

		if !f.at.Before(tsE) {
			break
		}

		ds[current] += f.at.Sub(last)
		last = f.at
		current = f.status
		lastIdx = idx
	}

	if !tsE.Before(last) {
		ds[current] += tsE.Sub(last)
	}

	delete(ds, "")

	if clearData && len(ts.ds) > 0 {
		ts.ds = ts.ds[lastIdx:]
	}

	return
}
