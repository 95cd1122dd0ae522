package watchdog

import (
	"sync"
	"time"
)

// INotify receives the stall reports of a watch dog.
type INotify interface {
	NotifyTimeout(name string, idle time.Duration)
}

// WatchDog reports when Touch has not been called for too long while
// started. A single simulation run can take a long time, so the sweep uses
// it to surface stalled trials without aborting them.
type WatchDog interface {
	Touch()

	Start()
	Stop()
	Started() bool

	Close()
}

type Config struct {
	Name string

	CheckInterval time.Duration

	CheckMaxDuration time.Duration
	CheckFailCount   int
}

func NewWatchDog(cfg Config, notify INotify) WatchDog {
	if notify == nil {
		return nil
	}

	impl := &watchDogImpl{
		cfg:         cfg,
		notify:      notify,
		lastTouchAt: time.Now(),
		chClose:     make(chan struct{}),
	}

	impl.init()

	return impl
}

type watchDogImpl struct {
	cfg    Config
	notify INotify

	lock        sync.Mutex
	started     bool
	failCount   int
	lastTouchAt time.Time

	closeOnce sync.Once
	chClose   chan struct{}
}

func (impl *watchDogImpl) Touch() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.lastTouchAt = time.Now()
}

func (impl *watchDogImpl) Start() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.started = true
	impl.lastTouchAt = time.Now()
	impl.failCount = 0
}

func (impl *watchDogImpl) Stop() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.started = false
}

func (impl *watchDogImpl) Started() bool {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.started
}

func (impl *watchDogImpl) Close() {
	impl.closeOnce.Do(func() {
		close(impl.chClose)
	})
}

func (impl *watchDogImpl) init() {
	if impl.cfg.CheckInterval <= 0 {
		impl.cfg.CheckInterval = time.Second * 20
	}

	if impl.cfg.CheckMaxDuration <= 0 {
		impl.cfg.CheckMaxDuration = time.Minute * 30
	}

	if impl.cfg.CheckFailCount <= 0 {
		impl.cfg.CheckFailCount = 1
	}

	go impl.mainRoutine()
}

// check answers whether a stall should be reported now, and for how long the
// dog has been idle.
func (impl *watchDogImpl) check() (timeout bool, idle time.Duration) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if !impl.started {
		return
	}

	idle = time.Since(impl.lastTouchAt)

	if idle < impl.cfg.CheckMaxDuration {
		impl.failCount = 0

		return
	}

	impl.failCount++

	if impl.failCount < impl.cfg.CheckFailCount {
		return
	}

	impl.failCount = 0
	impl.lastTouchAt = time.Now()
	timeout = true

	return
}

func (impl *watchDogImpl) mainRoutine() {
	ticker := time.NewTicker(impl.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-impl.chClose:
			return
		case <-ticker.C:
			if timeout, idle := impl.check(); timeout {
				impl.notify.NotifyTimeout(impl.cfg.Name, idle)
			}
		}
	}
}
