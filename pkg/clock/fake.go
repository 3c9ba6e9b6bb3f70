package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced clock. Tickers created from it fire while
// Advance or Set moves the time past their next due instant.
type Fake struct {
	now     time.Time
	tickers []*fakeTicker
	sync.Mutex
}

// NewFake returns a fake clock set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.Lock()
	defer f.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	f.Lock()
	defer f.Unlock()

	t := &fakeTicker{
		c:      make(chan time.Time, 1),
		period: d,
		next:   f.now.Add(d),
		clock:  f,
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Set moves the clock to now, which may lie in the past.
func (f *Fake) Set(now time.Time) {
	f.Lock()
	defer f.Unlock()
	f.now = now
	f.fire()
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.Lock()
	defer f.Unlock()
	f.now = f.now.Add(d)
	f.fire()
}

// fire delivers at most one pending tick per ticker, like time.Ticker drops
// ticks for slow receivers.
func (f *Fake) fire() {
	for _, t := range f.tickers {
		if t.stopped || t.next.After(f.now) {
			continue
		}
		select {
		case t.c <- f.now:
		default:
		}
		for !t.next.After(f.now) {
			t.next = t.next.Add(t.period)
		}
	}
}

type fakeTicker struct {
	c       chan time.Time
	period  time.Duration
	next    time.Time
	stopped bool
	clock   *Fake
}

func (t *fakeTicker) Chan() <-chan time.Time {
	return t.c
}

func (t *fakeTicker) Stop() {
	t.clock.Lock()
	defer t.clock.Unlock()
	t.stopped = true
}
