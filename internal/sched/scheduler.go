package sched

import (
	"sort"
	"sync"
	"time"
)

// Clock supplies the current time to the scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock is a manually advanced clock for tests and headless replays.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a clock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Add moves the clock forward by d.
func (c *FakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Scheduler runs one-shot callbacks once their due time has passed.
//
// Jobs only fire from RunDue, so the caller decides which goroutine
// executes them. The TUI calls RunDue from its tick handler; tests and
// replays advance a FakeClock and call Advance.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	counter uint64
	jobs    []*job // ordered by due, then seq
}

type job struct {
	seq uint64
	due time.Time
	fn  func()
}

// New creates a scheduler backed by clock. A nil clock means the wall clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run once delay has elapsed from now.
func (s *Scheduler) After(delay time.Duration, fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	j := &job{seq: s.counter, due: s.clock.Now().Add(delay), fn: fn}
	idx := sort.Search(len(s.jobs), func(i int) bool {
		return s.jobs[i].due.After(j.due)
	})
	s.jobs = append(s.jobs, nil)
	copy(s.jobs[idx+1:], s.jobs[idx:])
	s.jobs[idx] = j
}

// Pending returns the number of jobs not yet run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// NextDue returns the due time of the earliest pending job.
func (s *Scheduler) NextDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return time.Time{}, false
	}
	return s.jobs[0].due, true
}

// RunDue executes every job whose due time is not after Now and returns
// how many ran. Jobs scheduled by a running job are picked up in the same
// call if they are already due.
func (s *Scheduler) RunDue() int {
	ran := 0
	for {
		j := s.popDue()
		if j == nil {
			return ran
		}
		j.fn()
		ran++
	}
}

func (s *Scheduler) popDue() *job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return nil
	}
	if s.jobs[0].due.After(s.clock.Now()) {
		return nil
	}
	j := s.jobs[0]
	s.jobs[0] = nil
	s.jobs = s.jobs[1:]
	return j
}

// Advance steps a FakeClock forward job by job so callbacks observe the
// time they were due at, then runs anything still due at the target.
// It panics if the scheduler is not backed by a *FakeClock.
func (s *Scheduler) Advance(d time.Duration) int {
	fc, ok := s.clock.(*FakeClock)
	if !ok {
		panic("sched: Advance requires a FakeClock")
	}
	target := fc.Now().Add(d)
	ran := 0
	for {
		due, ok := s.NextDue()
		if !ok || due.After(target) {
			break
		}
		if now := fc.Now(); due.After(now) {
			fc.Add(due.Sub(now))
		}
		ran += s.RunDue()
	}
	if now := fc.Now(); target.After(now) {
		fc.Add(target.Sub(now))
	}
	return ran + s.RunDue()
}

// Drain advances a FakeClock until no jobs remain or limit is reached.
func (s *Scheduler) Drain(limit time.Duration) int {
	ran := 0
	for s.Pending() > 0 {
		due, _ := s.NextDue()
		step := due.Sub(s.Now())
		if step < 0 {
			step = 0
		}
		if step > limit {
			break
		}
		limit -= step
		ran += s.Advance(step)
	}
	return ran
}
