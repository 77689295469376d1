package sim

import "sync"

// Locked serializes access to a Simulator shared between a frame driver and
// other goroutines such as a config watcher.
type Locked struct {
	mu  sync.Mutex
	sim *Simulator
}

func NewLocked(s *Simulator) *Locked { return &Locked{sim: s} }

// Do runs fn with exclusive access to the simulator.
func (l *Locked) Do(fn func(s *Simulator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.sim)
}

// Step advances the wrapped simulator under the lock.
func (l *Locked) Step(dt float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sim.Step(dt)
}

// Swap replaces the wrapped simulator, returning the previous one.
func (l *Locked) Swap(s *Simulator) *Simulator {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.sim
	l.sim = s
	return old
}
