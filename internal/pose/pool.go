package pose

import (
	"fmt"
	"sync"
)

// DefaultPoolSize is the fixed number of estimator instances in the pool.
const DefaultPoolSize = 3

// Factory builds one estimator instance for the pool.
type Factory func() (Estimator, error)

// Pool maintains a bounded set of reusable estimator instances shared by
// active streams via round-robin assignment. Instances are built lazily on
// the first Build call and live until Close.
type Pool struct {
	size      int
	factory   Factory
	mu        sync.Mutex
	instances []Estimator
}

// NewPool creates a pool of the given capacity. Sizes less than 1 fall back
// to DefaultPoolSize.
func NewPool(size int, factory Factory) *Pool {
	if size < 1 {
		size = DefaultPoolSize
	}
	return &Pool{
		size:    size,
		factory: factory,
	}
}

// Build creates the estimator instances if they do not exist yet.
// On a partial failure every instance built so far is closed and the pool
// stays empty.
func (p *Pool) Build() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.instances) > 0 {
		return nil
	}

	instances := make([]Estimator, 0, p.size)
	for i := 0; i < p.size; i++ {
		est, err := p.factory()
		if err != nil {
			for _, built := range instances {
				built.Close()
			}
			return fmt.Errorf("build estimator %d: %w", i, err)
		}
		instances = append(instances, est)
	}

	p.instances = instances
	return nil
}

// Built reports whether the pool instances exist.
func (p *Pool) Built() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instances) > 0
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return p.size
}

// Assign returns the estimator for the given stream index using
// deterministic round-robin assignment: instances[streamIndex % size].
// Returns nil if the pool has not been built.
func (p *Pool) Assign(streamIndex int) Estimator {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.instances) == 0 || streamIndex < 0 {
		return nil
	}
	return p.instances[streamIndex%len(p.instances)]
}

// Close shuts down every estimator instance and empties the pool.
// Returns the first close error encountered.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for _, est := range p.instances {
		if err := est.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.instances = nil
	return firstErr
}
