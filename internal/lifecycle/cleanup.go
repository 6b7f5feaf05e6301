// Package lifecycle tears down the resources a screen or command acquires.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultTimeout bounds a cleanup run.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is reported when cleanup does not finish in time.
var ErrTimeout = errors.New("cleanup timeout exceeded")

// Resource is something that must be released on teardown.
type Resource interface {
	Cleanup() error
	Name() string
}

// Func adapts a function to Resource.
type Func struct {
	name string
	fn   func() error
}

func (f *Func) Cleanup() error { return f.fn() }
func (f *Func) Name() string   { return f.name }

// Manager runs registered cleanups once, newest first, within a timeout.
type Manager struct {
	mu        sync.Mutex
	resources []Resource
	timeout   time.Duration
	once      sync.Once
	errs      []error
}

// NewManager returns a manager with the given timeout; non-positive values
// use DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{timeout: timeout}
}

// Register adds a resource.
func (m *Manager) Register(r Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = append(m.resources, r)
}

// RegisterFunc adds a cleanup function.
func (m *Manager) RegisterFunc(name string, fn func() error) {
	m.Register(&Func{name: name, fn: fn})
}

// Len returns the number of registered resources.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// Execute runs every cleanup. Only the first call does work; later and
// concurrent calls wait for it and return the same errors.
func (m *Manager) Execute() []error {
	m.once.Do(func() {
		m.errs = m.run()
	})
	return m.errs
}

func (m *Manager) run() []error {
	m.mu.Lock()
	resources := make([]Resource, len(m.resources))
	copy(resources, m.resources)
	m.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			res := resources[i]
			func() {
				defer func() {
					if r := recover(); r != nil {
						record(fmt.Errorf("panic during cleanup of %s", res.Name()))
						log.Printf("cleanup: panic cleaning up %s: %v", res.Name(), r)
					}
				}()

				if err := res.Cleanup(); err != nil {
					record(fmt.Errorf("%s: %w", res.Name(), err))
					log.Printf("cleanup: error cleaning up %s: %v", res.Name(), err)
					return
				}
				log.Printf("cleanup: cleaned up %s", res.Name())
			}()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("cleanup: timeout after %v, some resources may not have been cleaned up", m.timeout)
		record(ErrTimeout)
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]error(nil), errs...)
}
