// Package debounce delays propagation of a changing value until it has been
// stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The zero value of Debouncer uses the wall clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

// Option configures a Debouncer.
type Option[T comparable] func(*Debouncer[T])

// WithClock replaces the wall clock, mainly for tests.
func WithClock[T comparable](clock Clock) Option[T] {
	return func(d *Debouncer[T]) {
		d.clock = clock
	}
}

// WithOnChange registers a callback invoked with every propagated value.
// It runs on the timer goroutine, outside the debouncer's lock.
func WithOnChange[T comparable](fn func(T)) Option[T] {
	return func(d *Debouncer[T]) {
		d.onChange = fn
	}
}

// Debouncer holds an input value and an output value. The output follows the
// input only after the input stopped changing for the configured delay.
type Debouncer[T comparable] struct {
	mu       sync.Mutex
	clock    Clock
	delay    time.Duration
	input    T
	output   T
	pending  Timer
	gen      uint64
	stopped  bool
	onChange func(T)
}

// New creates a Debouncer whose output starts at initial.
func New[T comparable](initial T, delay time.Duration, opts ...Option[T]) *Debouncer[T] {
	d := &Debouncer[T]{
		clock:  realClock{},
		delay:  delay,
		input:  initial,
		output: initial,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Set records a new input. Any pending propagation is cancelled and a new one
// is scheduled delay from now. Setting the current input again is a no-op.
func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || value == d.input {
		return
	}
	d.input = value
	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.pending = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen, value)
	})
}

// Value returns the current debounced output.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

// Pending reports whether a propagation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending propagation. After Stop no callback fires and Set
// has no effect.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.cancelLocked()
	d.gen++
}

func (d *Debouncer[T]) cancelLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// fire runs when a timer elapses. A timer that was cancelled after it had
// already started is recognised by its stale generation and ignored.
func (d *Debouncer[T]) fire(gen uint64, value T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	changed := d.output != value
	d.output = value
	onChange := d.onChange
	d.mu.Unlock()

	if changed && onChange != nil {
		onChange(value)
	}
}
