// Package layout tracks terminal geometry and picks the timer screen layout.
package layout

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// DefaultCellAspect is the usual height/width ratio of a terminal cell.
const DefaultCellAspect = 2.0

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// Orientation is the layout chosen for a size.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "Landscape"
	}
	return "Portrait"
}

// Policy decides how sizes map to orientations.
type Policy int

const (
	// PolicyPortrait always uses the full interface.
	PolicyPortrait Policy = iota
	// PolicyLandscape always uses the full-screen time display.
	PolicyLandscape
	// PolicyAuto compares the physical width and height of the terminal.
	PolicyAuto
)

func (p Policy) String() string {
	switch p {
	case PolicyLandscape:
		return "landscape"
	case PolicyAuto:
		return "auto"
	default:
		return "portrait"
	}
}

// ParsePolicy reads a policy name as used in config and flags.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return PolicyPortrait, nil
	case "landscape":
		return PolicyLandscape, nil
	case "auto":
		return PolicyAuto, nil
	}
	return PolicyPortrait, fmt.Errorf("unknown layout %q (want portrait, landscape or auto)", s)
}

// Classify returns the orientation for size under policy. cellAspect is the
// height of a cell divided by its width.
func Classify(size Size, policy Policy, cellAspect float64) Orientation {
	switch policy {
	case PolicyLandscape:
		return Landscape
	case PolicyAuto:
		if cellAspect <= 0 {
			cellAspect = DefaultCellAspect
		}
		if size.Width <= 0 || size.Height <= 0 {
			return Portrait
		}
		if float64(size.Width) > float64(size.Height)*cellAspect {
			return Landscape
		}
	}
	return Portrait
}

// Listener receives geometry changes.
type Listener func(Size)

// Bus fans out geometry changes to subscribed listeners.
type Bus struct {
	mu        sync.Mutex
	next      int
	listeners map[int]Listener
	last      Size
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a function removing it. The returned
// function is safe to call more than once.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers size to every listener. Listeners run outside the lock.
func (b *Bus) Publish(size Size) {
	b.mu.Lock()
	b.last = size
	ls := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		ls = append(ls, l)
	}
	b.mu.Unlock()

	for _, l := range ls {
		l(size)
	}
}

// Last returns the most recently published size.
func (b *Bus) Last() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Tracker follows a Bus while mounted and keeps the current orientation.
type Tracker struct {
	mu          sync.Mutex
	policy      Policy
	cellAspect  float64
	size        Size
	orientation Orientation
	override    *Orientation
	unsubscribe func()
}

// NewTracker returns an unmounted tracker.
func NewTracker(policy Policy, cellAspect float64) *Tracker {
	if cellAspect <= 0 {
		cellAspect = DefaultCellAspect
	}
	return &Tracker{
		policy:      policy,
		cellAspect:  cellAspect,
		orientation: Classify(Size{}, policy, cellAspect),
	}
}

// Mount subscribes to b and applies its last known size. Mounting an already
// mounted tracker moves it to b.
func (t *Tracker) Mount(b *Bus) {
	t.Unmount()
	unsub := b.Subscribe(t.update)

	t.mu.Lock()
	t.unsubscribe = unsub
	t.mu.Unlock()

	if last := b.Last(); last != (Size{}) {
		t.update(last)
	}
}

// Unmount removes the subscription. It is a no-op when not mounted.
func (t *Tracker) Unmount() {
	t.mu.Lock()
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Mounted reports whether the tracker is subscribed.
func (t *Tracker) Mounted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unsubscribe != nil
}

// Toggle flips the orientation manually. The override holds until the
// next geometry change.
func (t *Tracker) Toggle() Orientation {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := Landscape
	if t.current() == Landscape {
		o = Portrait
	}
	t.override = &o
	return o
}

// Orientation returns the layout to render.
func (t *Tracker) Orientation() Orientation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current()
}

// Size returns the last size seen.
func (t *Tracker) Size() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

func (t *Tracker) current() Orientation {
	if t.override != nil {
		return *t.override
	}
	return t.orientation
}

func (t *Tracker) update(size Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.size = size
	t.override = nil
	o := Classify(size, t.policy, t.cellAspect)
	if o != t.orientation {
		log.Printf("layout: %dx%d -> %s", size.Width, size.Height, o)
	}
	t.orientation = o
}
