package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/auth-platform/lazystatic/libs/go/concurrency/once"
	"github.com/auth-platform/lazystatic/libs/go/functional/lazy"
)

var (
	// ErrDuplicateDeclaration is returned when a name is declared twice in
	// the same catalog.
	ErrDuplicateDeclaration = errors.New("registry: duplicate declaration")

	// ErrInvalidName is returned for an empty declaration name.
	ErrInvalidName = errors.New("registry: invalid declaration name")
)

// Observer is notified when a static's builder runs. InitStarted is
// called on the winning goroutine only; the returned func receives nil on
// success or an error matching once.ErrPoisoned if the builder aborted.
type Observer interface {
	InitStarted(name string) func(err error)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// InitStarted implements Observer.
func (NopObserver) InitStarted(string) func(error) { return func(error) {} }

// Entry describes one declaration.
type Entry struct {
	Name     string
	State    once.State
	Strategy once.Strategy
}

type declaration interface {
	Name() string
	State() once.State
	Strategy() once.Strategy
}

type observerBox struct{ Observer }

// Catalog holds named lazy statics. Declarations live for the lifetime of
// the catalog; there is no way to remove or reset one.
type Catalog struct {
	decls    *Registry[string, declaration]
	strategy once.Strategy
	observer atomic.Pointer[observerBox]
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithStrategy sets the cell strategy for statics declared in the catalog.
func WithStrategy(s once.Strategy) Option {
	return func(c *Catalog) {
		c.strategy = s
	}
}

// WithObserver sets the initial observer.
func WithObserver(o Observer) Option {
	return func(c *Catalog) {
		c.SetObserver(o)
	}
}

// Default is the process-wide catalog used by package-level declarations.
var Default = NewCatalog()

// NewCatalog creates an empty catalog. Statics use blocking cells unless
// WithStrategy says otherwise.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{decls: New[string, declaration]()}
	c.SetObserver(NopObserver{})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetObserver replaces the observer. Builders already running keep the
// observer they started with.
func (c *Catalog) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	c.observer.Store(&observerBox{o})
}

func (c *Catalog) currentObserver() Observer {
	return c.observer.Load().Observer
}

// Strategy returns the strategy new declarations use.
func (c *Catalog) Strategy() once.Strategy {
	return c.strategy
}

// Len returns the number of declarations.
func (c *Catalog) Len() int {
	return c.decls.Len()
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	d, ok := c.decls.Get(name)
	if !ok {
		return Entry{}, false
	}
	return entryOf(d), true
}

// Snapshot returns every declaration, sorted by name.
func (c *Catalog) Snapshot() []Entry {
	decls := c.decls.Values()
	entries := make([]Entry, 0, len(decls))
	for _, d := range decls {
		entries = append(entries, entryOf(d))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Pending returns the sorted names of declarations that are not Done.
func (c *Catalog) Pending() []string {
	names := c.decls.Filter(func(_ string, d declaration) bool {
		return d.State() != once.Done
	}).Keys()
	sort.Strings(names)
	return names
}

func entryOf(d declaration) Entry {
	return Entry{Name: d.Name(), State: d.State(), Strategy: d.Strategy()}
}

// Declare registers a lazy static named name in c. build is not called
// until the first Get.
func Declare[T any](c *Catalog, name string, build func() T) (*Static[T], error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if build == nil {
		return nil, fmt.Errorf("%w: %s has no builder", ErrInvalidName, name)
	}

	s := &Static[T]{name: name, strategy: c.strategy}
	s.value = lazy.NewWithStrategy(c.strategy, observed(c, name, build))

	if _, added := c.decls.RegisterIfAbsent(name, s); !added {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
	}
	return s, nil
}

// MustDeclare is like Declare but panics on error. It is meant for
// package-level variable initialization.
func MustDeclare[T any](c *Catalog, name string, build func() T) *Static[T] {
	s, err := Declare(c, name, build)
	if err != nil {
		panic(err)
	}
	return s
}

// observed wraps build so the catalog's observer sees the single run.
func observed[T any](c *Catalog, name string, build func() T) func() T {
	return func() T {
		finish := c.currentObserver().InitStarted(name)
		completed := false
		defer func() {
			if !completed {
				finish(fmt.Errorf("registry: %s: %w", name, once.ErrPoisoned))
			}
		}()

		v := build()
		completed = true
		finish(nil)
		return v
	}
}
