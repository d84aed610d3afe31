package registry

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/auth-platform/lazystatic/libs/go/concurrency/once"
	"github.com/auth-platform/lazystatic/libs/go/testing/testutil"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"pgregory.net/rapid"
)

func TestDeclare(t *testing.T) {
	t.Run("declaring does not build", func(t *testing.T) {
		c := NewCatalog()
		var calls atomic.Int32
		s, err := Declare(c, "number", func() int {
			calls.Add(1)
			return 6
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if calls.Load() != 0 {
			t.Fatal("expected builder not to run at declaration")
		}
		if s.State() != once.Empty {
			t.Errorf("expected empty, got %s", s.State())
		}

		if *s.Get() != 6 || s.Value() != 6 {
			t.Error("expected 6")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		c := NewCatalog()
		if _, err := Declare(c, "x", func() int { return 1 }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := Declare(c, "x", func() string { return "other" })
		if !errors.Is(err, ErrDuplicateDeclaration) {
			t.Errorf("expected ErrDuplicateDeclaration, got %v", err)
		}
		if c.Len() != 1 {
			t.Errorf("expected 1 declaration, got %d", c.Len())
		}
	})

	t.Run("empty name and nil builder are rejected", func(t *testing.T) {
		c := NewCatalog()
		if _, err := Declare(c, "", func() int { return 1 }); !errors.Is(err, ErrInvalidName) {
			t.Errorf("expected ErrInvalidName, got %v", err)
		}
		if _, err := Declare[int](c, "nil", nil); !errors.Is(err, ErrInvalidName) {
			t.Errorf("expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("MustDeclare panics on duplicates", func(t *testing.T) {
		c := NewCatalog()
		MustDeclare(c, "x", func() int { return 1 })
		r := testutil.Recovered(func() { MustDeclare(c, "x", func() int { return 2 }) })
		if err, ok := r.(error); !ok || !errors.Is(err, ErrDuplicateDeclaration) {
			t.Errorf("expected duplicate panic, got %v", r)
		}
	})

	t.Run("statics follow the catalog strategy", func(t *testing.T) {
		c := NewCatalog(WithStrategy(once.Spin))
		s := MustDeclare(c, "spun", func() int { return 1 })
		if s.Strategy() != once.Spin || c.Strategy() != once.Spin {
			t.Errorf("expected spin, got %s", s.Strategy())
		}
		if e, ok := c.Lookup("spun"); !ok || e.Strategy != once.Spin {
			t.Errorf("unexpected entry %+v", e)
		}
	})
}

func TestStaticsMayDependOnEachOther(t *testing.T) {
	c := NewCatalog()
	table := MustDeclare(c, "table", func() map[uint32]string {
		return map[uint32]string{0: "foo", 1: "bar", 2: "baz"}
	})
	count := MustDeclare(c, "count", func() int { return len(*table.Get()) })

	if count.Value() != 3 {
		t.Errorf("expected 3, got %d", count.Value())
	}
	if (*table.Get())[1] != "bar" {
		t.Error("expected bar")
	}
	if len(c.Pending()) != 0 {
		t.Errorf("expected nothing pending, got %v", c.Pending())
	}
}

func TestCatalogSnapshot(t *testing.T) {
	c := NewCatalog()
	b := MustDeclare(c, "b", func() int { return 2 })
	MustDeclare(c, "a", func() int { return 1 })
	broken := MustDeclare(c, "c", func() int { panic("broken") })

	b.Get()
	broken.TryGet()

	snap := c.Snapshot()
	want := []Entry{
		{Name: "a", State: once.Empty},
		{Name: "b", State: once.Done},
		{Name: "c", State: once.Poisoned},
	}
	if len(snap) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(snap))
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], snap[i])
		}
	}

	pending := c.Pending()
	if len(pending) != 2 || pending[0] != "a" || pending[1] != "c" {
		t.Errorf("expected [a c], got %v", pending)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("expected lookup miss")
	}
}

func TestObserver(t *testing.T) {
	t.Run("winner is observed once", func(t *testing.T) {
		rec := testutil.NewRecordingObserver()
		c := NewCatalog(WithObserver(rec))
		s := MustDeclare(c, "shared", func() int { return 42 })

		testutil.Release(32, func(int) { s.Get() })

		if rec.Len() != 2 {
			t.Fatalf("expected start and finish, got %v", rec.Events())
		}
		ev := rec.Events()
		if ev[0].Name != "shared" || ev[0].Finished {
			t.Errorf("unexpected start event %+v", ev[0])
		}
		if !ev[1].Finished || ev[1].Err != nil {
			t.Errorf("unexpected finish event %+v", ev[1])
		}
	})

	t.Run("aborted builder reports poison", func(t *testing.T) {
		rec := testutil.NewRecordingObserver()
		c := NewCatalog()
		c.SetObserver(rec)
		s := MustDeclare(c, "broken", func() int { panic("no") })

		if _, err := s.TryGet(); !errors.Is(err, once.ErrPoisoned) {
			t.Fatalf("expected poison, got %v", err)
		}
		failed := rec.Count(func(e testutil.InitEvent) bool {
			return e.Finished && errors.Is(e.Err, once.ErrPoisoned)
		})
		if failed != 1 {
			t.Errorf("expected one poisoned finish, got %v", rec.Events())
		}
	})

	t.Run("nil observer falls back to nop", func(t *testing.T) {
		c := NewCatalog(WithObserver(nil))
		s := MustDeclare(c, "x", func() int { return 1 })
		if s.Value() != 1 {
			t.Error("expected 1")
		}
	})
}

func TestCatalogDeclarationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("each distinct name declares once and builds on demand", prop.ForAll(
		func(names []string) bool {
			c := NewCatalog(WithStrategy(once.Spin))
			distinct := make(map[string]bool)
			var built atomic.Int32

			for _, name := range names {
				_, err := Declare(c, name, func() string {
					built.Add(1)
					return name
				})
				switch {
				case name == "":
					if !errors.Is(err, ErrInvalidName) {
						return false
					}
				case distinct[name]:
					if !errors.Is(err, ErrDuplicateDeclaration) {
						return false
					}
				default:
					if err != nil {
						return false
					}
					distinct[name] = true
				}
			}

			if c.Len() != len(distinct) || built.Load() != 0 {
				return false
			}
			return len(c.Pending()) == len(distinct)
		},
		gen.SliceOfN(20, gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// Property: a name declares once, and the static builds on first Get
// under every name the catalog accepts.
func TestProperty_DeclareByName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(testutil.Identifier(), 1, 8, rapid.ID[string]).Draw(t, "names")
		c := NewCatalog()
		for _, name := range names {
			s, err := Declare(c, name, func() string { return name })
			if err != nil {
				t.Fatalf("declare %q: %v", name, err)
			}
			if _, err := Declare(c, name, func() string { return "" }); !errors.Is(err, ErrDuplicateDeclaration) {
				t.Fatalf("expected duplicate error for %q, got %v", name, err)
			}
			if *s.Get() != name {
				t.Fatalf("expected %q, got %q", name, *s.Get())
			}
		}
		if c.Len() != len(names) || len(c.Pending()) != 0 {
			t.Fatalf("expected %d built statics, got len %d pending %v", len(names), c.Len(), c.Pending())
		}
	})
}

func ExampleDeclare() {
	c := NewCatalog()
	number := MustDeclare(c, "number", func() uint32 { return 21 * 2 })

	fmt.Println(*number.Get())
	fmt.Println(number.State())
	// Output:
	// 42
	// done
}
