package verify

import (
	"errors"
	"testing"
)

func nopFactory() (Engine, error) {
	return &identityEngine{}, nil
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("a", "Engine A", nopFactory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := reg.Register("a", "Again", nopFactory); !errors.Is(err, errDuplicateEngine) {
		t.Errorf("duplicate id error = %v, want errDuplicateEngine", err)
	}

	if err := reg.Register("", "Anon", nopFactory); !errors.Is(err, errEmptyEngineID) {
		t.Errorf("empty id error = %v, want errEmptyEngineID", err)
	}

	if err := reg.Register("b", "Engine B", nil); !errors.Is(err, errNilFactory) {
		t.Errorf("nil factory error = %v, want errNilFactory", err)
	}
}

func TestRegistryLookupAndName(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("gain", "Gain", nopFactory)
	reg.MustRegister("anon", "", nopFactory)

	if reg.Lookup("gain") == nil {
		t.Error("Lookup() should find a registered factory")
	}

	if reg.Lookup("missing") != nil {
		t.Error("Lookup() of unknown id should return nil")
	}

	if got := reg.Name("gain"); got != "Gain" {
		t.Errorf("Name() = %q, want %q", got, "Gain")
	}

	// An empty display name falls back to the id, as does an unknown id.
	if got := reg.Name("anon"); got != "anon" {
		t.Errorf("Name() = %q, want id fallback", got)
	}

	if got := reg.Name("missing"); got != "missing" {
		t.Errorf("Name() = %q, want id fallback", got)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		reg.MustRegister(id, id, nopFactory)
	}

	got := reg.IDs()
	want := []string{"alpha", "mid", "zeta"}

	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister with empty id should panic")
		}
	}()

	NewRegistry().MustRegister("", "", nopFactory)
}

func TestRegisterReferenceEngines(t *testing.T) {
	reg := NewRegistry()
	RegisterReferenceEngines(reg)

	for _, id := range []string{"identity", "gain", "octaver", "hardclip"} {
		factory := reg.Lookup(id)
		if factory == nil {
			t.Errorf("reference engine %q not registered", id)
			continue
		}

		engine, err := factory()
		if err != nil || engine == nil {
			t.Errorf("factory %q = (%v, %v)", id, engine, err)
		}
	}
}
