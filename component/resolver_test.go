package component

import "testing"

func TestResolveAliases(t *testing.T) {
	cases := []struct {
		name string
		want CAS
	}{
		{"Water", "7732-18-5"},
		{"H2O", "7732-18-5"},
		{"co2", "124-38-9"},
		{"CO2", "124-38-9"},
		{"n_hexane", "110-54-3"},
		{"N-Hexane", "110-54-3"},
		{"MEG", "7732-18-5"},
		{"benzene", "71-43-2"},
	}
	for _, c := range cases {
		got, err := Resolve(c.name)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, err := Resolve("unobtainium"); err == nil {
		t.Fatal("expected an error for an unresolvable component name")
	}
}

func TestResolveIdempotent(t *testing.T) {
	first, err := Resolve("Water")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(string(first))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Resolve is not idempotent: %q != %q", first, second)
	}
}

func TestLoadConstants(t *testing.T) {
	cas, err := ResolveAll([]string{"water", "ethanol_is_missing"})
	if err == nil {
		t.Fatalf("expected unresolved component error, got cas=%v", cas)
	}

	cas, err = ResolveAll([]string{"methane", "n-hexane", "water"})
	if err != nil {
		t.Fatal(err)
	}
	set, err := LoadConstants(cas)
	if err != nil {
		t.Fatal(err)
	}
	if set.N() != 3 {
		t.Fatalf("N() = %d, want 3", set.N())
	}
	if set.Name(0) != "methane" {
		t.Errorf("Name(0) = %q, want methane", set.Name(0))
	}
	psat, ok := set.Correlations(2).VaporPressure(373.15)
	if !ok || psat < 90000 || psat > 115000 {
		t.Errorf("water Psat(373.15K) = %v ok=%v, want ~101325 Pa", psat, ok)
	}
}
