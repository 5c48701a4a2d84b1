package service

import (
	"testing"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	c := criteria.DefaultCatalog()

	base := Fingerprint(c, criteria.Set{criteria.Hypoxemia: criteria.Met})
	if again := Fingerprint(c, criteria.Set{criteria.Hypoxemia: criteria.Met}); again != base {
		t.Errorf("Fingerprint not deterministic: %s vs %s", base, again)
	}

	explicitNull := Fingerprint(c, criteria.Set{criteria.Hypoxemia: criteria.Met, criteria.NewCoagulopathy: criteria.Absent})
	if explicitNull != base {
		t.Errorf("explicit null should equal omitted: %s vs %s", explicitNull, base)
	}

	for _, other := range []criteria.Set{
		{criteria.Hypoxemia: criteria.NotMet},
		{},
		{criteria.Hypoxemia: criteria.Met, criteria.NewCoagulopathy: criteria.NotMet},
	} {
		if Fingerprint(c, other) == base {
			t.Errorf("Fingerprint(%v) collides with base", other)
		}
	}
}

func TestFingerprint_DependsOnPolicy(t *testing.T) {
	t.Parallel()

	a, err := criteria.NewCatalog("a", "", []criteria.Definition{{Name: "hypoxia", Label: "Hypoxia"}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := criteria.NewCatalog("b", "", []criteria.Definition{{Name: "hypoxia", Label: "Hypoxia"}})
	if err != nil {
		t.Fatal(err)
	}
	set := criteria.Set{"hypoxia": criteria.Met}
	if Fingerprint(a, set) == Fingerprint(b, set) {
		t.Error("fingerprints should differ across policies")
	}
}
