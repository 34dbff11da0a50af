package catalog

import (
	"reflect"
	"testing"
)

func TestListPackages(t *testing.T) {
	c := NewCatalog()
	first := c.ListPackages()

	want := []struct {
		name     string
		duration int
		quota    int
	}{
		{"90 Days - 12 Washes", 90, 12},
		{"60 Days - 8 Washes", 60, 8},
		{"30 Days - 4 Washes", 30, 4},
	}
	if len(first) != len(want) {
		t.Fatalf("Expected %d packages, got %d", len(want), len(first))
	}
	for i, w := range want {
		p := first[i]
		if p.Name != w.name || p.DurationDays != w.duration || p.WashQuota != w.quota {
			t.Errorf("Package %d = %+v, want %+v", i, p, w)
		}
		if p.DurationDays <= 0 || p.WashQuota <= 0 {
			t.Errorf("Package %q must have positive duration and quota", p.Name)
		}
	}

	t.Run("StableAcrossCalls", func(t *testing.T) {
		first[0].WashQuota = 999
		if second := c.ListPackages(); !reflect.DeepEqual(second[1:], first[1:]) || second[0].WashQuota != 12 {
			t.Errorf("Expected catalog to be unaffected by caller mutation, got %+v", second)
		}
	})
}

func TestGetPackage(t *testing.T) {
	c := NewCatalog()
	p, ok := c.GetPackage("60 Days - 8 Washes")
	if !ok || p.WashQuota != 8 || p.DurationDays != 60 {
		t.Errorf("Expected 60-day package, got %+v ok=%v", p, ok)
	}
	if _, ok := c.GetPackage("7 Days - 1 Wash"); ok {
		t.Errorf("Expected unknown package lookup to fail")
	}
}
