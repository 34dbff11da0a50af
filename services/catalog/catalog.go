package catalog

import "carwash/models"

// packages is ordered from the longest plan to the shortest.
var packages = []models.Package{
	{Name: "90 Days - 12 Washes", DurationDays: 90, WashQuota: 12},
	{Name: "60 Days - 8 Washes", DurationDays: 60, WashQuota: 8},
	{Name: "30 Days - 4 Washes", DurationDays: 30, WashQuota: 4},
}

var packagesByName = func() map[string]models.Package {
	m := make(map[string]models.Package, len(packages))
	for _, p := range packages {
		m[p.Name] = p
	}
	return m
}()

// Catalog exposes the fixed set of wash packages.
type Catalog interface {
	ListPackages() []models.Package
	GetPackage(name string) (models.Package, bool)
}

type DefaultCatalog struct{}

func NewCatalog() *DefaultCatalog {
	return &DefaultCatalog{}
}

// ListPackages returns a copy of the packages in their fixed order.
func (DefaultCatalog) ListPackages() []models.Package {
	out := make([]models.Package, len(packages))
	copy(out, packages)
	return out
}

func (DefaultCatalog) GetPackage(name string) (models.Package, bool) {
	p, ok := packagesByName[name]
	return p, ok
}
