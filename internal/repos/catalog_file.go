package repos

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

// CatalogFile is the YAML fixture format accepted by CATALOG_FILE.
type CatalogFile struct {
	Categories []domain.Category `yaml:"categories"`
	Products   []domain.Product  `yaml:"products"`
}

// ReadCatalogFile parses and checks a catalog fixture.
func ReadCatalogFile(path string) (CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, err
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (CatalogFile, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return CatalogFile{}, fmt.Errorf("catalog: %w", err)
	}
	cats := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if c.ID == "" || c.Name == "" {
			return CatalogFile{}, fmt.Errorf("catalog: category %q needs id and name", c.ID)
		}
		if cats[c.ID] {
			return CatalogFile{}, fmt.Errorf("catalog: duplicate category %q", c.ID)
		}
		cats[c.ID] = true
	}
	seen := make(map[string]bool, len(f.Products))
	for _, p := range f.Products {
		switch {
		case p.ID == "" || p.Name == "":
			return CatalogFile{}, fmt.Errorf("catalog: product %q needs id and name", p.ID)
		case seen[p.ID]:
			return CatalogFile{}, fmt.Errorf("catalog: duplicate product %q", p.ID)
		case !cats[p.CategoryID]:
			return CatalogFile{}, fmt.Errorf("catalog: product %q has unknown category %q", p.ID, p.CategoryID)
		case p.Price < 0 || p.Quantity < 0:
			return CatalogFile{}, fmt.Errorf("catalog: product %q has negative price or quantity", p.ID)
		}
		seen[p.ID] = true
	}
	return f, nil
}

// LoadCatalogFile replaces the stored catalog with the fixture at path.
func (r *CatalogRepo) LoadCatalogFile(path string) error {
	f, err := ReadCatalogFile(path)
	if err != nil {
		return err
	}
	return r.Replace(f.Categories, f.Products)
}
