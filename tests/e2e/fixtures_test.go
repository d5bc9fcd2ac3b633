package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// catalog mirrors testdata/catalog.yaml: what the demo storefront is
// expected to contain.
type catalog struct {
	Title    string `yaml:"title"`
	Products []struct {
		Name  string  `yaml:"name"`
		Price float64 `yaml:"price"`
	} `yaml:"products"`
	Messages struct {
		LockedOut         string `yaml:"locked_out"`
		BadCredentials    string `yaml:"bad_credentials"`
		FirstNameRequired string `yaml:"first_name_required"`
		OrderComplete     string `yaml:"order_complete"`
	} `yaml:"messages"`
}

func loadCatalog(t *testing.T) catalog {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err, "catalog fixture missing")
	var c catalog
	require.NoError(t, yaml.Unmarshal(raw, &c))
	require.NotEmpty(t, c.Products, "catalog fixture has no products")
	return c
}

func (c catalog) productNames() []string {
	names := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		names = append(names, p.Name)
	}
	return names
}

func (c catalog) priceOf(t *testing.T, name string) float64 {
	t.Helper()
	for _, p := range c.Products {
		if p.Name == name {
			return p.Price
		}
	}
	t.Fatalf("product %q not in catalog fixture", name)
	return 0
}
