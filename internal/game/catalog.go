/*
Package game
File: catalog.go
Description:
    The product catalog. Products are closed, static data: a key, a display
    name, a base demand weight, a unit price and a shelf life. The catalog
    preserves declaration order from world.yaml so that every per-product
    iteration in the engine (sales rolls, transfers, spoilage) is stable and
    reproducible under a fixed RNG seed.
*/

package game

// Product is one catalog entry. Immutable after config load.
type Product struct {
	Key           string  `yaml:"key" json:"key"`                         // Unique ID (e.g., "item_cola")
	Name          string  `yaml:"name" json:"name"`                       // Display name
	BaseDemand    float64 `yaml:"base_demand" json:"base_demand"`         // Baseline per-tick sale probability weight
	BasePrice     float64 `yaml:"base_price" json:"base_price"`           // Credited per unit sold
	ShelfLifeDays int     `yaml:"shelf_life_days" json:"shelf_life_days"` // Days before stock spoils
}

// Catalog holds the ordered product list plus a key index.
type Catalog struct {
	products []Product
	index    map[string]int
}

// NewCatalog builds a catalog from the config's product list.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: append([]Product(nil), products...),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		c.index[p.Key] = i
	}
	return c
}

// Products returns the catalog in declaration order. Callers must not mutate.
func (c *Catalog) Products() []Product {
	return c.products
}

// Get returns the product for a key. Returns nil if the key is unknown.
func (c *Catalog) Get(key string) *Product {
	i, ok := c.index[key]
	if !ok {
		return nil
	}
	return &c.products[i]
}

// Has reports whether the key names a catalog product.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}
