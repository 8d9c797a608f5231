/*
Package game
File: inventory.go
Description:
    Lot-tracked container inventory. A Stock maps product key -> InventoryItem,
    where each item remembers the day its units entered the container so the
    spoilage pass can age it against the product's shelf life.

    Machines carry Stock. Vehicles carry a plain quantity map (freshness is
    re-stamped when units move into a machine during a restock).
*/

package game

// InventoryItem is one lot of a single product inside a container.
type InventoryItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	DayAdded int    `json:"day_added"`
}

// Stock is a container's lot-tracked inventory, keyed by product.
type Stock map[string]InventoryItem

// Total returns the unit count across all products.
func (s Stock) Total() int {
	total := 0
	for _, it := range s {
		total += it.Quantity
	}
	return total
}

// Quantity returns the units held for one product.
func (s Stock) Quantity(product string) int {
	return s[product].Quantity
}

// Add merges qty units of a product into the stock at the given day.
// An existing lot has its quantity increased and its day re-stamped: a
// restock refreshes the whole facing.
func (s Stock) Add(product string, qty, day int) {
	if qty <= 0 {
		return
	}
	it := s[product]
	it.Product = product
	it.Quantity += qty
	it.DayAdded = day
	s[product] = it
}

// Remove takes up to qty units of a product, deleting the lot when it hits
// zero. Returns the units actually removed.
func (s Stock) Remove(product string, qty int) int {
	it, ok := s[product]
	if !ok || qty <= 0 {
		return 0
	}
	if qty > it.Quantity {
		qty = it.Quantity
	}
	it.Quantity -= qty
	if it.Quantity == 0 {
		delete(s, product)
	} else {
		s[product] = it
	}
	return qty
}

// Expired returns the lots whose age has reached the product's shelf life on
// the given day, in catalog order.
func (s Stock) Expired(catalog *Catalog, day int) []InventoryItem {
	var out []InventoryItem
	for _, p := range catalog.Products() {
		it, ok := s[p.Key]
		if !ok {
			continue
		}
		if day-it.DayAdded >= p.ShelfLifeDays {
			out = append(out, it)
		}
	}
	return out
}

// Clone deep-copies the stock.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for k, it := range s {
		out[k] = it
	}
	return out
}
