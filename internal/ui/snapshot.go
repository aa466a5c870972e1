package ui

import (
	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

// Snapshot is one immutable view of the dashboard state. Every With* and
// list method returns a new Snapshot and leaves the receiver untouched.
type Snapshot struct {
	products []models.Product
	loading  bool
	err      string
}

func (s Snapshot) Products() []models.Product {
	return append([]models.Product(nil), s.products...)
}

func (s Snapshot) Loading() bool { return s.loading }
func (s Snapshot) Error() string { return s.err }
func (s Snapshot) Count() int    { return len(s.products) }

func (s Snapshot) TotalValue() float64 {
	return models.TotalValue(s.products)
}

func (s Snapshot) LowStockCount() int {
	return models.LowStockCount(s.products)
}

// Find returns the product with id, if present.
func (s Snapshot) Find(id string) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s Snapshot) WithProducts(products []models.Product) Snapshot {
	s.products = append([]models.Product(nil), products...)
	return s
}

func (s Snapshot) Prepend(p models.Product) Snapshot {
	next := make([]models.Product, 0, len(s.products)+1)
	next = append(next, p)
	s.products = append(next, s.products...)
	return s
}

// Replace swaps the item sharing p's id. Unknown ids leave the list as is.
func (s Snapshot) Replace(p models.Product) Snapshot {
	next := make([]models.Product, len(s.products))
	for i, existing := range s.products {
		if existing.ID == p.ID {
			existing = p
		}
		next[i] = existing
	}
	s.products = next
	return s
}

func (s Snapshot) Remove(id string) Snapshot {
	next := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	s.products = next
	return s
}

func (s Snapshot) WithLoading(loading bool) Snapshot {
	s.loading = loading
	return s
}

func (s Snapshot) WithError(msg string) Snapshot {
	s.err = msg
	return s
}
