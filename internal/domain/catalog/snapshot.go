package catalog

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Snapshot is an immutable, in-memory copy of the product catalog taken at LoadedAt.
// Lookups by id are O(1); filtering is a linear scan in catalog order.
type Snapshot struct {
	products []Product
	index    map[int64]int
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from products. The slice is copied.
// If the same id appears more than once, the first occurrence wins for lookups.
func NewSnapshot(products []Product, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		products: make([]Product, len(products)),
		index:    make(map[int64]int, len(products)),
		loadedAt: loadedAt,
	}
	copy(s.products, products)
	for i, p := range s.products {
		if _, exists := s.index[p.ID]; !exists {
			s.index[p.ID] = i
		}
	}
	return s
}

// EmptySnapshot returns a snapshot with no products, used before the first load.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, time.Time{})
}

// Len returns the number of products
func (s *Snapshot) Len() int {
	return len(s.products)
}

// LoadedAt returns when the snapshot was taken; zero for the empty snapshot.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// IsLoaded reports whether the snapshot came from a successful load.
func (s *Snapshot) IsLoaded() bool {
	return !s.loadedAt.IsZero()
}

// Products returns a copy of all products in catalog order
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Find resolves a product by id.
func (s *Snapshot) Find(id int64) (Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Filter returns the products whose name or code contains query, ignoring case and
// surrounding whitespace. An empty query returns every product in catalog order.
func (s *Snapshot) Filter(query string) []Product {
	return s.Search(query, 0)
}

// Search is Filter with a result cap. limit <= 0 means no cap.
func (s *Snapshot) Search(query string, limit int) []Product {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	out := make([]Product, 0)
	for _, p := range s.products {
		if limit > 0 && len(out) >= limit {
			break
		}
		if needle == "" || matches(fold, p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(fold cases.Caser, p Product, needle string) bool {
	if strings.Contains(fold.String(p.Name), needle) {
		return true
	}
	return p.Code != nil && strings.Contains(fold.String(*p.Code), needle)
}

// LowStock returns products at or below their reorder level, in catalog order.
func (s *Snapshot) LowStock() []Product {
	out := make([]Product, 0)
	for _, p := range s.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
