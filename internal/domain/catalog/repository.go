package catalog

import "context"

// ProductRepository provides access to catalog products.
// Implementations must return fully validated aggregates; a stored rule
// list that violates catalog invariants surfaces as an error here.
type ProductRepository interface {
	// FindByID returns the product with the given ID
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindByCode returns the product with the given code
	FindByCode(ctx context.Context, code string) (*Product, error)
	// FindAll returns all products
	FindAll(ctx context.Context) ([]*Product, error)
	// Save persists a product and its rule lists
	Save(ctx context.Context, product *Product) error
}
