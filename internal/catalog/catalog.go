package catalog

import "fmt"

// Catalog is the ordered, in-memory product collection.
// Positions are 1-based and shift down when a product is removed.
type Catalog struct {
	products []Product
}

// New returns a catalog holding a copy of products. Anything beyond
// MaxProducts is dropped.
func New(products []Product) *Catalog {
	if len(products) > MaxProducts {
		products = products[:MaxProducts]
	}
	c := &Catalog{products: make([]Product, len(products))}
	copy(c.products, products)
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Full reports whether another product would exceed MaxProducts.
func (c *Catalog) Full() bool {
	return len(c.products) >= MaxProducts
}

// Products returns a copy of the collection in registration order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Add appends p and returns its 1-based position.
func (c *Catalog) Add(p Product) (int, error) {
	if c.Full() {
		return 0, ErrCapacity
	}
	c.products = append(c.products, p)
	return len(c.products), nil
}

// Get returns the product at 1-based position n.
func (c *Catalog) Get(n int) (Product, error) {
	if err := c.check(n); err != nil {
		return Product{}, err
	}
	return c.products[n-1], nil
}

// Replace overwrites the product at 1-based position n.
func (c *Catalog) Replace(n int, p Product) error {
	if err := c.check(n); err != nil {
		return err
	}
	c.products[n-1] = p
	return nil
}

// Remove deletes the product at 1-based position n and returns it.
// Products after n move down by one position.
func (c *Catalog) Remove(n int) (Product, error) {
	if err := c.check(n); err != nil {
		return Product{}, err
	}
	removed := c.products[n-1]
	c.products = append(c.products[:n-1], c.products[n:]...)
	return removed, nil
}

func (c *Catalog) check(n int) error {
	if n < 1 || n > len(c.products) {
		return fmt.Errorf("%w: #%d (catalog has %d)", ErrNoSuchProduct, n, len(c.products))
	}
	return nil
}
