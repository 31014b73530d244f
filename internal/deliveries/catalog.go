package deliveries

// Catalog maps each client to the ordered list of products that may be sold
// under it. The entry form only accepts products drawn from the owning
// client's list.
type Catalog struct {
	clients  []string
	products map[string][]string
}

// NewCatalog builds a catalog from a client to product-list mapping. Client
// order follows the order of the clients slice.
func NewCatalog(clients []string, products map[string][]string) *Catalog {
	return &Catalog{clients: clients, products: products}
}

// DefaultCatalog returns the catalog currently in operation.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]string{"Natural Care", "Givaan"},
		map[string][]string{
			"Natural Care": {
				"Santo Remedio",
				"Dúo Santo Remedio",
				"Super Promo Santo Remedio",
				"Funjifin",
				"Dúo Funjifin",
				"Super Promo Funjifin",
				"Gastriless",
			},
			"Givaan": {
				"Producto X",
				"Producto Y",
				"Producto Z",
			},
		},
	)
}

// Clients lists the configured clients in display order.
func (c *Catalog) Clients() []string {
	out := make([]string, len(c.clients))
	copy(out, c.clients)
	return out
}

// Products returns the product list for a client, or nil for an unknown client.
func (c *Catalog) Products(client string) []string {
	products, ok := c.products[client]
	if !ok {
		return nil
	}
	out := make([]string, len(products))
	copy(out, products)
	return out
}

// HasClient reports whether the client is configured.
func (c *Catalog) HasClient(client string) bool {
	_, ok := c.products[client]
	return ok
}

// Allows reports whether the product belongs to the client's list.
func (c *Catalog) Allows(client, product string) bool {
	for _, p := range c.products[client] {
		if p == product {
			return true
		}
	}
	return false
}
