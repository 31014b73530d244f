package deliveries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, []string{"Natural Care", "Givaan"}, c.Clients())
	assert.Len(t, c.Products("Natural Care"), 7)
	assert.Len(t, c.Products("Givaan"), 3)
	assert.Nil(t, c.Products("Desconocido"))
}

func TestCatalogAllows(t *testing.T) {
	c := DefaultCatalog()

	assert.True(t, c.HasClient("Givaan"))
	assert.False(t, c.HasClient("Acme"))

	assert.True(t, c.Allows("Natural Care", "Gastriless"))
	assert.True(t, c.Allows("Givaan", "Producto Z"))
	assert.False(t, c.Allows("Givaan", "Santo Remedio"))
	assert.False(t, c.Allows("Acme", "Producto X"))
}

func TestCatalogProductsCopy(t *testing.T) {
	c := DefaultCatalog()

	products := c.Products("Givaan")
	products[0] = "mutated"
	assert.Equal(t, "Producto X", c.Products("Givaan")[0])
}
