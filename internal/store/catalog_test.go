package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<productos>
  <producto id="1">
    <nombre>Lapiz</nombre>
    <precio>10</precio>
    <cantidad>5</cantidad>
  </producto>
  <producto id="3">
    <nombre>Cuaderno</nombre>
    <precio>20.5</precio>
    <cantidad>2</cantidad>
    <proveedor>Norte</proveedor>
  </producto>
</productos>
`

func mustParse(t *testing.T, data string) *Catalog {
	t.Helper()
	catalog, err := ParseCatalog([]byte(data))
	require.NoError(t, err)
	return catalog
}

func strPtr(s string) *string {
	return &s
}

func Test_Catalog_NextID(t *testing.T) {
	testCases := []struct {
		name     string
		xml      string
		expected int
	}{
		{
			name:     "empty catalog starts at 1",
			xml:      `<productos/>`,
			expected: 1,
		},
		{
			name:     "max plus one",
			xml:      `<productos><producto id="3"/></productos>`,
			expected: 4,
		},
		{
			name:     "gaps are not reused",
			xml:      `<productos><producto id="7"/><producto id="2"/></productos>`,
			expected: 8,
		},
		{
			name:     "non numeric ids are ignored",
			xml:      `<productos><producto id="abc"/><producto id="2"/><producto/></productos>`,
			expected: 3,
		},
		{
			name:     "only non numeric ids",
			xml:      `<productos><producto id="x"/></productos>`,
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			catalog := mustParse(t, tc.xml)
			// when
			next := catalog.NextID()
			// then
			assert.Equal(t, tc.expected, next)
		})
	}
}

func Test_Catalog_Products(t *testing.T) {
	catalog := mustParse(t, sampleCatalog)

	products := catalog.Products()

	assert.Equal(t, []Product{
		{ID: 1, Name: "Lapiz", Price: "10", Quantity: "5"},
		{ID: 3, Name: "Cuaderno", Price: "20.5", Quantity: "2"},
	}, products)
}

func Test_Catalog_Append(t *testing.T) {
	catalog := mustParse(t, sampleCatalog)

	added := catalog.Append("Goma", "3", "10")

	assert.Equal(t, Product{ID: 4, Name: "Goma", Price: "3", Quantity: "10"}, added)
	products := catalog.Products()
	require.Len(t, products, 3)
	assert.Equal(t, added, products[2], "new products go to the end")
}

func Test_Catalog_Remove(t *testing.T) {
	catalog := mustParse(t, sampleCatalog)

	assert.False(t, catalog.Remove(2))
	assert.Len(t, catalog.Products(), 2)

	assert.True(t, catalog.Remove(1))
	products := catalog.Products()
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].ID)
	assert.Equal(t, 4, catalog.NextID())
}

func Test_Catalog_Patch(t *testing.T) {
	testCases := []struct {
		name     string
		id       int
		patch    ProductPatch
		expected Product
		found    bool
	}{
		{
			name:     "only the given fields change",
			id:       3,
			patch:    ProductPatch{Price: strPtr("25")},
			expected: Product{ID: 3, Name: "Cuaderno", Price: "25", Quantity: "2"},
			found:    true,
		},
		{
			name:     "empty patch leaves the product as is",
			id:       1,
			patch:    ProductPatch{},
			expected: Product{ID: 1, Name: "Lapiz", Price: "10", Quantity: "5"},
			found:    true,
		},
		{
			name:  "unknown id",
			id:    9,
			patch: ProductPatch{Name: strPtr("x")},
			found: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			catalog := mustParse(t, sampleCatalog)
			// when
			patched, ok := catalog.Patch(tc.id, tc.patch)
			// then
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, patched)
			if ok {
				found, _ := catalog.Find(tc.id)
				assert.Equal(t, tc.expected, found)
			}
		})
	}
}

func Test_Catalog_PatchCreatesMissingChild(t *testing.T) {
	catalog := mustParse(t, `<productos><producto id="1"><nombre>Lapiz</nombre></producto></productos>`)

	patched, ok := catalog.Patch(1, ProductPatch{Quantity: strPtr("4")})

	require.True(t, ok)
	assert.Equal(t, Product{ID: 1, Name: "Lapiz", Quantity: "4"}, patched)
}

func Test_Catalog_Bytes(t *testing.T) {
	catalog := mustParse(t, sampleCatalog)
	catalog.Append("Goma", "3", "10")

	out, err := catalog.Bytes()

	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, text, "<proveedor>Norte</proveedor>", "unknown elements are preserved")
	assert.Contains(t, text, `<producto id="4">`)
	reparsed := mustParse(t, text)
	assert.Equal(t, catalog.Products(), reparsed.Products())
}

func Test_Catalog_XML(t *testing.T) {
	catalog := mustParse(t, sampleCatalog)

	out, err := catalog.XML()

	require.NoError(t, err)
	assert.NotContains(t, out, "<?xml")
	assert.Contains(t, out, "<productos>")
	assert.Contains(t, out, "<nombre>Cuaderno</nombre>")
}

func Test_ParseCatalog_Invalid(t *testing.T) {
	for _, data := range []string{"", "<productos", "just text"} {
		_, err := ParseCatalog([]byte(data))
		assert.Error(t, err, "input %q", data)
	}
}
