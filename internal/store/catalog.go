package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Element names of the persisted catalog.
const (
	rootTag     = "productos"
	productTag  = "producto"
	idAttr      = "id"
	nameTag     = "nombre"
	priceTag    = "precio"
	quantityTag = "cantidad"
)

const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// Product is a read-only view of one producto element.
// Price and Quantity are kept as the text found in the file.
type Product struct {
	ID       int
	Name     string
	Price    string
	Quantity string
}

// ProductPatch carries the fields to overwrite. Nil fields are left untouched.
type ProductPatch struct {
	Name     *string
	Price    *string
	Quantity *string
}

// Catalog is the parsed XML document. Mutations operate on the element tree,
// so content the catalog does not know about survives a rewrite.
type Catalog struct {
	doc *etree.Document
}

// NewCatalog returns a catalog with an empty root element.
func NewCatalog() *Catalog {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	doc.CreateElement(rootTag)
	return &Catalog{doc: doc}
}

// ParseCatalog parses a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse catalog: document has no root element")
	}
	return &Catalog{doc: doc}, nil
}

// Products returns every product in document order.
func (c *Catalog) Products() []Product {
	elements := c.productElements()
	products := make([]Product, 0, len(elements))
	for _, el := range elements {
		products = append(products, toProduct(el))
	}
	return products
}

// Find returns the product whose id attribute matches id.
func (c *Catalog) Find(id int) (Product, bool) {
	el := c.find(id)
	if el == nil {
		return Product{}, false
	}
	return toProduct(el), true
}

// NextID returns max(existing ids) + 1, or 1 when no product carries a numeric id.
func (c *Catalog) NextID() int {
	maxID := 0
	found := false
	for _, el := range c.productElements() {
		id, err := parseID(el.SelectAttrValue(idAttr, ""))
		if err != nil {
			continue
		}
		if !found || id > maxID {
			maxID = id
			found = true
		}
	}
	if !found {
		return 1
	}
	return maxID + 1
}

// Append adds a product at the end of the catalog and returns it with its assigned id.
func (c *Catalog) Append(name, price, quantity string) Product {
	id := c.NextID()
	el := c.doc.Root().CreateElement(productTag)
	el.CreateAttr(idAttr, strconv.Itoa(id))
	el.CreateElement(nameTag).SetText(name)
	el.CreateElement(priceTag).SetText(price)
	el.CreateElement(quantityTag).SetText(quantity)
	return toProduct(el)
}

// Remove deletes the first product matching id. It reports whether a product was removed.
func (c *Catalog) Remove(id int) bool {
	el := c.find(id)
	if el == nil {
		return false
	}
	c.doc.Root().RemoveChild(el)
	return true
}

// Patch overwrites the non-nil fields of the product matching id.
func (c *Catalog) Patch(id int, patch ProductPatch) (Product, bool) {
	el := c.find(id)
	if el == nil {
		return Product{}, false
	}
	setChildText(el, nameTag, patch.Name)
	setChildText(el, priceTag, patch.Price)
	setChildText(el, quantityTag, patch.Quantity)
	return toProduct(el), true
}

// XML renders the root element, indented, without the XML declaration.
func (c *Catalog) XML() (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(c.doc.Root().Copy())
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to render catalog: %w", err)
	}
	return out, nil
}

// Bytes renders the whole document as it is written to disk.
func (c *Catalog) Bytes() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	doc.SetRoot(c.doc.Root().Copy())
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render catalog: %w", err)
	}
	return out, nil
}

func (c *Catalog) productElements() []*etree.Element {
	return c.doc.Root().SelectElements(productTag)
}

func (c *Catalog) find(id int) *etree.Element {
	want := strconv.Itoa(id)
	for _, el := range c.productElements() {
		if el.SelectAttrValue(idAttr, "") == want {
			return el
		}
	}
	return nil
}

func toProduct(el *etree.Element) Product {
	// a non-numeric id is kept in the file but surfaces as 0
	id, _ := parseID(el.SelectAttrValue(idAttr, ""))
	return Product{
		ID:       id,
		Name:     childText(el, nameTag),
		Price:    childText(el, priceTag),
		Quantity: childText(el, quantityTag),
	}
}

func parseID(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}

func setChildText(el *etree.Element, tag string, value *string) {
	if value == nil {
		return
	}
	child := el.SelectElement(tag)
	if child == nil {
		child = el.CreateElement(tag)
	}
	child.SetText(*value)
}
