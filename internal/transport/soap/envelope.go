package soap

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Namespaces used in responses.
const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	TargetNamespace   = "mi.soap.crud"
)

// Fault codes of SOAP 1.1.
const (
	FaultClient = "soap11env:Client"
	FaultServer = "soap11env:Server"
)

var (
	errNotEnvelope = errors.New("document is not a soap envelope")
	errNoBody      = errors.New("soap envelope has no body")
	errEmptyBody   = errors.New("soap body has no operation element")
)

// Call is a decoded operation request. Parameters absent from the request are nil.
type Call struct {
	Operation  string
	Nombre     *string
	Precio     *string
	Cantidad   *string
	ProductoID *string
}

// DecodeCall reads a SOAP envelope and returns the first operation found in its body.
// Namespace prefixes are ignored when matching element names.
func DecodeCall(r io.Reader) (*Call, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("invalid soap envelope: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, errNotEnvelope
	}
	body := root.SelectElement("Body")
	if body == nil {
		return nil, errNoBody
	}
	ops := body.ChildElements()
	if len(ops) == 0 {
		return nil, errEmptyBody
	}

	op := ops[0]
	return &Call{
		Operation:  op.Tag,
		Nombre:     param(op, "nombre"),
		Precio:     param(op, "precio"),
		Cantidad:   param(op, "cantidad"),
		ProductoID: param(op, "producto_id"),
	}, nil
}

func param(op *etree.Element, name string) *string {
	e := op.SelectElement(name)
	if e == nil {
		return nil
	}
	text := e.Text()
	return &text
}

// ProductID parses producto_id.
func (c *Call) ProductID() (int, error) {
	if c.ProductoID == nil {
		return 0, errors.New("producto_id is required")
	}
	id, err := strconv.Atoi(strings.TrimSpace(*c.ProductoID))
	if err != nil {
		return 0, fmt.Errorf("producto_id must be an integer: %q", *c.ProductoID)
	}
	return id, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EncodeResult wraps text as <tns:{op}Response><tns:{op}Result>text</...></...>.
// Only '&', '<' and '>' are escaped in the result text.
func EncodeResult(operation, text string) ([]byte, error) {
	doc, body := newEnvelope()
	response := body.CreateElement("tns:" + operation + "Response")
	response.CreateElement("tns:" + operation + "Result").SetText(text)
	return write(doc)
}

// EncodeFault renders a fault envelope.
func EncodeFault(code, message string) ([]byte, error) {
	doc, body := newEnvelope()
	fault := body.CreateElement("soap11env:Fault")
	fault.CreateElement("faultcode").SetText(code)
	fault.CreateElement("faultstring").SetText(message)
	fault.CreateElement("faultactor")
	return write(doc)
}

func newEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soap11env:Envelope")
	env.CreateAttr("xmlns:soap11env", EnvelopeNamespace)
	env.CreateAttr("xmlns:tns", TargetNamespace)
	return doc, env.CreateElement("soap11env:Body")
}

func write(doc *etree.Document) ([]byte, error) {
	doc.WriteSettings.CanonicalText = true
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode soap response: %w", err)
	}
	return out, nil
}
