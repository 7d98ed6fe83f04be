// Package e2e runs the catalog service end to end against a real XML file.
// Each test gets a fresh catalog in a temporary directory and talks to the
// handler through an httptest.Server, covering the SOAP endpoint, the REST API,
// CORS, metrics and the static front-end.
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abgdnv/xmlcatalog/internal/app"
	"github.com/abgdnv/xmlcatalog/internal/service"
	"github.com/abgdnv/xmlcatalog/internal/store"
	"github.com/abgdnv/xmlcatalog/pkg/telemetry"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const productURL = "/api/v1/products"

const seedCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<productos>
  <producto id="1">
    <nombre>Lapiz</nombre>
    <precio>10</precio>
    <cantidad>5</cantidad>
  </producto>
  <producto id="3">
    <nombre>Cuaderno</nombre>
    <precio>20</precio>
    <cantidad>2</cantidad>
  </producto>
</productos>
`

// CatalogE2ESuite is a test suite for end-to-end tests of the catalog service.
type CatalogE2ESuite struct {
	suite.Suite
	dir         string
	catalogPath string
	server      *httptest.Server
	httpClient  *http.Client
	metrics     *telemetry.Metrics
}

func TestCatalogE2ESuite(t *testing.T) {
	suite.Run(t, new(CatalogE2ESuite))
}

func (s *CatalogE2ESuite) SetupSuite() {
	metrics, err := telemetry.NewMetrics("catalog-e2e")
	s.Require().NoError(err)
	s.metrics = metrics
}

func (s *CatalogE2ESuite) TearDownSuite() {
	s.NoError(s.metrics.Shutdown(context.Background()))
}

func (s *CatalogE2ESuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.catalogPath = filepath.Join(s.dir, "xml", "datos.xml")
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.catalogPath), 0o755))
	s.Require().NoError(os.WriteFile(s.catalogPath, []byte(seedCatalog), 0o644))
	staticDir := filepath.Join(s.dir, "front")
	s.Require().NoError(os.MkdirAll(staticDir, 0o755))
	s.Require().NoError(os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>catalogo</h1>"), 0o644))

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	deps := app.SetupDependencies(store.NewFileStore(s.catalogPath), nil, logger)
	deps.StaticDir = staticDir
	deps.MetricsHandler = s.metrics.Handler()
	deps.MetricsPath = "/metrics"

	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
}

func (s *CatalogE2ESuite) TearDownTest() {
	s.server.Close()
}

func (s *CatalogE2ESuite) soapCall(body string) (int, string) {
	envelope := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ser="mi.soap.crud"><soapenv:Body>` +
		body + `</soapenv:Body></soapenv:Envelope>`
	resp, err := s.httpClient.Post(s.server.URL+"/soap", "text/xml", strings.NewReader(envelope))
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, string(out)
}

func (s *CatalogE2ESuite) readCatalog() string {
	data, err := os.ReadFile(s.catalogPath)
	s.Require().NoError(err)
	return string(data)
}

func (s *CatalogE2ESuite) products() []store.Product {
	catalog, err := store.ParseCatalog([]byte(s.readCatalog()))
	s.Require().NoError(err)
	return catalog.Products()
}

func (s *CatalogE2ESuite) TestSoap_AddThenList() {
	code, body := s.soapCall(`<ser:agregar><ser:nombre>Goma</ser:nombre><ser:precio>5</ser:precio><ser:cantidad>1</ser:cantidad></ser:agregar>`)
	s.Equal(http.StatusOK, code)
	s.Contains(body, "<tns:agregarResult>Producto agregado</tns:agregarResult>")

	products := s.products()
	s.Require().Len(products, 3)
	s.Equal(store.Product{ID: 4, Name: "Goma", Price: "5", Quantity: "1"}, products[2])

	code, body = s.soapCall(`<ser:listar/>`)
	s.Equal(http.StatusOK, code)
	s.Contains(body, "&lt;nombre&gt;Goma&lt;/nombre&gt;")
	s.True(strings.HasPrefix(s.readCatalog(), `<?xml version="1.0" encoding="UTF-8"?>`))
}

func (s *CatalogE2ESuite) TestSoap_DeleteMissingLeavesFileUntouched() {
	before := s.readCatalog()

	code, body := s.soapCall(`<ser:eliminar><ser:producto_id>2</ser:producto_id></ser:eliminar>`)

	s.Equal(http.StatusOK, code)
	s.Contains(body, "<tns:eliminarResult>ID no encontrado</tns:eliminarResult>")
	s.Equal(before, s.readCatalog())
}

func (s *CatalogE2ESuite) TestSoap_UpdateKeepsBlankFields() {
	code, body := s.soapCall(`<ser:actualizar><ser:producto_id>3</ser:producto_id><ser:nombre> </ser:nombre><ser:precio>25</ser:precio><ser:cantidad></ser:cantidad></ser:actualizar>`)

	s.Equal(http.StatusOK, code)
	s.Contains(body, "Producto 3 actualizado")
	s.Equal(store.Product{ID: 3, Name: "Cuaderno", Price: "25", Quantity: "2"}, s.products()[1])
}

func (s *CatalogE2ESuite) TestSoap_Report() {
	code, body := s.soapCall(`<ser:reporte/>`)

	s.Equal(http.StatusOK, code)
	s.Contains(body, "&lt;suma_total_precios&gt;30.0&lt;/suma_total_precios&gt;")
	s.Contains(body, "&lt;porcentaje&gt;66.67&lt;/porcentaje&gt;")
}

func (s *CatalogE2ESuite) TestSoap_Faults() {
	code, body := s.soapCall(`<ser:eliminar><ser:producto_id>dos</ser:producto_id></ser:eliminar>`)
	s.Equal(http.StatusInternalServerError, code)
	s.Contains(body, "<faultcode>soap11env:Client</faultcode>")

	s.Require().NoError(os.Remove(s.catalogPath))
	code, body = s.soapCall(`<ser:listar/>`)
	s.Equal(http.StatusInternalServerError, code)
	s.Contains(body, "<faultcode>soap11env:Server</faultcode>")
}

func (s *CatalogE2ESuite) TestRest_CRUD() {
	// create
	resp, err := s.httpClient.Post(s.server.URL+productURL, "application/json", strings.NewReader(`{"name":"Regla","price":"7.5","quantity":"3"}`))
	s.Require().NoError(err)
	var created service.Confirmation
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(4, created.ID)

	// read
	resp, err = s.httpClient.Get(s.server.URL + productURL + "/4")
	s.Require().NoError(err)
	var found service.ProductDto
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&found))
	_ = resp.Body.Close()
	s.Equal(service.ProductDto{ID: 4, Name: "Regla", Price: "7.5", Quantity: "3"}, found)

	// update
	req, err := http.NewRequest(http.MethodPut, s.server.URL+productURL+"/4", strings.NewReader(`{"quantity":"9"}`))
	s.Require().NoError(err)
	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("9", s.products()[2].Quantity)

	// delete
	req, err = http.NewRequest(http.MethodDelete, s.server.URL+productURL+"/4", nil)
	s.Require().NoError(err)
	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Len(s.products(), 2)

	// delete again
	req, err = http.NewRequest(http.MethodDelete, s.server.URL+productURL+"/4", nil)
	s.Require().NoError(err)
	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *CatalogE2ESuite) TestHttp_Surface() {
	testCases := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		contains     string
	}{
		{name: "preflight", method: http.MethodOptions, path: "/soap", expectedCode: http.StatusOK},
		{name: "wsdl on soap path", method: http.MethodGet, path: "/soap?wsdl", expectedCode: http.StatusOK, contains: "<wsdl:definitions"},
		{name: "wsdl on root", method: http.MethodGet, path: "/?wsdl", expectedCode: http.StatusOK, contains: "/soap\"/>"},
		{name: "static index", method: http.MethodGet, path: "/", expectedCode: http.StatusOK, contains: "catalogo"},
		{name: "static file", method: http.MethodGet, path: "/index.html", expectedCode: http.StatusMovedPermanently},
		{name: "missing static file", method: http.MethodGet, path: "/app.js", expectedCode: http.StatusNotFound},
		{name: "healthz", method: http.MethodGet, path: "/healthz", expectedCode: http.StatusOK},
		{name: "report", method: http.MethodGet, path: productURL + "/report", expectedCode: http.StatusOK, contains: `"total_products":2`},
	}

	client := *s.httpClient
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := http.NewRequest(tc.method, s.server.URL+tc.path, nil)
			s.Require().NoError(err)
			resp, err := client.Do(req)
			s.Require().NoError(err)
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			s.Require().NoError(err)

			s.Equal(tc.expectedCode, resp.StatusCode)
			s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
			s.Contains(string(body), tc.contains)
		})
	}
}

func (s *CatalogE2ESuite) TestMetrics_CountOperations() {
	code, _ := s.soapCall(`<ser:listar/>`)
	require.Equal(s.T(), http.StatusOK, code)

	resp, err := s.httpClient.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), `catalog_operations_total{`)
	s.Contains(string(body), `operation="list"`)
}
