package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CORS(t *testing.T) {
	testCases := []struct {
		name           string
		config         CORSConfig
		method         string
		origin         string
		expectedCode   int
		expectedOrigin string
		expectedBody   string
		nextCalled     bool
	}{
		{
			name:           "preflight answered without calling next",
			config:         DefaultCORSConfig(),
			method:         http.MethodOptions,
			origin:         "http://front.local",
			expectedCode:   http.StatusOK,
			expectedOrigin: "*",
			expectedBody:   "",
		},
		{
			name:           "simple request gets headers",
			config:         DefaultCORSConfig(),
			method:         http.MethodPost,
			expectedCode:   http.StatusAccepted,
			expectedOrigin: "*",
			expectedBody:   "next",
			nextCalled:     true,
		},
		{
			name:           "listed origin is echoed",
			config:         CORSConfig{AllowedOrigins: []string{"http://front.local"}, AllowedMethods: []string{"GET"}},
			method:         http.MethodGet,
			origin:         "http://front.local",
			expectedCode:   http.StatusAccepted,
			expectedOrigin: "http://front.local",
			expectedBody:   "next",
			nextCalled:     true,
		},
		{
			name:           "unlisted origin gets no allow-origin",
			config:         CORSConfig{AllowedOrigins: []string{"http://front.local"}, AllowedMethods: []string{"GET"}},
			method:         http.MethodGet,
			origin:         "http://evil.local",
			expectedCode:   http.StatusAccepted,
			expectedOrigin: "",
			expectedBody:   "next",
			nextCalled:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte("next"))
			})
			req := httptest.NewRequest(tc.method, "/soap", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			// when
			CORS(tc.config)(next).ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.expectedBody, rr.Body.String())
			assert.Equal(t, tc.nextCalled, called)
		})
	}
}

func Test_CORS_DefaultHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	CORS(DefaultCORSConfig())(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/anything", nil))

	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
}
