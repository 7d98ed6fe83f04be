// Package soap exposes the catalog operations as a SOAP 1.1 service.
package soap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/xmlcatalog/internal/errors"
	"github.com/abgdnv/xmlcatalog/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SoapPath is where the service is mounted.
const SoapPath = "/soap"

const maxEnvelopeBytes = 1 << 20

// Operation names.
const (
	OpListar     = "listar"
	OpAgregar    = "agregar"
	OpEliminar   = "eliminar"
	OpActualizar = "actualizar"
	OpReporte    = "reporte"
)

// CatalogService is the subset of the catalog service used by the SOAP endpoint.
type CatalogService interface {
	List(ctx context.Context) (string, error)
	Add(ctx context.Context, input service.ProductInput) (*service.Confirmation, error)
	Delete(ctx context.Context, id int) (*service.Confirmation, error)
	Update(ctx context.Context, id int, input service.ProductInput) (*service.Confirmation, error)
	Report(ctx context.Context) (*service.Report, error)
}

// clientError marks a request the caller got wrong.
type clientError struct{ err error }

func (e clientError) Error() string { return e.err.Error() }
func (e clientError) Unwrap() error { return e.err }

type Handler struct {
	service CatalogService
	logger  *slog.Logger
}

// NewHandler creates the SOAP endpoint on top of the catalog service.
func NewHandler(service CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "soap"),
	}
}

// RegisterRoutes mounts the endpoint on /soap and accepts calls posted to / as well.
// GET / is left to the caller so that static files can share the root; wrap that
// handler with WithWSDL.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(SoapPath, h.WithWSDL(http.HandlerFunc(h.methodNotAllowed)).ServeHTTP)
	r.Post(SoapPath, h.Serve)
	r.Post("/", h.Serve)
}

// WithWSDL answers requests carrying a wsdl query parameter with the service
// description and hands everything else to next.
func (h *Handler) WithWSDL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("wsdl") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(WSDL(endpointURL(r))))
	})
}

// Serve decodes one envelope, runs the operation and writes the response envelope.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	call, err := DecodeCall(http.MaxBytesReader(w, r.Body, maxEnvelopeBytes))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Malformed soap request", "error", err)
		h.fault(w, mLogger, FaultClient, err.Error())
		return
	}

	mLogger.DebugContext(r.Context(), "Received soap call", "operation", call.Operation)
	result, err := h.dispatch(r.Context(), call)
	if err != nil {
		var ce clientError
		switch {
		case errors.As(err, &ce):
			mLogger.WarnContext(r.Context(), "Rejected soap call", "operation", call.Operation, "error", err)
			h.fault(w, mLogger, FaultClient, ce.Error())
		case errors.Is(err, perrors.ErrCatalogUnavailable):
			mLogger.ErrorContext(r.Context(), "Catalog unavailable", "operation", call.Operation, "error", err)
			h.fault(w, mLogger, FaultServer, "Catalog unavailable")
		default:
			mLogger.ErrorContext(r.Context(), "Soap call failed", "operation", call.Operation, "error", err)
			h.fault(w, mLogger, FaultServer, "Internal error")
		}
		return
	}

	out, err := EncodeResult(call.Operation, result)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error encoding soap response", "error", err)
		h.fault(w, mLogger, FaultServer, "Internal error")
		return
	}
	respondXML(w, mLogger, http.StatusOK, out)
}

func (h *Handler) dispatch(ctx context.Context, call *Call) (string, error) {
	switch call.Operation {
	case OpListar:
		return h.service.List(ctx)
	case OpAgregar:
		confirmation, err := h.service.Add(ctx, input(call))
		if err != nil {
			return "", err
		}
		return confirmation.Message, nil
	case OpEliminar:
		id, err := call.ProductID()
		if err != nil {
			return "", clientError{err}
		}
		confirmation, err := h.service.Delete(ctx, id)
		if err != nil {
			return "", err
		}
		return confirmation.Message, nil
	case OpActualizar:
		id, err := call.ProductID()
		if err != nil {
			return "", clientError{err}
		}
		confirmation, err := h.service.Update(ctx, id, input(call))
		if err != nil {
			return "", err
		}
		return confirmation.Message, nil
	case OpReporte:
		report, err := h.service.Report(ctx)
		if err != nil {
			return "", err
		}
		return RenderReport(report)
	default:
		return "", clientError{errors.New("unknown operation: " + call.Operation)}
	}
}

func input(call *Call) service.ProductInput {
	return service.ProductInput{
		Name:     value(call.Nombre),
		Price:    value(call.Precio),
		Quantity: value(call.Cantidad),
	}
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	out, err := EncodeFault(FaultClient, "Use POST to call operations or GET ?wsdl for the service description")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Allow", "GET, POST")
	respondXML(w, mLogger, http.StatusMethodNotAllowed, out)
}

// fault writes a SOAP fault; SOAP 1.1 carries faults with status 500.
func (h *Handler) fault(w http.ResponseWriter, logger *slog.Logger, code, message string) {
	out, err := EncodeFault(code, message)
	if err != nil {
		logger.Error("Error encoding soap fault", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	respondXML(w, logger, http.StatusInternalServerError, out)
}

func respondXML(w http.ResponseWriter, logger *slog.Logger, status int, body []byte) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Debug("Error writing soap response", "error", err)
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
