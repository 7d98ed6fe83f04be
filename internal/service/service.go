// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	perrors "github.com/abgdnv/xmlcatalog/internal/errors"
	"github.com/abgdnv/xmlcatalog/internal/store"
	"github.com/abgdnv/xmlcatalog/pkg/messaging"
	"github.com/abgdnv/xmlcatalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Messages returned to callers of the mutating operations.
const (
	MsgProductAdded = "Producto agregado"
	MsgNotFound     = "ID no encontrado"
)

const instrumentationName = "github.com/abgdnv/xmlcatalog/internal/service"

// CatalogService defines the operations on the product catalog.
// Every call reloads the catalog file; mutating calls rewrite it.
type CatalogService interface {
	// List returns the whole catalog rendered as XML.
	List(ctx context.Context) (string, error)

	// FindAll returns every product in catalog order.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID returns a single product.
	// Returns ErrProductNotFound if no product has the given ID.
	FindByID(ctx context.Context, id int) (*ProductDto, error)

	// Add appends a product with the next free id.
	Add(ctx context.Context, input ProductInput) (*Confirmation, error)

	// Delete removes a product. A missing product is reported through the
	// confirmation, not as an error, and leaves the file untouched.
	Delete(ctx context.Context, id int) (*Confirmation, error)

	// Update overwrites the non-blank fields of a product.
	// A missing product is reported through the confirmation, not as an error.
	Update(ctx context.Context, id int, input ProductInput) (*Confirmation, error)

	// Report computes the product count, the price total and each product's share of it.
	Report(ctx context.Context) (*Report, error)
}

// Service implements CatalogService on top of a CatalogStore.
type Service struct {
	repository store.CatalogStore
	publisher  messaging.Publisher
	tracer     trace.Tracer
	operations metric.Int64Counter
}

// NewService creates a new instance of CatalogService with the provided repository and publisher.
func NewService(repo store.CatalogStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter(instrumentationName)
	operations, err := meter.Int64Counter("catalog_operations",
		metric.WithDescription("Total number of catalog operations by outcome"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_operations counter: %v", err))
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		tracer:     otel.Tracer(instrumentationName),
		operations: operations,
	}
}

// ProductInput carries the fields supplied by a caller.
// Values are free text; price and quantity are not validated.
type ProductInput struct {
	Name     string `json:"name"     validate:"max=200"`
	Price    string `json:"price"    validate:"max=64"`
	Quantity string `json:"quantity" validate:"max=64"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Confirmation is the outcome of a mutating operation.
type Confirmation struct {
	ID       int    `json:"id,omitempty"`
	Message  string `json:"message"`
	NotFound bool   `json:"-"`
}

// List returns the catalog root element as indented XML text.
func (s *Service) List(ctx context.Context) (string, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.List")
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "list", err)
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}
	out, err := catalog.XML()
	if err != nil {
		s.fail(ctx, span, "list", err)
		return "", err
	}
	s.record(ctx, "list", "ok")
	return out, nil
}

// FindAll returns all products as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FindAll")
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "find_all", err)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	products := catalog.Products()
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = toDto(item)
	}
	s.record(ctx, "find_all", "ok")
	return productDTOs, nil
}

// FindByID returns a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int) (*ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FindByID", trace.WithAttributes(attribute.Int("product.id", id)))
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "find_by_id", err)
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	product, ok := catalog.Find(id)
	if !ok {
		s.record(ctx, "find_by_id", "not_found")
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, perrors.ErrProductNotFound)
	}
	s.record(ctx, "find_by_id", "ok")
	dto := toDto(product)
	return &dto, nil
}

// Add appends a product with id max(existing)+1 and persists the catalog.
func (s *Service) Add(ctx context.Context, input ProductInput) (*Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Add")
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "add", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	product := catalog.Append(input.Name, input.Price, input.Quantity)
	if err := s.repository.Save(ctx, catalog); err != nil {
		s.fail(ctx, span, "add", err)
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	span.SetAttributes(attribute.Int("product.id", product.ID))
	s.record(ctx, "add", "ok")
	s.publish(ctx, events.NewProductAdded(product.ID, product.Name, product.Price, product.Quantity))

	return &Confirmation{ID: product.ID, Message: MsgProductAdded}, nil
}

// Delete removes the product with the given ID and persists the catalog.
func (s *Service) Delete(ctx context.Context, id int) (*Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Delete", trace.WithAttributes(attribute.Int("product.id", id)))
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "delete", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if !catalog.Remove(id) {
		s.record(ctx, "delete", "not_found")
		return notFound(id), nil
	}
	if err := s.repository.Save(ctx, catalog); err != nil {
		s.fail(ctx, span, "delete", err)
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	s.record(ctx, "delete", "ok")
	s.publish(ctx, events.NewProductDeleted(id))

	return &Confirmation{ID: id, Message: fmt.Sprintf("Producto %d eliminado", id)}, nil
}

// Update replaces every field whose supplied value is not blank and persists the catalog.
// Blank values (empty after trimming) keep the stored value.
func (s *Service) Update(ctx context.Context, id int, input ProductInput) (*Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Update", trace.WithAttributes(attribute.Int("product.id", id)))
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "update", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	updated, ok := catalog.Patch(id, store.ProductPatch{
		Name:     nonBlank(input.Name),
		Price:    nonBlank(input.Price),
		Quantity: nonBlank(input.Quantity),
	})
	if !ok {
		s.record(ctx, "update", "not_found")
		return notFound(id), nil
	}
	if err := s.repository.Save(ctx, catalog); err != nil {
		s.fail(ctx, span, "update", err)
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	s.record(ctx, "update", "ok")
	s.publish(ctx, events.NewProductUpdated(updated.ID, updated.Name, updated.Price, updated.Quantity))

	return &Confirmation{ID: id, Message: fmt.Sprintf("Producto %d actualizado", id)}, nil
}

// Report loads the catalog and summarizes it.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Report")
	defer span.End()

	catalog, err := s.repository.Load(ctx)
	if err != nil {
		s.fail(ctx, span, "report", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	report := BuildReport(catalog.Products())
	span.SetAttributes(attribute.Int("catalog.products", report.TotalProducts))
	s.record(ctx, "report", "ok")
	return report, nil
}

// publish sends the event; a failure is logged and never fails the operation.
func (s *Service) publish(ctx context.Context, event events.ProductEvent) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event.Carrier = carrier
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish catalog event", "subject", event.Subject(), "error", err)
	}
}

func (s *Service) record(ctx context.Context, operation, outcome string) {
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (s *Service) fail(ctx context.Context, span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	outcome := "error"
	if errors.Is(err, perrors.ErrCatalogUnavailable) {
		outcome = "unavailable"
	}
	s.record(ctx, operation, outcome)
}

func notFound(id int) *Confirmation {
	return &Confirmation{ID: id, Message: MsgNotFound, NotFound: true}
}

// nonBlank returns nil for values that are empty after trimming, so the field is left unchanged.
// The stored value is the untrimmed input.
func nonBlank(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) ProductDto {
	return ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
	}
}
