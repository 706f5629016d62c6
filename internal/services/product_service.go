package services

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"mercadoria/internal/models"
	"mercadoria/internal/repositories"

	"github.com/go-playground/validator/v10"
	validators "github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// StockZeroQueue receives the name of every product whose quantity is updated to zero.
const StockZeroQueue = "stock-zero-queue"

// EventPublisher sends a message to a named queue without waiting for delivery.
type EventPublisher interface {
	Publish(queue string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    *slog.Logger
	validate  *validator.Validate
	inflight  sync.WaitGroup
}

// NewProductService creates a new ProductService. A nil publisher disables
// stock-zero notifications.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "product_service")),
		validate:  newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterStructValidation(validatePrice, models.ProductInput{})
	return v
}

// validatePrice rejects prices the preco column cannot store exactly.
func validatePrice(sl validator.StructLevel) {
	input := sl.Current().Interface().(models.ProductInput)
	if input.Price == nil {
		return
	}
	if !input.Price.Equal(input.Price.Round(models.PriceScale)) {
		sl.ReportError(input.Price, "preco", "Price", "max_scale", fmt.Sprint(models.PriceScale))
	}
	if input.Price.Abs().GreaterThanOrEqual(models.MaxPrice) {
		sl.ReportError(input.Price, "preco", "Price", "lt", models.MaxPrice.String())
	}
}

// GetAllProducts retrieves all products in the order the repository returns them.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

// CreateProduct validates the input, checks the name is free and stores a new product.
func (s *ProductService) CreateProduct(input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if exists {
		return nil, &DuplicateNameError{Name: input.Name}
	}

	product := models.NewProduct(input)
	if err := s.save(product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}

// UpdateProduct overwrites every field of an existing product except its ID.
// When the resulting quantity is zero a stock-zero notification is dispatched
// in the background.
func (s *ProductService) UpdateProduct(id string, input models.ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to check product %s: %w", id, err)
	}
	if !exists {
		return nil, &NotFoundError{ID: id}
	}

	product, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			// deleted between the two calls
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}

	product.Apply(input)
	if err := s.save(product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated",
		slog.String("product_id", product.ID),
		slog.Int("quantity", product.Quantity),
	)

	if product.OutOfStock() {
		s.notifyStockZero(product.Name)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return fmt.Errorf("failed to check product %s: %w", id, err)
	}
	if !exists {
		return &NotFoundError{ID: id}
	}

	if err := s.repo.DeleteByID(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return &NotFoundError{ID: id}
		}
		s.logger.Error("failed to delete product",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return &UnexpectedPersistenceError{Op: "deleting", Err: err}
	}

	s.logger.Info("product deleted", slog.String("product_id", id))
	return nil
}

// Wait blocks until every stock-zero notification already dispatched has finished.
func (s *ProductService) Wait() {
	s.inflight.Wait()
}

func (s *ProductService) validateInput(input models.ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		return &InvalidInputError{Err: err}
	}
	return nil
}

// save classifies repository failures so raw store errors never reach callers.
func (s *ProductService) save(product *models.Product) error {
	err := s.repo.Save(product)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrProductNotFound) {
		// deleted after it was loaded; an update never brings it back
		s.logger.Warn("product vanished before it could be saved",
			slog.String("product_id", product.ID),
		)
		return &NotFoundError{ID: product.ID}
	}
	if errors.Is(err, repositories.ErrConstraintViolation) {
		s.logger.Warn("constraint violation while saving product",
			slog.String("name", product.Name),
			slog.String("error", err.Error()),
		)
		return &ConflictOnSaveError{Name: product.Name, Err: err}
	}
	s.logger.Error("unexpected error while saving product",
		slog.String("name", product.Name),
		slog.String("error", err.Error()),
	)
	return &UnexpectedPersistenceError{Op: "saving", Err: err}
}

func (s *ProductService) notifyStockZero(name string) {
	if s.publisher == nil {
		s.logger.Warn("event publisher is not configured, skipping stock-zero notification",
			slog.String("name", name),
		)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.publisher.Publish(StockZeroQueue, []byte(name)); err != nil {
			s.logger.Warn("failed to publish stock-zero notification",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			return
		}
		s.logger.Info("stock-zero notification published", slog.String("name", name))
	}()
}
