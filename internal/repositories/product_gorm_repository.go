package repositories

import (
	"errors"
	"fmt"

	"mercadoria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB must be opened with TranslateError enabled so that constraint
// failures can be told apart from other errors.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ExistsByName reports whether a product with exactly this name is stored.
func (r *GORMProductRepository) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("nome = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product name %q: %w", name, err)
	}
	return count > 0, nil
}

// ExistsByID reports whether a product with this ID is stored.
func (r *GORMProductRepository) ExistsByID(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product ID %s: %w", id, err)
	}
	return count > 0, nil
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// FindAll retrieves all products in creation order.
func (r *GORMProductRepository) FindAll() ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.Order("created_at").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Save creates the product when it has no ID yet and updates every column otherwise.
// Updating an ID that is no longer stored returns ErrProductNotFound; the row is
// never re-inserted.
func (r *GORMProductRepository) Save(product *models.Product) error {
	var err error
	if product.ID == "" {
		product.ID = uuid.New().String()
		err = r.db.Create(product).Error
		if err != nil {
			// the row was never written, so the product keeps no identity
			product.ID = ""
		}
	} else {
		// Select("*") writes zero values too, so quantidade=0 is persisted
		res := r.db.Model(product).Select("*").Updates(product)
		err = res.Error
		if err == nil && res.RowsAffected == 0 {
			return ErrProductNotFound
		}
	}
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// DeleteByID deletes a product by its ID from the database.
func (r *GORMProductRepository) DeleteByID(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func isConstraintError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}
