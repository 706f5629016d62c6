package repositories

import (
	"errors"

	"mercadoria/internal/models"
)

var (
	// ErrProductNotFound is returned by lookups when no product has the given ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrConstraintViolation is returned by Save when the store rejects the
	// write because of a uniqueness or integrity constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	ExistsByName(name string) (bool, error)
	ExistsByID(id string) (bool, error)
	FindByID(id string) (*models.Product, error)
	FindAll() ([]models.Product, error)
	// Save inserts the product when its ID is empty, assigning a new one,
	// and overwrites the stored record otherwise. Overwriting a record that no
	// longer exists returns ErrProductNotFound.
	Save(product *models.Product) error
	DeleteByID(id string) error
}
