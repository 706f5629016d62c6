package repositories

import (
	"fmt"
	"sync"
	"time"

	"mercadoria/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It enforces name uniqueness the same way the database index does.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string // insertion order of IDs
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

func (r *MemoryProductRepository) ExistsByName(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, taken := r.ownerOf(name)
	return taken, nil
}

func (r *MemoryProductRepository) ExistsByID(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// FindByID returns a copy of the stored product.
func (r *MemoryProductRepository) FindByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// FindAll returns all products in insertion order.
func (r *MemoryProductRepository) FindAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		productList = append(productList, r.products[id])
	}
	return productList, nil
}

func (r *MemoryProductRepository) Save(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, stored := r.products[product.ID]
	if product.ID != "" && !stored {
		return ErrProductNotFound
	}

	if owner, taken := r.ownerOf(product.Name); taken && owner != product.ID {
		return fmt.Errorf("%w: name %q is already used by product %s", ErrConstraintViolation, product.Name, owner)
	}

	now := time.Now()
	if product.ID == "" {
		product.ID = uuid.New().String()
		product.CreatedAt = now
		r.order = append(r.order, product.ID)
	} else {
		product.CreatedAt = existing.CreatedAt
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) DeleteByID(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ownerOf must be called with the lock held.
func (r *MemoryProductRepository) ownerOf(name string) (string, bool) {
	for id, p := range r.products {
		if p.Name == name {
			return id, true
		}
	}
	return "", false
}
