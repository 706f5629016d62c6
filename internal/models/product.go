package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places the preco column keeps.
const PriceScale = 2

// MaxPrice is the first value that no longer fits the preco column (decimal(12,2)).
var MaxPrice = decimal.New(1, 10)

// Product represents a merchandise item in the catalog.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"nome" gorm:"column:nome;type:varchar(255);uniqueIndex;not null"`
	Description *string         `json:"descricao" gorm:"column:descricao;type:text"`
	Price       decimal.Decimal `json:"preco" gorm:"column:preco;type:decimal(12,2);not null"`
	Quantity    int             `json:"quantidade" gorm:"column:quantidade;not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName pins the table name so both drivers agree on it.
func (Product) TableName() string {
	return "products"
}

// MarshalJSON renders preco as a JSON number instead of decimal's default string.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"preco"`
	}{product(p), json.Number(p.Price.String())})
}

// OutOfStock reports whether the product has no units left.
func (p *Product) OutOfStock() bool {
	return p.Quantity == 0
}

// ProductInput is the payload used to create or update a product.
// It never carries an identifier. Price and Quantity are pointers so a
// missing field can be told apart from an explicit zero.
type ProductInput struct {
	Name        string           `json:"nome" validate:"required,notblank,max=255"`
	Price       *decimal.Decimal `json:"preco" validate:"required,gte=0"`
	Description *string          `json:"descricao" validate:"omitempty,max=1000"`
	Quantity    *int             `json:"quantidade" validate:"required,gte=0"`
}

// NewProduct builds an unsaved product from the input. The ID is left empty
// so the repository assigns one.
func NewProduct(input ProductInput) *Product {
	p := &Product{}
	p.Apply(input)
	return p
}

// Apply overwrites every mutable field with the input values. The ID is kept.
// Inputs are validated before this is called; absent numbers count as zero.
func (p *Product) Apply(input ProductInput) {
	p.Name = input.Name
	p.Price = decimal.Zero
	if input.Price != nil {
		p.Price = *input.Price
	}
	p.Description = input.Description
	p.Quantity = 0
	if input.Quantity != nil {
		p.Quantity = *input.Quantity
	}
}
