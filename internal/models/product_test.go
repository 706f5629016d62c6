package models_test

import (
	"encoding/json"
	"testing"

	"mercadoria/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	desc := "Um notebook para produtividade"
	price := decimal.RequireFromString("3500.00")
	qty := 20
	input := models.ProductInput{Name: "Laptop Y", Price: &price, Description: &desc, Quantity: &qty}

	p := models.NewProduct(input)

	assert.Empty(t, p.ID)
	assert.Equal(t, "Laptop Y", p.Name)
	assert.True(t, decimal.RequireFromString("3500").Equal(p.Price))
	assert.Equal(t, &desc, p.Description)
	assert.Equal(t, 20, p.Quantity)
	assert.False(t, p.OutOfStock())
}

func TestProduct_ApplyKeepsID(t *testing.T) {
	p := &models.Product{ID: "p1", Name: "Smartphone X", Price: decimal.RequireFromString("1999.99"), Quantity: 50}
	price := decimal.RequireFromString("2500")
	zero := 0

	p.Apply(models.ProductInput{Name: "Smartphone Xtreme", Price: &price, Quantity: &zero})

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Smartphone Xtreme", p.Name)
	assert.Nil(t, p.Description)
	assert.True(t, p.OutOfStock())
}

func TestProduct_MarshalJSONWritesPriceAsNumber(t *testing.T) {
	p := models.Product{ID: "p1", Name: "Smartphone X", Price: decimal.RequireFromString("1999.99"), Quantity: 50}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 1999.99, body["preco"])
	assert.Equal(t, "Smartphone X", body["nome"])
	assert.Equal(t, float64(50), body["quantidade"])
	assert.Nil(t, body["descricao"])

	var back models.Product
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, p.Price.Equal(back.Price))
	assert.Equal(t, "p1", back.ID)
}
