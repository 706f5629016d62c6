package repositories_test

import (
	"testing"

	"mercadoria/internal/models"
	"mercadoria/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database for a single test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func product(name string, price string, qty int) *models.Product {
	return &models.Product{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestGORMProductRepository_SaveAssignsID(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))

	p := product("Laptop Y", "3500.00", 20)
	require.NoError(t, repo.Save(p))
	assert.NotEmpty(t, p.ID)

	found, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Y", found.Name)
	assert.True(t, decimal.RequireFromString("3500").Equal(found.Price))
	assert.Equal(t, 20, found.Quantity)
	assert.Nil(t, found.Description)
}

func TestGORMProductRepository_Exists(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	p := product("Smartphone X", "1999.99", 50)
	require.NoError(t, repo.Save(p))

	exists, err := repo.ExistsByName("Smartphone X")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName("smartphone x")
	require.NoError(t, err)
	assert.False(t, exists, "name comparison is exact")

	exists, err = repo.ExistsByID(p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID("missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGORMProductRepository_DuplicateNameIsConstraintViolation(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	require.NoError(t, repo.Save(product("Smartphone X", "1999.99", 50)))

	dup := product("Smartphone X", "10", 1)
	err := repo.Save(dup)
	assert.ErrorIs(t, err, repositories.ErrConstraintViolation)
	assert.Empty(t, dup.ID)

	// renaming onto a taken name is rejected as well
	other := product("Smartwatch Z", "800", 30)
	require.NoError(t, repo.Save(other))
	other.Name = "Smartphone X"
	assert.ErrorIs(t, repo.Save(other), repositories.ErrConstraintViolation)
}

func TestGORMProductRepository_UpdatePreservesIDAndWritesZero(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	p := product("Smartphone X", "1999.99", 50)
	require.NoError(t, repo.Save(p))
	id := p.ID

	p.Quantity = 0
	require.NoError(t, repo.Save(p))
	assert.Equal(t, id, p.ID)

	found, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Quantity)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGORMProductRepository_FindAll(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Save(product(name, "1", 1)))
	}
	all, err = repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "B", all[1].Name)
	assert.Equal(t, "C", all[2].Name)
}

func TestGORMProductRepository_Delete(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	p := product("Smartphone X", "1999.99", 50)
	require.NoError(t, repo.Save(p))

	require.NoError(t, repo.DeleteByID(p.ID))

	_, err := repo.FindByID(p.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.ErrorIs(t, repo.DeleteByID(p.ID), repositories.ErrProductNotFound)

	// the name is free again once the row is gone
	again := product("Smartphone X", "1999.99", 5)
	require.NoError(t, repo.Save(again))
	assert.NotEqual(t, p.ID, again.ID)
}

func TestGORMProductRepository_SaveDoesNotRecreateDeletedProduct(t *testing.T) {
	repo := repositories.NewGORMProductRepository(newTestDB(t))
	p := product("Smartphone X", "1999.99", 50)
	require.NoError(t, repo.Save(p))
	loaded, err := repo.FindByID(p.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(p.ID))
	loaded.Quantity = 0
	err = repo.Save(loaded)

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	exists, err := repo.ExistsByID(p.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
