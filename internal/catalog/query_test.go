package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestSearchEmptyQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Shoes")
	require.NoError(t, err)
	seedProduct(t, store, "Runner", 50, category.ID, "Shoes")

	for _, raw := range []string{"", "   "} {
		results, err := query.Search(ctx, raw)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
}

func TestSearchMatchesNameOrBrandCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Shoes")
	require.NoError(t, err)

	runner := seedProduct(t, store, "Trail Runner", 50, category.ID, "Shoes")
	branded := models.Product{
		Name:       "Classic",
		Brand:      "RunnerCo",
		Price:      40,
		CategoryID: category.ID,
	}
	brandedID, err := store.InsertProduct(ctx, branded)
	require.NoError(t, err)
	seedProduct(t, store, "Sandal", 20, category.ID, "Shoes")

	results, err := query.Search(ctx, "RUNNER")
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := []primitive.ObjectID{results[0].ID, results[1].ID}
	assert.Contains(t, ids, runner.ID)
	assert.Contains(t, ids, brandedID)
}

func TestSearchCappedAtFive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Shoes")
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		seedProduct(t, store, fmt.Sprintf("Runner %d", i), 50, category.ID, "Shoes")
	}

	results, err := query.Search(ctx, "runner")
	require.NoError(t, err)
	assert.Len(t, results, searchLimit)
	for _, product := range results {
		assert.True(t, strings.Contains(strings.ToLower(product.Name), "runner"))
	}
}

func TestPriceRange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Shoes")
	require.NoError(t, err)

	min, max, err := query.PriceRange(ctx, category.ID)
	require.NoError(t, err)
	assert.Zero(t, min)
	assert.Zero(t, max)

	for _, price := range []float64{10, 25, 7} {
		seedProduct(t, store, fmt.Sprintf("p-%v", price), price, category.ID, "Shoes")
	}

	min, max, err = query.PriceRange(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, min)
	assert.Equal(t, 25.0, max)
}

func TestFacetBrandsDistinctNonEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Shoes")
	require.NoError(t, err)

	for i, brand := range []string{"Acme", "", "Acme", "Zephyr"} {
		product := models.Product{
			Name:       fmt.Sprintf("p-%d", i),
			Brand:      brand,
			Price:      10,
			CategoryID: category.ID,
		}
		_, err := store.InsertProduct(ctx, product)
		require.NoError(t, err)
	}

	brands, err := query.FacetBrands(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zephyr"}, brands)
}

func TestListByCategoryMalformedID(t *testing.T) {
	query := NewQuery(NewMemoryStore())

	_, _, err := query.ListByCategory(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListByCategoryMissing(t *testing.T) {
	query := NewQuery(NewMemoryStore())

	_, _, err := query.ListByCategory(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByCategoryServesLiveName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	query := NewQuery(store)

	category, err := NewEngine(store).CreateCategory(ctx, "Footwear")
	require.NoError(t, err)
	// stale mirror, as left behind by a crashed rename
	seedProduct(t, store, "Runner", 50, category.ID, "Shoes")

	got, products, err := query.ListByCategory(ctx, category.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Footwear", got.Name)
	require.Len(t, products, 1)
	assert.Equal(t, "Footwear", products[0].CategoryName)
}

func TestHomeBlocks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	engine := NewEngine(store)
	query := NewQuery(store)

	shoes, err := engine.CreateCategory(ctx, "Shoes")
	require.NoError(t, err)
	bags, err := engine.CreateCategory(ctx, "Bags")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		seedProduct(t, store, fmt.Sprintf("shoe-%d", i), 10, shoes.ID, "Shoes")
	}
	seedProduct(t, store, "tote", 15, bags.ID, "Bags")

	blocks, err := query.HomeBlocks(ctx, 4)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	byName := map[string]CategoryBlock{}
	for _, block := range blocks {
		byName[block.Category.Name] = block
	}
	assert.Len(t, byName["Shoes"].Products, 4)
	assert.Len(t, byName["Bags"].Products, 1)

	full, err := query.HomeBlocks(ctx, 0)
	require.NoError(t, err)
	byName = map[string]CategoryBlock{}
	for _, block := range full {
		byName[block.Category.Name] = block
	}
	assert.Len(t, byName["Shoes"].Products, 6)
}
