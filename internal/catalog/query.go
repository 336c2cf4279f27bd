package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// searchLimit bounds the type-ahead search to a top-N preview.
const searchLimit = 5

// Query computes the read-side aggregations of the storefront: per-category
// listings, brand facets, price ranges and free-text search.
type Query struct {
	store Store
}

func NewQuery(store Store) *Query {
	return &Query{store: store}
}

// ListByCategory validates the raw id, resolves the category and returns its
// products. Products are served with the category's live name, so a stale
// mirror never reaches a reader through this path.
func (q *Query) ListByCategory(ctx context.Context, rawID string) (models.Category, []models.Product, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return models.Category{}, nil, fmt.Errorf("%w: malformed category id", ErrInvalidArgument)
	}

	category, err := q.store.FindCategoryByID(ctx, id)
	if err != nil {
		return models.Category{}, nil, err
	}

	products, err := q.store.ListProductsByCategory(ctx, id, 0)
	if err != nil {
		return models.Category{}, nil, err
	}

	for i := range products {
		products[i].CategoryName = category.Name
	}

	return category, products, nil
}

// FacetBrands returns the distinct non-empty brand values among a category's
// products, for building filter checkboxes. Order is not significant.
func (q *Query) FacetBrands(ctx context.Context, categoryID primitive.ObjectID) ([]string, error) {
	return q.store.DistinctBrands(ctx, categoryID)
}

// PriceRange returns (min, max) across a category's products, and (0, 0) when
// the category has no products. Callers treat (0, 0) as "no data".
func (q *Query) PriceRange(ctx context.Context, categoryID primitive.ObjectID) (float64, float64, error) {
	return q.store.PriceRange(ctx, categoryID)
}

// Search matches the query case-insensitively against product name or brand,
// capped at 5 results. An empty query returns an empty set rather than the
// full catalog.
func (q *Query) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	return q.store.SearchProducts(ctx, query, searchLimit)
}

// CategoryBlock pairs a category with (a prefix of) its products, for the
// storefront landing and category pages.
type CategoryBlock struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// HomeBlocks returns every category with up to perCategory of its products;
// perCategory <= 0 means full listings.
func (q *Query) HomeBlocks(ctx context.Context, perCategory int64) ([]CategoryBlock, error) {
	categories, err := q.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]CategoryBlock, 0, len(categories))
	for _, category := range categories {
		products, err := q.store.ListProductsByCategory(ctx, category.ID, perCategory)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, CategoryBlock{Category: category, Products: products})
	}
	return blocks, nil
}
