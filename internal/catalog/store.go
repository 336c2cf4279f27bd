package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Store is the persistence boundary for the three collections. Lookups return
// ErrNotFound when the document is absent; the bulk cascade operations
// (SetCategoryNameOnProducts, DeleteProductsByCategory) are idempotent so a
// retry after partial failure is safe.
type Store interface {
	CategoryStore
	ProductStore
	UserStore
}

type CategoryStore interface {
	InsertCategory(ctx context.Context, category models.Category) (primitive.ObjectID, error)
	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SetCategoryName(ctx context.Context, id primitive.ObjectID, name string) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	CountCategories(ctx context.Context) (int64, error)
}

type ProductStore interface {
	InsertProduct(ctx context.Context, product models.Product) (primitive.ObjectID, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ReplaceProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	ListProducts(ctx context.Context, skip, limit int64) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error)
	SetCategoryNameOnProducts(ctx context.Context, categoryID primitive.ObjectID, name string) error
	DeleteProductsByCategory(ctx context.Context, categoryID primitive.ObjectID) error
	DistinctBrands(ctx context.Context, categoryID primitive.ObjectID) ([]string, error)
	PriceRange(ctx context.Context, categoryID primitive.ObjectID) (float64, float64, error)
	SearchProducts(ctx context.Context, query string, limit int64) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type UserStore interface {
	InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ReplaceUser(ctx context.Context, user models.User) error
	CountUsers(ctx context.Context) (int64, error)
}
