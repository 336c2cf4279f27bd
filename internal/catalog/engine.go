package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Engine owns the category/product lifecycle and the referential-consistency
// rules between them: unique category names, the cascading rename/delete, and
// the denormalized category-name mirror on products. Authorization is the
// session layer's job, not the engine's.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

/* =======================
   CATEGORIES
======================= */

func (e *Engine) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: category name required", ErrInvalidArgument)
	}

	// duplicate check; the unique index backs this up under concurrent creates
	if _, err := e.store.FindCategoryByName(ctx, name); err == nil {
		return models.Category{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return models.Category{}, err
	}

	category := models.Category{
		Name:      name,
		CreatedAt: time.Now(),
	}

	id, err := e.store.InsertCategory(ctx, category)
	if err != nil {
		return models.Category{}, err
	}
	category.ID = id

	log.Println("[CATALOG] [INFO] category created:", name)
	return category, nil
}

// RenameCategory updates the category document, then rewrites the name mirror
// on every product referencing it. The two writes are not atomic across the
// span: when the dependent bulk update fails the caller gets a
// *PartialCascadeError, never a blanket success.
func (e *Engine) RenameCategory(ctx context.Context, id primitive.ObjectID, newName string) (models.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return models.Category{}, fmt.Errorf("%w: category name required", ErrInvalidArgument)
	}

	if existing, err := e.store.FindCategoryByName(ctx, newName); err == nil && existing.ID != id {
		return models.Category{}, ErrConflict
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Category{}, err
	}

	category, err := e.store.FindCategoryByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if err := e.store.SetCategoryName(ctx, id, newName); err != nil {
		return models.Category{}, err
	}
	category.Name = newName

	if err := e.store.SetCategoryNameOnProducts(ctx, id, newName); err != nil {
		log.Println("[CATALOG] [ERROR] rename cascade failed for category", id.Hex(), ":", err)
		return models.Category{}, &PartialCascadeError{Op: "rename category " + id.Hex(), Cause: err}
	}

	log.Println("[CATALOG] [INFO] category renamed:", id.Hex(), "->", newName)
	return category, nil
}

// DeleteCategory removes the category, then purges its products. The purge
// runs only after the category delete is confirmed; a dependent failure is
// reported as *PartialCascadeError so the caller knows products may remain.
func (e *Engine) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if err := e.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	if err := e.store.DeleteProductsByCategory(ctx, id); err != nil {
		log.Println("[CATALOG] [ERROR] delete cascade failed for category", id.Hex(), ":", err)
		return &PartialCascadeError{Op: "delete category " + id.Hex(), Cause: err}
	}

	log.Println("[CATALOG] [INFO] category deleted:", id.Hex())
	return nil
}

func (e *Engine) GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return e.store.FindCategoryByID(ctx, id)
}

func (e *Engine) Categories(ctx context.Context) ([]models.Category, error) {
	return e.store.ListCategories(ctx)
}

/* =======================
   PRODUCTS
======================= */

type ProductInput struct {
	Name        string
	Description string
	Brand       string
	Price       float64
	Stock       int
	CategoryID  primitive.ObjectID
	Image       *models.Image
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description required", ErrInvalidArgument)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must be zero or greater", ErrInvalidArgument)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must be zero or greater", ErrInvalidArgument)
	}
	if in.CategoryID.IsZero() {
		return fmt.Errorf("%w: category required", ErrInvalidArgument)
	}
	return nil
}

func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	category, err := e.store.FindCategoryByID(ctx, in.CategoryID)
	if err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Brand:        strings.TrimSpace(in.Brand),
		Price:        in.Price,
		Stock:        in.Stock,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CreatedAt:    time.Now(),
	}
	if in.Image != nil {
		product.ProductPic = *in.Image
	}

	id, err := e.store.InsertProduct(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = id

	log.Println("[CATALOG] [INFO] product created:", product.Name)
	return product, nil
}

// UpdateProduct replaces the mutable fields. When the category reference
// changes, the current name of the new category is copied onto the product in
// the same call, keeping the mirror invariant intact across reassignment.
func (e *Engine) UpdateProduct(ctx context.Context, id primitive.ObjectID, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	product, err := e.store.FindProductByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	category, err := e.store.FindCategoryByID(ctx, in.CategoryID)
	if err != nil {
		return models.Product{}, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = strings.TrimSpace(in.Description)
	product.Brand = strings.TrimSpace(in.Brand)
	product.Price = in.Price
	product.Stock = in.Stock
	product.CategoryID = category.ID
	product.CategoryName = category.Name
	if in.Image != nil {
		product.ProductPic = *in.Image
	}

	if err := e.store.ReplaceProduct(ctx, product); err != nil {
		return models.Product{}, err
	}

	log.Println("[CATALOG] [INFO] product updated:", id.Hex())
	return product, nil
}

func (e *Engine) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := e.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	log.Println("[CATALOG] [INFO] product deleted:", id.Hex())
	return nil
}

func (e *Engine) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return e.store.FindProductByID(ctx, id)
}

// Products pages through the full catalog for the admin listing.
func (e *Engine) Products(ctx context.Context, skip, limit int64) ([]models.Product, int64, error) {
	total, err := e.store.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	products, err := e.store.ListProducts(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ResolveCategoryName is the reconciliation read-path for the name mirror: it
// follows the product's live category reference and returns that name. When
// the mirror is stale (a rename crashed between its two steps) the stale
// value is repaired in place, idempotently.
func (e *Engine) ResolveCategoryName(ctx context.Context, product models.Product) (string, error) {
	category, err := e.store.FindCategoryByID(ctx, product.CategoryID)
	if err != nil {
		return "", err
	}

	if product.CategoryName != category.Name {
		log.Println("[CATALOG] [WARN] stale category name mirror on product", product.ID.Hex(),
			"- repairing to:", category.Name)
		if err := e.store.SetCategoryNameOnProducts(ctx, category.ID, category.Name); err != nil {
			// the caller still gets the live name; repair retries on next read
			log.Println("[CATALOG] [ERROR] mirror repair failed:", err)
		}
	}

	return category.Name, nil
}
