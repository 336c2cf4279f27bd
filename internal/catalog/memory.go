package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// MemoryStore is a map-backed Store. It backs the engine and query tests and
// mirrors the error-mapping behavior of MongoStore exactly.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]models.Category
	products   map[primitive.ObjectID]models.Product
	users      map[primitive.ObjectID]models.User

	// FailCascade makes the bulk cascade helpers fail, for exercising
	// partial-failure reporting.
	FailCascade error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[primitive.ObjectID]models.Category),
		products:   make(map[primitive.ObjectID]models.Product),
		users:      make(map[primitive.ObjectID]models.User),
	}
}

/* =======================
   CATEGORIES
======================= */

func (s *MemoryStore) InsertCategory(_ context.Context, category models.Category) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return primitive.NilObjectID, ErrConflict
		}
	}

	category.ID = primitive.NewObjectID()
	s.categories[category.ID] = category
	return category.ID, nil
}

func (s *MemoryStore) FindCategoryByID(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return category, nil
}

func (s *MemoryStore) FindCategoryByName(_ context.Context, name string) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range s.categories {
		if category.Name == name {
			return category, nil
		}
	}
	return models.Category{}, ErrNotFound
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s *MemoryStore) SetCategoryName(_ context.Context, id primitive.ObjectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range s.categories {
		if otherID != id && other.Name == name {
			return ErrConflict
		}
	}
	category.Name = name
	s.categories[id] = category
	return nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) CountCategories(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.categories)), nil
}

/* =======================
   PRODUCTS
======================= */

func (s *MemoryStore) InsertProduct(_ context.Context, product models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = primitive.NewObjectID()
	s.products[product.ID] = product
	return product.ID, nil
}

func (s *MemoryStore) FindProductByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *MemoryStore) ReplaceProduct(_ context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context, skip, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	if skip > 0 {
		if skip >= int64(len(products)) {
			return []models.Product{}, nil
		}
		products = products[skip:]
	}
	if limit > 0 && int64(len(products)) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *MemoryStore) ListProductsByCategory(_ context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0)
	for _, product := range s.products {
		if product.CategoryID == categoryID {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	if limit > 0 && int64(len(products)) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *MemoryStore) SetCategoryNameOnProducts(_ context.Context, categoryID primitive.ObjectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCascade != nil {
		return s.FailCascade
	}
	for id, product := range s.products {
		if product.CategoryID == categoryID && product.CategoryName != name {
			product.CategoryName = name
			s.products[id] = product
		}
	}
	return nil
}

func (s *MemoryStore) DeleteProductsByCategory(_ context.Context, categoryID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCascade != nil {
		return s.FailCascade
	}
	for id, product := range s.products {
		if product.CategoryID == categoryID {
			delete(s.products, id)
		}
	}
	return nil
}

func (s *MemoryStore) DistinctBrands(_ context.Context, categoryID primitive.ObjectID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	brands := make([]string, 0)
	for _, product := range s.products {
		if product.CategoryID != categoryID || product.Brand == "" {
			continue
		}
		if _, ok := seen[product.Brand]; ok {
			continue
		}
		seen[product.Brand] = struct{}{}
		brands = append(brands, product.Brand)
	}
	sort.Strings(brands)
	return brands, nil
}

func (s *MemoryStore) PriceRange(_ context.Context, categoryID primitive.ObjectID) (float64, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first := true
	var min, max float64
	for _, product := range s.products {
		if product.CategoryID != categoryID {
			continue
		}
		if first {
			min, max = product.Price, product.Price
			first = false
			continue
		}
		if product.Price < min {
			min = product.Price
		}
		if product.Price > max {
			max = product.Price
		}
	}
	if first {
		return 0, 0, nil
	}
	return min, max, nil
}

func (s *MemoryStore) SearchProducts(_ context.Context, query string, limit int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	products := make([]models.Product, 0)
	for _, product := range s.products {
		if strings.Contains(strings.ToLower(product.Name), needle) ||
			strings.Contains(strings.ToLower(product.Brand), needle) {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	if limit > 0 && int64(len(products)) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *MemoryStore) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

/* =======================
   USERS
======================= */

func (s *MemoryStore) InsertUser(_ context.Context, user models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, ErrConflict
		}
	}

	user.ID = primitive.NewObjectID()
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) ReplaceUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID != user.ID && other.Email == user.Email {
			return ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
