package catalog

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// MongoStore implements Store on top of the three collections. Consistency
// relies on per-document atomicity only; the cascade helpers are plain
// UpdateMany/DeleteMany so they can be retried after a partial failure.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) categories() *mongo.Collection {
	return s.db.Collection("categories")
}

func (s *MongoStore) products() *mongo.Collection {
	return s.db.Collection("products")
}

func (s *MongoStore) users() *mongo.Collection {
	return s.db.Collection("users")
}

/* =======================
   CATEGORIES
======================= */

func (s *MongoStore) InsertCategory(ctx context.Context, category models.Category) (primitive.ObjectID, error) {
	res, err := s.categories().InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) FindCategoryByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var category models.Category
	err := s.categories().FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrNotFound
	}
	return category, err
}

func (s *MongoStore) FindCategoryByName(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	err := s.categories().FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrNotFound
	}
	return category, err
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.categories().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MongoStore) SetCategoryName(ctx context.Context, id primitive.ObjectID, name string) error {
	res, err := s.categories().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.categories().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountCategories(ctx context.Context) (int64, error) {
	return s.categories().CountDocuments(ctx, bson.M{})
}

/* =======================
   PRODUCTS
======================= */

func (s *MongoStore) InsertProduct(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	res, err := s.products().InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) FindProductByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

func (s *MongoStore) ReplaceProduct(ctx context.Context, product models.Product) error {
	res, err := s.products().ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListProducts(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.products().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) ListProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.products().Find(ctx, bson.M{"categoryId": categoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetCategoryNameOnProducts rewrites the denormalized name mirror on every
// product of the category. Set-if-different semantics: re-running it after a
// crash applies the same end state.
func (s *MongoStore) SetCategoryNameOnProducts(ctx context.Context, categoryID primitive.ObjectID, name string) error {
	_, err := s.products().UpdateMany(
		ctx,
		bson.M{"categoryId": categoryID, "categoryName": bson.M{"$ne": name}},
		bson.M{"$set": bson.M{"categoryName": name}},
	)
	return err
}

// DeleteProductsByCategory purges every product of the category.
// Delete-if-exists: a retry after partial failure is a no-op for products
// already gone.
func (s *MongoStore) DeleteProductsByCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	_, err := s.products().DeleteMany(ctx, bson.M{"categoryId": categoryID})
	return err
}

func (s *MongoStore) DistinctBrands(ctx context.Context, categoryID primitive.ObjectID) ([]string, error) {
	values, err := s.products().Distinct(ctx, "brand", bson.M{"categoryId": categoryID})
	if err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(values))
	for _, value := range values {
		if brand, ok := value.(string); ok && brand != "" {
			brands = append(brands, brand)
		}
	}
	return brands, nil
}

func (s *MongoStore) PriceRange(ctx context.Context, categoryID primitive.ObjectID) (float64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"categoryId": categoryID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"minPrice": bson.M{"$min": "$price"},
			"maxPrice": bson.M{"$max": "$price"},
		}}},
	}

	cursor, err := s.products().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		MinPrice float64 `bson:"minPrice"`
		MaxPrice float64 `bson:"maxPrice"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].MinPrice, results[0].MaxPrice, nil
}

func (s *MongoStore) SearchProducts(ctx context.Context, query string, limit int64) ([]models.Product, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"$or": []bson.M{
		{"name": bson.M{"$regex": pattern, "$options": "i"}},
		{"brand": bson.M{"$regex": pattern, "$options": "i"}},
	}}

	cursor, err := s.products().Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) CountProducts(ctx context.Context) (int64, error) {
	return s.products().CountDocuments(ctx, bson.M{})
}

/* =======================
   USERS
======================= */

func (s *MongoStore) InsertUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	res, err := s.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *MongoStore) ReplaceUser(ctx context.Context, user models.User) error {
	res, err := s.users().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users().CountDocuments(ctx, bson.M{})
}
