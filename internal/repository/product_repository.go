package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(productsCollection)}
}

func (m *MongoProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (m *MongoProductRepository) ListProducts(ctx context.Context, activeOnly bool) ([]*domain.Product, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*domain.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (m *MongoProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (m *MongoProductRepository) SetVariantStock(ctx context.Context, key domain.VariantKey, stock int) error {
	filter := bson.M{"_id": key.ProductID, "unit_variants.label": key.Label}
	update := bson.M{
		"$set": bson.M{
			"unit_variants.$.stock": stock,
			"updated_at":            time.Now().UTC(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return m.missing(ctx, key)
	}

	return nil
}

func (m *MongoProductRepository) TryReserve(ctx context.Context, key domain.VariantKey, quantity int) (bool, error) {
	// The $elemMatch guard and the decrement are evaluated by the server as
	// one document update, so two reservations can never both see the same
	// units.
	filter := bson.M{
		"_id": key.ProductID,
		"unit_variants": bson.M{
			"$elemMatch": bson.M{
				"label": key.Label,
				"stock": bson.M{"$gte": quantity},
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{
			"unit_variants.$.stock": -quantity,
			"sold_count":            quantity,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if result.MatchedCount == 1 {
		return true, nil
	}

	if err := m.missing(ctx, key); err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrVariantNotFound) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", ErrNotReserved, err)
	}
	return false, nil
}

func (m *MongoProductRepository) Release(ctx context.Context, key domain.VariantKey, quantity int) error {
	filter := bson.M{"_id": key.ProductID, "unit_variants.label": key.Label}
	update := bson.M{
		"$inc": bson.M{
			"unit_variants.$.stock": quantity,
			"sold_count":            -quantity,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return m.missing(ctx, key)
	}

	return nil
}

// missing explains why an update on key matched nothing. It returns nil
// when the product and variant both exist.
func (m *MongoProductRepository) missing(ctx context.Context, key domain.VariantKey) error {
	product, err := m.GetProduct(ctx, key.ProductID)
	if err != nil {
		return err
	}
	if _, ok := product.Variant(key.Label); !ok {
		return ErrVariantNotFound
	}
	return nil
}

func (m *MongoProductRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	return nil
}
