package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartsCollection = "carts"

// MongoCartRepository keeps one document per user. A cart is only ever
// written by its owner, so mutations load the document, apply the change
// in memory and write items and subtotal back together.
type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection(cartsCollection)}
}

func (m *MongoCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *MongoCartRepository) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	cart, err := m.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			return nil, err
		}
		cart = domain.NewCart(userID)
	}

	item.AddedAt = time.Now().UTC()
	cart.Merge(item)

	if err := m.save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return cart, nil
}

func (m *MongoCartRepository) UpdateItemQuantity(ctx context.Context, userID, productID, unitLabel string, quantity int) (*domain.Cart, error) {
	cart, err := m.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(productID, unitLabel, quantity) {
		return nil, ErrItemNotFound
	}

	if err := m.save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}
	return cart, nil
}

func (m *MongoCartRepository) RemoveItem(ctx context.Context, userID, productID, unitLabel string) (*domain.Cart, error) {
	cart, err := m.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.Remove(productID, unitLabel) {
		return nil, ErrItemNotFound
	}

	if err := m.save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	return cart, nil
}

// ClearCart empties the cart and resets its subtotal. The document is kept.
func (m *MongoCartRepository) ClearCart(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"items":      bson.A{},
			"subtotal":   0,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *MongoCartRepository) save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.Currency == "" {
		cart.Currency = domain.DefaultCurrency
	}

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"subtotal":   cart.Subtotal,
			"currency":   cart.Currency,
			"updated_at": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": cart.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	return nil
}
