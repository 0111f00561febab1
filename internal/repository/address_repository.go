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

const addressesCollection = "addresses"

type MongoAddressRepository struct {
	collection *mongo.Collection
}

func NewMongoAddressRepository(db *mongo.Database) *MongoAddressRepository {
	return &MongoAddressRepository{collection: db.Collection(addressesCollection)}
}

// SaveAddress stores a new address. Saving a default address clears the
// flag on the user's other addresses first.
func (m *MongoAddressRepository) SaveAddress(ctx context.Context, address *domain.SavedAddress) error {
	if address.ID == "" {
		address.ID = primitive.NewObjectID().Hex()
	}
	address.CreatedAt = time.Now().UTC()

	if address.IsDefault {
		_, err := m.collection.UpdateMany(ctx,
			bson.M{"user_id": address.UserID, "is_default": true},
			bson.M{"$set": bson.M{"is_default": false}},
		)
		if err != nil {
			return fmt.Errorf("failed to reset default address: %w", err)
		}
	}

	if _, err := m.collection.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}

func (m *MongoAddressRepository) GetDefaultAddress(ctx context.Context, userID string) (*domain.SavedAddress, error) {
	var address domain.SavedAddress

	filter := bson.M{"user_id": userID, "is_default": true}
	err := m.collection.FindOne(ctx, filter).Decode(&address)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}

	return &address, nil
}

func (m *MongoAddressRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_default", Value: 1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes, options.CreateIndexes()); err != nil {
		return fmt.Errorf("failed to create address indexes: %w", err)
	}

	return nil
}
