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

const enquiriesCollection = "enquiries"

type MongoEnquiryRepository struct {
	collection *mongo.Collection
}

func NewMongoEnquiryRepository(db *mongo.Database) *MongoEnquiryRepository {
	return &MongoEnquiryRepository{collection: db.Collection(enquiriesCollection)}
}

func (m *MongoEnquiryRepository) CreateEnquiry(ctx context.Context, enquiry *domain.Enquiry) error {
	now := time.Now().UTC()
	if enquiry.ID == "" {
		enquiry.ID = primitive.NewObjectID().Hex()
	}
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, enquiry); err != nil {
		return fmt.Errorf("failed to create enquiry: %w", err)
	}
	return nil
}

func (m *MongoEnquiryRepository) GetEnquiry(ctx context.Context, id string) (*domain.Enquiry, error) {
	var enquiry domain.Enquiry

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enquiry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("failed to get enquiry: %w", err)
	}

	return &enquiry, nil
}

func (m *MongoEnquiryRepository) ListEnquiries(ctx context.Context) ([]*domain.Enquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer cursor.Close(ctx)

	enquiries := make([]*domain.Enquiry, 0)
	if err := cursor.All(ctx, &enquiries); err != nil {
		return nil, fmt.Errorf("failed to decode enquiries: %w", err)
	}

	return enquiries, nil
}

func (m *MongoEnquiryRepository) UpdateEnquiryStatus(ctx context.Context, id string, status domain.EnquiryStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update enquiry status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrEnquiryNotFound
	}

	return nil
}

func (m *MongoEnquiryRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create enquiry indexes: %w", err)
	}

	return nil
}
