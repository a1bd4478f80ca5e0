package db

import (
	"context"
	"fmt"
	"time"

	"github.com/excalibur-systems/maintenance-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordCollection defines the interface for maintenance record operations.
type RecordCollection interface {
	ListRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error)
	FindRecordByID(ctx context.Context, id string) (*models.MaintenanceRecord, error)
	InsertRecord(ctx context.Context, record models.MaintenanceRecord) error
	UpdateRecord(ctx context.Context, id string, record models.MaintenanceRecord) error
	DeleteRecord(ctx context.Context, id string) error
}

// MongoRecordCollection implements RecordCollection for MongoDB.
type MongoRecordCollection struct {
	Collection *mongo.Collection
}

// ListRecords returns records matching the filter, newest first.
func (c *MongoRecordCollection) ListRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.MaintenanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindRecordByID finds a maintenance record by its ID.
func (c *MongoRecordCollection) FindRecordByID(ctx context.Context, id string) (*models.MaintenanceRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	var record models.MaintenanceRecord
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("record not found")
		}
		return nil, err
	}
	return &record, nil
}

// InsertRecord inserts a maintenance record into the collection.
func (c *MongoRecordCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) error {
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, record)
	return err
}

// UpdateRecord updates a maintenance record by its ID.
func (c *MongoRecordCollection) UpdateRecord(ctx context.Context, id string, record models.MaintenanceRecord) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID: %w", err)
	}

	record.ID = objectID
	record.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": record})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("record not found")
	}
	return nil
}

// DeleteRecord deletes a maintenance record by its ID.
func (c *MongoRecordCollection) DeleteRecord(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("record not found")
	}
	return nil
}
