package db

import (
	"context"

	"github.com/excalibur-systems/maintenance-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileCollection defines the interface for role lookups. A profile row
// maps an account ID to its role.
type ProfileCollection interface {
	FindRole(ctx context.Context, userID string) (models.Role, error)
}

// MongoProfileCollection implements ProfileCollection for MongoDB
type MongoProfileCollection struct {
	Collection *mongo.Collection
}

// FindRole returns the role stored for an account. Accounts without a
// profile row get RoleUniversal rather than an error.
func (c *MongoProfileCollection) FindRole(ctx context.Context, userID string) (models.Role, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.RoleUniversal, err
	}

	var profile models.Profile
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return models.RoleUniversal, nil
	}
	if err != nil {
		return models.RoleUniversal, err
	}
	if !models.IsValidRole(profile.Role) {
		return models.RoleUniversal, nil
	}
	return profile.Role, nil
}
