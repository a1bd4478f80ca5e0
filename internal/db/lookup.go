package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Lookup list document names.
const (
	lookupMechanics = "mechanics"
	lookupEquipment = "equipment"
)

// Defaults served until an admin saves a list of their own.
var (
	defaultMechanics = []string{"MECÂNICO 01", "MECÂNICO 02"}
	defaultEquipment = []string{"EQ-01", "EQ-02", "CM-05"}
)

// LookupCollection defines the interface for the auxiliary lookup lists
// (mechanics, equipment codes) managed from the config screen.
type LookupCollection interface {
	ListMechanics(ctx context.Context) ([]string, error)
	ListEquipmentCodes(ctx context.Context) ([]string, error)
	ReplaceMechanics(ctx context.Context, values []string) error
	ReplaceEquipmentCodes(ctx context.Context, values []string) error
}

// MongoLookupCollection implements LookupCollection for MongoDB. Each list is
// a single document keyed by name and replaced wholesale on save.
type MongoLookupCollection struct {
	Collection *mongo.Collection
}

type lookupDoc struct {
	Name   string   `bson:"_id"`
	Values []string `bson:"values"`
}

func (c *MongoLookupCollection) list(ctx context.Context, name string, defaults []string) ([]string, error) {
	var doc lookupDoc
	err := c.Collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Values, nil
}

func (c *MongoLookupCollection) replace(ctx context.Context, name string, values []string) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": name}, lookupDoc{Name: name, Values: values}, opts)
	return err
}

// ListMechanics returns the mechanic names offered by the record form.
func (c *MongoLookupCollection) ListMechanics(ctx context.Context) ([]string, error) {
	return c.list(ctx, lookupMechanics, defaultMechanics)
}

// ListEquipmentCodes returns the known equipment codes.
func (c *MongoLookupCollection) ListEquipmentCodes(ctx context.Context) ([]string, error) {
	return c.list(ctx, lookupEquipment, defaultEquipment)
}

// ReplaceMechanics overwrites the mechanics list.
func (c *MongoLookupCollection) ReplaceMechanics(ctx context.Context, values []string) error {
	return c.replace(ctx, lookupMechanics, values)
}

// ReplaceEquipmentCodes overwrites the equipment code list.
func (c *MongoLookupCollection) ReplaceEquipmentCodes(ctx context.Context, values []string) error {
	return c.replace(ctx, lookupEquipment, values)
}
