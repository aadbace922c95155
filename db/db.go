package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	SlotsCollection     *mongo.Collection
	LogsCollection      *mongo.Collection
	UsersCollection     *mongo.Collection
	CarriersCollection  *mongo.Collection
	VehiclesCollection  *mongo.Collection
	CustomersCollection *mongo.Collection
	DriversCollection   *mongo.Collection
	Client              *mongo.Client
)

// Connect establishes the MongoDB connection and binds the named
// collections. MONGO_URI and MONGO_DB default to a local setup.
func Connect(ctx context.Context) error {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	name := os.Getenv("MONGO_DB")
	if name == "" {
		name = "eletralog"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	Client = client

	database := client.Database(name)
	SlotsCollection = database.Collection("slots")
	LogsCollection = database.Collection("logs")
	UsersCollection = database.Collection("users")
	CarriersCollection = database.Collection("carriers")
	VehiclesCollection = database.Collection("vehicles")
	CustomersCollection = database.Collection("customers")
	DriversCollection = database.Collection("drivers")
	return nil
}

// EnsureIndexes creates the indexes the scheduler relies on. The unique
// compound index on (date, location, time) is the mutual-exclusion
// contract: a lost booking race surfaces as a duplicate-key error instead
// of a double-booked slot.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := SlotsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "location", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_date_location_time"),
		},
		{
			Keys:    bson.D{{Key: "visitId", Value: 1}},
			Options: options.Index().SetName("by_visit"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "resolved", Value: 1}},
			Options: options.Index().SetName("by_status_resolved"),
		},
	})
	if err != nil {
		return err
	}

	if _, err := LogsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	}); err != nil {
		return err
	}

	if _, err := UsersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_login"),
	}); err != nil {
		return err
	}

	_, err = VehiclesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "plate", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_plate"),
	})
	return err
}

// Close disconnects the client. Called on graceful shutdown.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
