package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect initializes and returns a MongoDB client and database handle.
// The handle is passed explicitly to every service; there is no package
// level connection state.
func Connect(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB")
	return client, client.Database(dbName), nil
}

// Disconnect closes the MongoDB client connection.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	log.Println("MongoDB connection closed")
	return nil
}

// EnsureIndexes creates the unique indexes the services rely on: user
// email and mobile number, and the (userId, sharedWith, propertyId)
// share triple. The user indexes are partial on isDeleted so a
// soft-deleted account frees its email and mobile for re-registration.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	notDeleted := bson.M{"isDeleted": false}
	userIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(notDeleted),
		},
		{
			Keys:    bson.D{{Key: "mobileNo", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(notDeleted),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIdx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	shareIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "sharedWith", Value: 1},
			{Key: "propertyId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("shareproperties").Indexes().CreateOne(ctx, shareIdx); err != nil {
		return fmt.Errorf("failed to create share index: %w", err)
	}
	return nil
}
