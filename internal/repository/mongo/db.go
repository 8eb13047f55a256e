package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnectTimeout = 10 * time.Second
	pingTimeout           = 5 * time.Second
	appName               = "health-tracker"
)

// ConnectDB connects to MongoDB and verifies the primary is reachable.
// connectTimeout <= 0 falls back to ten seconds.
func ConnectDB(uri string, connectTimeout time.Duration) (*mongo.Client, error) {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		// Ping failed, release the pool before giving up
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

func logIndexWarning(collection *mongo.Collection, err error) {
	log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
}

// EnsureIndexes creates the indexes of every collection the service uses.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureBodyStatusIndexes(ctx, db.Collection(bodyStatusCollectionName))
	EnsureDailyIndexes(ctx, db.Collection(calorieCollectionName))
	EnsureDailyIndexes(ctx, db.Collection(waterCollectionName))
	EnsureDailyIndexes(ctx, db.Collection(sleepCollectionName))
	EnsureDailyIndexes(ctx, db.Collection(workoutCollectionName))
	EnsureGenerationIndexes(ctx, db.Collection(generationCollectionName))
}
