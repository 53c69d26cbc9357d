package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

const snapshotsCollection = "dashboard_snapshots"

// Repository defines the archive operations for daily dashboard snapshots.
type Repository interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
	RecentSnapshots(ctx context.Context, ranchID string, limit int64) ([]models.DashboardSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotsCollection,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveDashboardSnapshot archives one daily dashboard snapshot.
func (r *MongoDBRepository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	if _, err := r.collection().InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert dashboard snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots of a ranch, newest first.
func (r *MongoDBRepository) RecentSnapshots(ctx context.Context, ranchID string, limit int64) ([]models.DashboardSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.M{"ranch_id": ranchID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.DashboardSnapshot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard snapshots: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
