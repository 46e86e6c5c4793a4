package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seydifall/dindetrack/internal/domain/models"
)

// SummarySnapshot is one archived rollup result. Snapshots are audit
// copies written by the scheduler; they are never read back as a data
// source, the rollup always recomputes from the record store.
type SummarySnapshot struct {
	FarmID     string               `bson:"farm_id"`
	Lot        string               `bson:"lot"`
	Semaine    string               `bson:"semaine"`
	ComputedAt time.Time            `bson:"computed_at"`
	Summary    models.WeeklySummary `bson:"summary"`
}

// Repository defines the interface for summary archival.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot SummarySnapshot) error
	LatestSnapshot(ctx context.Context, farmID, lot, semaine string) (*SummarySnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "summary_snapshots",
	}, nil
}

// SaveSnapshot archives a computed weekly summary.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot SummarySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert summary snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent archived summary of a scope, or
// nil when none was ever archived.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context, farmID, lot, semaine string) (*SummarySnapshot, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	filter := bson.M{"farm_id": farmID, "lot": lot, "semaine": semaine}
	opts := options.FindOne().SetSort(bson.M{"computed_at": -1})

	snapshot := new(SummarySnapshot)
	err := collection.FindOne(ctx, filter, opts).Decode(snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load summary snapshot: %w", err)
	}
	return snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
