package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/repository/store"
)

// BlobRepository implements store.BlobStore with one MongoDB document per key.
type BlobRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

type blobDocument struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewBlobRepository connects to MongoDB and verifies the connection.
func NewBlobRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*BlobRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &BlobRepository{
		client:   client,
		dbName:   dbName,
		collName: "blobs",
		logger:   logger,
	}, nil
}

func (r *BlobRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Get loads the blob stored under key.
func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc blobDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return []byte(doc.Data), nil
}

// Put upserts the blob stored under key.
func (r *BlobRepository) Put(ctx context.Context, key string, data []byte) error {
	doc := blobDocument{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err := r.collection().ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert blob %s: %w", key, err)
	}
	r.logger.Debug("blob upserted", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Close closes the MongoDB connection.
func (r *BlobRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
