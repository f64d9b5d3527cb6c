package db

import (
	"context"
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

type PuzzleDbClient struct {
	client           *mongo.Client
	PuzzleCollection *mongo.Collection
}

func (r *PuzzleDbClient) Close() error {
	return r.client.Disconnect(context.TODO())
}

func NewDbClient(cfg *config.Configuration) (*PuzzleDbClient, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.Database.Address)

	dbClient := &PuzzleDbClient{}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	dbClient.client = client

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	dbClient.PuzzleCollection = client.Database(cfg.Database.DatabaseName).Collection(cfg.Database.Collection)
	if dbClient.PuzzleCollection == nil {
		return nil, fmt.Errorf("Can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.Collection)
	}

	// one document per puzzle slot of a set revision
	_, err = dbClient.PuzzleCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "set", Value: 1}, {Key: "revision", Value: 1}, {Key: "index", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create puzzle index: %w", err)
	}
	return dbClient, nil
}
