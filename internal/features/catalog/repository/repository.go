package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrStoreUnavailable = errors.New("document store unavailable")

type ItemRepository interface {
	// FindAll returns every document in natural order, fields in stored
	// order. An empty collection yields an empty, non-nil slice.
	FindAll(ctx context.Context) ([]bson.D, error)
}

type itemRepository struct {
	collection *mongo.Collection
}

func New(collection *mongo.Collection) ItemRepository {
	return &itemRepository{collection: collection}
}

func (r *itemRepository) FindAll(ctx context.Context) ([]bson.D, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.D, 0)
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", ErrStoreUnavailable, err)
	}

	return docs, nil
}
