// Package docstore defines the capability surface application code uses to
// talk to the document database: the model operation set, the driver
// lifecycle, and the failure taxonomy. Production code programs against
// these interfaces; tests substitute the doubles from internal/mongomock.
package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model defines the data-access operations available on a registered
// document model. Filters, updates, and pipeline stages use bson.M so call
// sites read like the queries they stand for.
type Model[T any] interface {
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindByIDAndUpdate(ctx context.Context, id string, update bson.M) (*T, error)
	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc T) (T, error)
	InsertMany(ctx context.Context, docs []T) ([]T, error)
	UpdateOne(ctx context.Context, filter, update bson.M) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter, update bson.M) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (DeleteResult, error)
	DeleteMany(ctx context.Context, filter bson.M) (DeleteResult, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error)
}

// Database defines the driver connection lifecycle.
type Database interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	State() ConnState
	IsValidObjectID(id string) bool
}

// UpdateResult reports the outcome of an update operation.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult reports the outcome of a delete operation.
type DeleteResult struct {
	DeletedCount int64
}

// ConnState mirrors the driver connection ready states.
type ConnState int8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateConnecting
	StateDisconnecting
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// Ready reports whether the connection can serve operations.
func (s ConnState) Ready() bool {
	return s == StateConnected
}

// IsValidObjectID reports whether id parses as a 24-character hex object ID.
// The mock client's predicate accepts anything; this is the strict check
// used by application code.
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
