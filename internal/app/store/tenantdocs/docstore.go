// internal/app/store/tenantdocs/docstore.go
//
// Package tenantdocs is the tenant-scoped document proxy: generic CRUD over
// schema-less collections inside a tenant's isolated namespace. Every
// operation routes through Namespace, so no code path can touch another
// tenant's data. Filter and update payloads are caller-supplied documents
// passed to the driver verbatim; the proxy does not reinterpret operators.
package tenantdocs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReservedPrefix marks collections that are internal to the platform.
// They are invisible to ListCollections.
const ReservedPrefix = "_"

// UsersCollection is the reserved per-tenant collection holding the
// tenant's own user records (read via the projectusers store).
const UsersCollection = "_users"

// ErrInvalidID is returned when a document id does not parse as an
// ObjectID. The check runs before any I/O.
var ErrInvalidID = errors.New("invalid document id")

// QueryOptions is the wire-facing subset of find options the proxy
// supports. Nil means driver defaults.
type QueryOptions struct {
	Skip       *int64 `json:"skip,omitempty" bson:"skip,omitempty"`
	Limit      *int64 `json:"limit,omitempty" bson:"limit,omitempty"`
	Sort       bson.M `json:"sort,omitempty" bson:"sort,omitempty"`
	Projection bson.M `json:"projection,omitempty" bson:"projection,omitempty"`
}

// UpdateOptions controls update behavior.
type UpdateOptions struct {
	Upsert *bool `json:"upsert,omitempty" bson:"upsert,omitempty"`
}

// CreateCollectionOptions is the supported subset of collection-creation
// options.
type CreateCollectionOptions struct {
	Capped       *bool  `json:"capped,omitempty" bson:"capped,omitempty"`
	SizeInBytes  *int64 `json:"size,omitempty" bson:"size,omitempty"`
	MaxDocuments *int64 `json:"max,omitempty" bson:"max,omitempty"`
}

// UpdateResult reports what an update touched.
type UpdateResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// InsertResult carries the generated id of an inserted document.
type InsertResult struct {
	ID string `json:"_id"`
}

// Namespace maps a tenant id to its isolated database name. The mapping is
// pure and collision-free across the id space, which is what makes
// cross-tenant access impossible by construction.
func Namespace(tenantID string) string {
	return "tenant-" + tenantID
}

// Store executes document operations against per-tenant namespaces. It
// holds only the shared client handle, which is safe for concurrent use.
type Store struct {
	client *mongo.Client
}

func New(client *mongo.Client) *Store {
	return &Store{client: client}
}

func (s *Store) db(tenantID string) *mongo.Database {
	return s.client.Database(Namespace(tenantID))
}

// ListCollections enumerates the user-visible collections in the tenant's
// namespace, excluding reserved (underscore-prefixed) names.
func (s *Store) ListCollections(ctx context.Context, tenantID string) ([]string, error) {
	names, err := s.db(tenantID).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	visible := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ReservedPrefix) {
			continue
		}
		visible = append(visible, name)
	}
	return visible, nil
}

// CreateCollection creates a named collection in the tenant's namespace.
func (s *Store) CreateCollection(ctx context.Context, tenantID, name string, opts *CreateCollectionOptions) error {
	var createOpts *options.CreateCollectionOptions
	if opts != nil {
		createOpts = options.CreateCollection()
		if opts.Capped != nil {
			createOpts.SetCapped(*opts.Capped)
		}
		if opts.SizeInBytes != nil {
			createOpts.SetSizeInBytes(*opts.SizeInBytes)
		}
		if opts.MaxDocuments != nil {
			createOpts.SetMaxDocuments(*opts.MaxDocuments)
		}
		return s.db(tenantID).CreateCollection(ctx, name, createOpts)
	}
	return s.db(tenantID).CreateCollection(ctx, name)
}

// DropCollection drops a named collection in the tenant's namespace.
// Dropping an absent collection is not an error.
func (s *Store) DropCollection(ctx context.Context, tenantID, name string) error {
	return s.db(tenantID).Collection(name).Drop(ctx)
}

// Find returns the documents matching the caller-supplied filter. A nil
// filter matches everything. No match is an empty slice, not an error.
func (s *Store) Find(ctx context.Context, tenantID, collection string, filter bson.M, opts *QueryOptions) ([]bson.M, error) {
	if filter == nil {
		filter = bson.M{}
	}
	findOpts := options.Find()
	if opts != nil {
		if opts.Skip != nil {
			findOpts.SetSkip(*opts.Skip)
		}
		if opts.Limit != nil {
			findOpts.SetLimit(*opts.Limit)
		}
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Projection != nil {
			findOpts.SetProjection(opts.Projection)
		}
	}

	cur, err := s.db(tenantID).Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindOne loads a single document by id. Not-found is (nil, nil).
func (s *Store) FindOne(ctx context.Context, tenantID, collection, id string, opts *QueryOptions) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	findOpts := options.FindOne()
	if opts != nil && opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}

	var doc bson.M
	err = s.db(tenantID).Collection(collection).FindOne(ctx, bson.M{"_id": oid}, findOpts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Insert stores a caller-supplied document and returns its generated hex id.
func (s *Store) Insert(ctx context.Context, tenantID, collection string, document bson.M) (InsertResult, error) {
	res, err := s.db(tenantID).Collection(collection).InsertOne(ctx, document)
	if err != nil {
		return InsertResult{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return InsertResult{ID: oid.Hex()}, nil
	}
	// Caller supplied their own _id; echo it back as a string.
	return InsertResult{ID: fmt.Sprint(res.InsertedID)}, nil
}

// UpdateMany applies the caller-supplied update to all documents matching
// the filter. The update is wrapped in $set so caller fields are replaced
// without touching system fields like _id.
func (s *Store) UpdateMany(ctx context.Context, tenantID, collection string, filter, update bson.M, opts *UpdateOptions) (UpdateResult, error) {
	updateOpts := options.Update()
	if opts != nil && opts.Upsert != nil {
		updateOpts.SetUpsert(*opts.Upsert)
	}

	res, err := s.db(tenantID).Collection(collection).
		UpdateMany(ctx, filter, bson.M{"$set": update}, updateOpts)
	if err != nil {
		return UpdateResult{}, err
	}
	out := UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	}
	return out, nil
}

// UpdateByID applies the caller-supplied update to one document by id.
func (s *Store) UpdateByID(ctx context.Context, tenantID, collection, id string, update bson.M, opts *UpdateOptions) (UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return UpdateResult{}, ErrInvalidID
	}
	return s.UpdateMany(ctx, tenantID, collection, bson.M{"_id": oid}, update, opts)
}

// DeleteMany removes all documents matching the caller-supplied filter.
func (s *Store) DeleteMany(ctx context.Context, tenantID, collection string, filter bson.M) (DeleteResult, error) {
	res, err := s.db(tenantID).Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// DeleteByID removes one document by id.
func (s *Store) DeleteByID(ctx context.Context, tenantID, collection, id string) (DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return DeleteResult{}, ErrInvalidID
	}
	return s.DeleteMany(ctx, tenantID, collection, bson.M{"_id": oid})
}
