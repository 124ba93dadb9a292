// internal/app/store/projectusers/projectuserstore.go
//
// Package projectuserstore reads the reserved per-tenant user collection.
// Tenant user records live in "_users" inside the tenant's own namespace,
// separate from the platform accounts in the shared database.
package projectuserstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docbaselabs/docbase/internal/app/store/tenantdocs"
)

// passwordField is stripped from every returned record.
const passwordField = "password"

// Store queries tenant-local user records. Like tenantdocs.Store it holds
// only the shared client handle.
type Store struct {
	client *mongo.Client
}

func New(client *mongo.Client) *Store {
	return &Store{client: client}
}

// List returns tenant user records matching the caller-supplied filter,
// with credential hashes removed. No match is an empty slice.
func (s *Store) List(ctx context.Context, tenantID string, filter bson.M, opts *tenantdocs.QueryOptions) ([]bson.M, error) {
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

	c := s.client.Database(tenantdocs.Namespace(tenantID)).Collection(tenantdocs.UsersCollection)
	cur, err := c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		delete(doc, passwordField)
	}
	return docs, nil
}
