// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/docbaselabs/docbase/internal/app/system/sanitize"
	"github.com/docbaselabs/docbase/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the default collection holding project records.
const CollectionName = "projects"

var (
	// ErrInvalidID is returned when a project id does not parse as an ObjectID.
	ErrInvalidID = errors.New("invalid project id")
	// ErrNotFound is returned when no project matches the given id.
	ErrNotFound = errors.New("no project found")
	// ErrMissingName is returned by Create for an empty project name.
	ErrMissingName = errors.New("project name is required")
)

// Store is the tenant directory: project records plus the membership
// predicate the authorization guard relies on.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// NewWithCollection uses an explicitly named collection.
func NewWithCollection(db *mongo.Database, name string) *Store {
	return &Store{c: db.Collection(name)}
}

// Create inserts a project with the creator as its sole initial member and
// returns the generated hex id.
func (s *Store) Create(ctx context.Context, name, creator string) (string, error) {
	name = sanitize.Text(name)
	if name == "" {
		return "", ErrMissingName
	}

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Users:     []string{creator},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return "", err
	}
	return p.ID.Hex(), nil
}

// GetByID loads a project by hex id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListForUser returns every project whose member list contains the subject.
func (s *Store) ListForUser(ctx context.Context, subject string) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{"users": subject})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// LookupMembership is the sole authorization predicate for tenant-scoped
// routes: a single point query matching the project id AND the subject in
// its member list. It returns nil (no error) both when the project does
// not exist and when the subject is not a member; the two cases are
// indistinguishable to the caller on purpose.
func (s *Store) LookupMembership(ctx context.Context, projectID, subject string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, ErrInvalidID
	}
	var p models.Project
	err = s.c.FindOne(ctx, bson.M{"_id": oid, "users": subject}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
