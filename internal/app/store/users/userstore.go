// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/docbaselabs/docbase/internal/app/system/credentials"
	"github.com/docbaselabs/docbase/internal/app/system/normalize"
	"github.com/docbaselabs/docbase/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the default collection holding user records.
const CollectionName = "users"

var (
	// ErrInvalidID is returned when a user id does not parse as an ObjectID.
	ErrInvalidID = errors.New("invalid user id")
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("no user found")
	// ErrMissingPassword is returned by Create when no password was supplied.
	ErrMissingPassword = errors.New("no password provided")
	// ErrDuplicateIdentity is returned when the username or email is taken.
	ErrDuplicateIdentity = errors.New("username or email already in use")
	// ErrInvalidUsername is returned for usernames shorter than 3 characters.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	// ErrInvalidEmail is returned for syntactically invalid email addresses.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNoPassword is returned when authenticating a passwordless account.
	ErrNoPassword = errors.New("account has no password set")
	// ErrAuthenticationFailed is returned for a wrong password.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Store is the user directory: it manages user records and delegates
// password and token work to the credentials codec. Uniqueness of username
// and email is enforced by the unique indexes the indexes package creates
// at startup; duplicate-key errors on insert map to ErrDuplicateIdentity,
// so there is no read-then-write race.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// NewWithCollection uses an explicitly named collection, for deployments
// that configure the collection name.
func NewWithCollection(db *mongo.Database, name string) *Store {
	return &Store{c: db.Collection(name)}
}

// Create validates, hashes the password, and inserts a new user, returning
// the generated hex id. The caller never gets the hash back.
func (s *Store) Create(ctx context.Context, u models.User, password string) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}

	u.ID = primitive.NewObjectID()
	u.Username = normalize.Username(u.Username)
	u.Email = normalize.Email(u.Email)
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)

	if len(u.Username) < 3 {
		return "", ErrInvalidUsername
	}
	if !emailRx.MatchString(u.Email) {
		return "", ErrInvalidEmail
	}

	hash, err := credentials.HashPassword(password)
	if err != nil {
		return "", err
	}
	u.PasswordHash = &hash

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return "", ErrDuplicateIdentity
		}
		return "", err
	}
	return u.ID.Hex(), nil
}

// GetByID loads a user by hex id with the password hash stripped.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u = u.WithoutHash()
	return &u, nil
}

// Update holds the profile fields a user may change. Nil fields are left
// untouched.
type Update struct {
	Username *string
	Email    *string
}

// Update applies the present fields of upd to the user. Returns
// ErrDuplicateIdentity when the new username or email is already taken.
func (s *Store) Update(ctx context.Context, id string, upd Update) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Username != nil {
		username := normalize.Username(*upd.Username)
		if len(username) < 3 {
			return ErrInvalidUsername
		}
		set["username"] = username
	}
	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		if !emailRx.MatchString(email) {
			return ErrInvalidEmail
		}
		set["email"] = email
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateIdentity
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user by id. Deleting an absent user is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	_, err = s.c.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// List returns a page of users ordered by creation, hashes stripped.
func (s *Store) List(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].WithoutHash()
	}
	return users, nil
}

// Authenticate verifies the email/password pair and, on success, issues a
// signed identity token for the user's id.
func (s *Store) Authenticate(ctx context.Context, email, password, secret string) (string, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	if u.PasswordHash == nil {
		return "", ErrNoPassword
	}

	ok, err := credentials.VerifyPassword(password, *u.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAuthenticationFailed
	}
	return credentials.IssueToken(u.ID.Hex(), secret, time.Now())
}
