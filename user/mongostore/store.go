// Package mongostore keeps accounts in the MongoDB "users" collection.
//
// Documents use the ObjectID as _id and keep the bcrypt hash under
// "password". A unique index on "email" backs the duplicate check.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kbukum/userauth/logger"
	"github.com/kbukum/userauth/mongodb"
	"github.com/kbukum/userauth/user"
)

// CollectionName is the collection accounts are stored in.
const CollectionName = "users"

const emailIndex = "email_unique"

type document struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Surname   string             `bson:"surname"`
	Nickname  string             `bson:"nickname"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func fromRecord(rec *user.Record) (document, error) {
	oid, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return document{}, fmt.Errorf("mongostore: invalid id %q: %w", rec.ID, err)
	}
	return document{
		ID:        oid,
		Name:      rec.Name,
		Surname:   rec.Surname,
		Nickname:  rec.Nickname,
		Email:     rec.Email,
		Password:  rec.PasswordHash,
		Role:      rec.Role,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (d *document) record() *user.Record {
	return &user.Record{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Surname:      d.Surname,
		Nickname:     d.Nickname,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// Store is a user.Store backed by a MongoDB collection.
type Store struct {
	coll *mongo.Collection
	log  *logger.Logger
}

// New returns a store over the users collection of client's database.
func New(client *mongodb.Client, log *logger.Logger) *Store {
	return &Store{
		coll: client.Collection(CollectionName),
		log:  log.WithComponent("mongostore"),
	}
}

// EnsureIndexes creates the unique email index if it does not exist.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	name, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndex),
	})
	if err != nil {
		return fmt.Errorf("mongostore: create email index: %w", err)
	}
	s.log.Debug("Index ready", map[string]interface{}{"index": name})
	return nil
}

// FindByEmail implements user.Store.
func (s *Store) FindByEmail(ctx context.Context, email string) (*user.Record, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByID implements user.Store.
func (s *Store) FindByID(ctx context.Context, id string) (*user.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, user.ErrNotFound
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *Store) findOne(ctx context.Context, filter bson.D) (*user.Record, error) {
	var doc document
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: find: %w", err)
	}
	return doc.record(), nil
}

// Insert implements user.Store.
func (s *Store) Insert(ctx context.Context, rec *user.Record) (string, error) {
	doc, err := fromRecord(rec)
	if err != nil {
		return "", err
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("mongostore: insert: %w", user.ErrDuplicateEmail)
	}
	if err != nil {
		return "", fmt.Errorf("mongostore: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok || oid.IsZero() {
		return "", user.ErrNotInserted
	}
	return oid.Hex(), nil
}

// UpdateProfile implements user.Store. Only the fields set in p are written.
func (s *Store) UpdateProfile(ctx context.Context, id string, p user.Profile) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.ErrNotFound
	}

	set := bson.D{{Key: "updatedAt", Value: p.UpdatedAt}}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Surname != nil {
		set = append(set, bson.E{Key: "surname", Value: *p.Surname})
	}
	if p.Nickname != nil {
		set = append(set, bson.E{Key: "nickname", Value: *p.Nickname})
	}

	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("mongostore: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

// List implements user.Store. Accounts come back in insertion order.
func (s *Store) List(ctx context.Context) ([]*user.Record, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongostore: list: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: list: %w", err)
	}
	out := make([]*user.Record, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].record())
	}
	return out, nil
}

var _ user.Store = (*Store)(nil)
