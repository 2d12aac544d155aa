package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/system/normalize"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the MongoDB-backed user repository.
type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("users"),
		counters: db.Collection("counters"),
	}
}

var _ Repository = (*Store)(nil)

// mongoSortField maps a public sort field to the stored field.
func mongoSortField(f string) string {
	switch f {
	case "username":
		return "username_ci"
	case "status", "created_at":
		return f
	default:
		return "_id"
	}
}

// nextID allocates the next integer id from the counters collection.
func (s *Store) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "users"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return doc.Seq, nil
}

// List returns one page of users matching q and the total match count.
func (s *Store) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Search != "" {
		filter["username_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(q.Search))}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dir := 1
	if normalize.SortDir(q.OrderDir) == "desc" {
		dir = -1
	}
	sort := bson.D{{Key: mongoSortField(q.OrderBy), Value: dir}}
	if sort[0].Key != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}

	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	find := options.Find().
		SetSort(sort).
		SetSkip(paging.Skip(page, limit)).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetByID loads a user by id.
func (s *Store) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a new active user with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, username, password string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	id, err := s.nextID(ctx)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           id,
		Username:     normalize.Username(username),
		PasswordHash: hash,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.UsernameCI = text.Fold(u.Username)

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) findAndSet(ctx context.Context, id int64, set bson.M) (models.User, error) {
	set["updated_at"] = time.Now().UTC()

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Update changes the username and, when upd.Password is set, the password.
func (s *Store) Update(ctx context.Context, id int64, upd Update) (models.User, error) {
	name := normalize.Username(upd.Username)
	set := bson.M{
		"username":    name,
		"username_ci": text.Fold(name),
	}
	if upd.Password != "" {
		hash, err := HashPassword(upd.Password)
		if err != nil {
			return models.User{}, err
		}
		set["password_hash"] = hash
	}
	return s.findAndSet(ctx, id, set)
}

// SetStatus sets the status of a user.
func (s *Store) SetStatus(ctx context.Context, id int64, status string) (models.User, error) {
	if !models.IsValidStatus(status) {
		return models.User{}, errBadStatus
	}
	return s.findAndSet(ctx, id, bson.M{"status": status})
}

// Delete removes a user by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}
