package repository

import (
	"context"
	"errors"
	"time"

	"necx-chat/internal/domain/user"
	necx_errors "necx-chat/pkg/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d userDocument) toEntity() user.User {
	return user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *MongoUserRepository) findOne(ctx context.Context, op string, filter any, opts ...options.Lister[options.FindOneOptions]) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, necx_errors.Storage(op, err)
	}
	u := doc.toEntity()
	return &u, nil
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, necx_errors.Storage("fetch users", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, necx_errors.Storage("fetch users", err)
	}

	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toEntity())
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      u.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return necx_errors.Conflict("User with this name already exists")
		}
		return necx_errors.Storage("create user", err)
	}
	*u = doc.toEntity()
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) (*user.User, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	var doc userDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, necx_errors.Storage("delete user", err)
	}
	u := doc.toEntity()
	return &u, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, "fetch user", bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoUserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	opts := options.FindOne().SetCollation(caseInsensitive)
	return r.findOne(ctx, "fetch user", bson.D{{Key: "name", Value: name}}, opts)
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, necx_errors.Storage("count users", err)
	}
	return total, nil
}
