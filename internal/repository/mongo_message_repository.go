package repository

import (
	"context"
	"errors"
	"time"

	"necx-chat/internal/domain/message"
	necx_errors "necx-chat/pkg/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type messageDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Content   string        `bson:"content"`
	Sender    string        `bson:"sender"`
	Recipient string        `bson:"recipient"`
	Timestamp time.Time     `bson:"timestamp"`
	EditedAt  *time.Time    `bson:"editedAt"`
	IsEdited  bool          `bson:"isEdited"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d messageDocument) toEntity() message.Message {
	m := message.Message{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		Sender:    d.Sender,
		Recipient: d.Recipient,
		Timestamp: d.Timestamp,
		IsEdited:  d.IsEdited,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.EditedAt != nil {
		m.EditedAt.Time = *d.EditedAt
		m.EditedAt.Valid = true
	}
	return m
}

var chronological = bson.D{{Key: "timestamp", Value: 1}, {Key: "createdAt", Value: 1}}

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &MongoMessageRepository{coll: db.Collection(MessagesCollection)}
}

func (r *MongoMessageRepository) find(ctx context.Context, op string, filter any, opts ...options.Lister[options.FindOptions]) ([]message.Message, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, necx_errors.Storage(op, err)
	}
	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, necx_errors.Storage(op, err)
	}

	messages := make([]message.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.toEntity())
	}
	return messages, nil
}

func (r *MongoMessageRepository) decodeOne(op string, res *mongo.SingleResult) (*message.Message, error) {
	var doc messageDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, necx_errors.Storage(op, err)
	}
	m := doc.toEntity()
	return &m, nil
}

func (r *MongoMessageRepository) FindAll(ctx context.Context) ([]message.Message, error) {
	return r.find(ctx, "fetch messages", bson.D{}, options.Find().SetSort(chronological))
}

func (r *MongoMessageRepository) Create(ctx context.Context, m *message.Message) error {
	now := time.Now().UTC()
	doc := messageDocument{
		ID:        bson.NewObjectID(),
		Content:   m.Content,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Timestamp: m.Timestamp,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return necx_errors.Storage("create message", err)
	}
	*m = doc.toEntity()
	return nil
}

func (r *MongoMessageRepository) Delete(ctx context.Context, id string) (*message.Message, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.decodeOne("delete message", r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}))
}

func (r *MongoMessageRepository) FindByID(ctx context.Context, id string) (*message.Message, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.decodeOne("fetch message", r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}))
}

func (r *MongoMessageRepository) Update(ctx context.Context, id string, edit message.Edit) (*message.Message, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: edit.Content},
		{Key: "editedAt", Value: edit.EditedAt},
		{Key: "isEdited", Value: true},
		{Key: "updatedAt", Value: edit.EditedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.decodeOne("update message",
		r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts))
}

func (r *MongoMessageRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, necx_errors.Storage("count messages", err)
	}
	return total, nil
}

func (r *MongoMessageRepository) FindBetween(ctx context.Context, name1, name2 string) ([]message.Message, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender", Value: exactNameRegex(name1)}, {Key: "recipient", Value: exactNameRegex(name2)}},
		bson.D{{Key: "sender", Value: exactNameRegex(name2)}, {Key: "recipient", Value: exactNameRegex(name1)}},
	}}}
	return r.find(ctx, "fetch messages between users", filter, options.Find().SetSort(chronological))
}

func (r *MongoMessageRepository) SearchText(ctx context.Context, query string, filter message.SearchFilter) ([]message.Message, error) {
	q := bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}}
	if filter.Sender != "" {
		q = append(q, bson.E{Key: "sender", Value: exactNameRegex(filter.Sender)})
	}
	if filter.Recipient != "" {
		q = append(q, bson.E{Key: "recipient", Value: exactNameRegex(filter.Recipient)})
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		bounds := bson.D{}
		if filter.DateFrom != nil {
			bounds = append(bounds, bson.E{Key: "$gte", Value: *filter.DateFrom})
		}
		if filter.DateTo != nil {
			bounds = append(bounds, bson.E{Key: "$lte", Value: *filter.DateTo})
		}
		q = append(q, bson.E{Key: "timestamp", Value: bounds})
	}

	score := bson.D{{Key: "$meta", Value: "textScore"}}
	opts := options.Find().
		SetProjection(bson.D{{Key: "score", Value: score}}).
		SetSort(bson.D{{Key: "score", Value: score}, {Key: "timestamp", Value: -1}}).
		SetLimit(int64(filter.EffectiveLimit()))
	return r.find(ctx, "search messages", q, opts)
}
