package passcode

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps records in a collection with a unique index on recipient
// and a TTL index on issued_at.
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

func NewMongoStore(db *mongo.Database, collection string, ttl time.Duration) *MongoStore {
	if collection == "" {
		collection = "passcodes"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MongoStore{coll: db.Collection(collection), ttl: ttl}
}

// EnsureIndexes creates the recipient and expiry indexes. Call it once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "issued_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.ttl / time.Second)),
		},
	})
	return err
}

func (s *MongoStore) Put(ctx context.Context, rec Record) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "recipient", Value: rec.Recipient}},
		rec,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Consume(ctx context.Context, recipient, hash string, notBefore time.Time) (Record, error) {
	filter := bson.D{
		{Key: "recipient", Value: recipient},
		{Key: "hash", Value: hash},
		{Key: "issued_at", Value: bson.D{{Key: "$gt", Value: notBefore}}},
	}

	var rec Record
	if err := s.coll.FindOneAndDelete(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.IssuedAt = rec.IssuedAt.UTC()
	return rec, nil
}

func (s *MongoStore) Fail(ctx context.Context, recipient string, notBefore time.Time, maxAttempts int) (int, error) {
	filter := bson.D{
		{Key: "recipient", Value: recipient},
		{Key: "issued_at", Value: bson.D{{Key: "$gt", Value: notBefore}}},
	}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "attempts", Value: 1}}}}

	var rec Record
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if rec.Attempts >= maxAttempts {
		_, err := s.coll.DeleteOne(ctx, bson.D{
			{Key: "recipient", Value: recipient},
			{Key: "attempts", Value: bson.D{{Key: "$gte", Value: maxAttempts}}},
		})
		if err != nil {
			return rec.Attempts, err
		}
	}
	return rec.Attempts, nil
}

// DeleteExpired removes stale records ahead of the TTL monitor, which only
// runs about once a minute.
func (s *MongoStore) DeleteExpired(ctx context.Context, before time.Time) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{{Key: "issued_at", Value: bson.D{{Key: "$lte", Value: before}}}})
	return err
}
