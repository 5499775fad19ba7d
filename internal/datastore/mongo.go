package datastore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend implements Backend on a mongo database. Each collection name
// maps straight onto a mongo collection; record ids are stored as the string
// _id key.
type MongoBackend struct {
	db *mongo.Database
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

func (b *MongoBackend) Run(ctx context.Context, collection string, q Query) ([]Record, error) {
	filter := bson.M{}
	for k, v := range q.Filters {
		filter[k] = v
	}
	if !q.UpdatedAfter.IsZero() {
		filter["updated_at"] = bson.M{"$gt": q.UpdatedAfter}
	}
	if !q.CreatedAfter.IsZero() {
		created := bson.M{"$gt": q.CreatedAfter}
		if !q.CreatedBefore.IsZero() {
			created["$lt"] = q.CreatedBefore
		}
		filter["created_at"] = created
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := b.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Record
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, fromBSON(raw))
	}
	return out, cur.Err()
}

func (b *MongoBackend) Put(ctx context.Context, collection, id string, rec Record) error {
	opts := options.Replace().SetUpsert(true)
	doc := rec.Clone()
	doc["_id"] = id
	_, err := b.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (b *MongoBackend) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	res, err := b.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// fromBSON converts decoded bson values into the plain Go types Record
// accessors expect (time.Time for datetimes, []any for arrays).
func fromBSON(raw bson.M) Record {
	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[k] = fromBSONValue(v)
	}
	return rec
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSONValue(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromBSONValue(e)
		}
		return out
	default:
		return v
	}
}
