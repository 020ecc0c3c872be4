package mongodb

import (
	"context"
	"errors"

	"Outbreak/internal/history/entity"
	"Outbreak/internal/history/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "match_history"

type MatchRepository struct {
	coll *mongo.Collection
}

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

// EnsureIndexes 建 ended_at 倒序索引，Recent 按它排序。
func (r *MatchRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ended_at", Value: -1}},
	})
	return err
}

func (r *MatchRepository) Save(ctx context.Context, rec *entity.MatchRecord) error {
	if rec == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}

	doc := model.RecordToDoc(rec)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb match collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "ended_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []model.MatchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.MatchRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.DocToRecord(d))
	}
	return out, nil
}

func (r *MatchRepository) Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb match collection is nil")
	}
	var doc model.MatchDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := model.DocToRecord(doc)
	return &rec, nil
}
