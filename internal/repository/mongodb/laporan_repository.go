package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
)

// LaporanFilter narrows report listings by period.
type LaporanFilter struct {
	Year          int
	DisplayPeriod string
}

// LaporanRepository defines report persistence operations.
type LaporanRepository interface {
	Insert(ctx context.Context, l *models.Laporan) error
	FindByID(ctx context.Context, id string) (*models.Laporan, error)
	ListByPeternak(ctx context.Context, peternakID primitive.ObjectID, filter LaporanFilter) ([]models.Laporan, error)
	CountByPeternak(ctx context.Context, peternakID primitive.ObjectID) (int, error)
	Update(ctx context.Context, l *models.Laporan) error
	Delete(ctx context.Context, id string) error
}

// MongoLaporanRepository implements LaporanRepository on MongoDB.
type MongoLaporanRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewLaporanRepository builds a report repository over the shared store.
func NewLaporanRepository(store *Store, logger *zap.Logger) *MongoLaporanRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoLaporanRepository{store: store, logger: logger}
}

func (r *MongoLaporanRepository) collection() *mongo.Collection {
	return r.store.db.Collection(laporanCollection)
}

// Insert stores a new report and backfills the generated id.
func (r *MongoLaporanRepository) Insert(ctx context.Context, l *models.Laporan) error {
	res, err := r.collection().InsertOne(ctx, l)
	if err != nil {
		return fmt.Errorf("insert laporan: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

// FindByID fetches one report by its hex object id.
func (r *MongoLaporanRepository) FindByID(ctx context.Context, id string) (*models.Laporan, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var l models.Laporan
	if err := r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find laporan %s: %w", id, err)
	}
	return &l, nil
}

// ListByPeternak returns a farmer's reports in sequence order.
func (r *MongoLaporanRepository) ListByPeternak(ctx context.Context, peternakID primitive.ObjectID, filter LaporanFilter) ([]models.Laporan, error) {
	query := bson.M{"peternak_id": peternakID}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.DisplayPeriod != "" {
		query["display_period"] = filter.DisplayPeriod
	}

	opts := options.Find().SetSort(bson.D{{Key: "report_number", Value: 1}})
	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list laporan: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Laporan
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode laporan list: %w", err)
	}
	return result, nil
}

// CountByPeternak counts a farmer's reports. The per-farmer set is capped at
// 8 documents, so recounting at read time is cheaper than keeping a cache
// consistent.
func (r *MongoLaporanRepository) CountByPeternak(ctx context.Context, peternakID primitive.ObjectID) (int, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{"peternak_id": peternakID})
	if err != nil {
		return 0, fmt.Errorf("count laporan: %w", err)
	}
	return int(n), nil
}

// Update replaces the stored report document.
func (r *MongoLaporanRepository) Update(ctx context.Context, l *models.Laporan) error {
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": l.ID}, l)
	if err != nil {
		return fmt.Errorf("update laporan: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one report.
func (r *MongoLaporanRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete laporan: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
