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

// PeternakFilter narrows List results.
type PeternakFilter struct {
	StatusSiklus  models.StatusSiklus
	StatusKinerja models.StatusKinerja
	Nama          string
}

// PeternakRepository defines farmer persistence operations.
type PeternakRepository interface {
	Insert(ctx context.Context, p *models.Peternak) error
	FindByID(ctx context.Context, id string) (*models.Peternak, error)
	FindByNIK(ctx context.Context, nik string) (*models.Peternak, error)
	List(ctx context.Context, filter PeternakFilter) ([]models.Peternak, error)
	Update(ctx context.Context, p *models.Peternak) error
	DeleteWithLaporan(ctx context.Context, id string) error
}

// MongoPeternakRepository implements PeternakRepository on MongoDB.
type MongoPeternakRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewPeternakRepository builds a farmer repository over the shared store.
func NewPeternakRepository(store *Store, logger *zap.Logger) *MongoPeternakRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoPeternakRepository{store: store, logger: logger}
}

func (r *MongoPeternakRepository) collection() *mongo.Collection {
	return r.store.db.Collection(peternakCollection)
}

// Insert stores a new farmer document and backfills the generated id.
func (r *MongoPeternakRepository) Insert(ctx context.Context, p *models.Peternak) error {
	res, err := r.collection().InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert peternak: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// FindByID fetches one farmer by its hex object id.
func (r *MongoPeternakRepository) FindByID(ctx context.Context, id string) (*models.Peternak, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var p models.Peternak
	if err := r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find peternak %s: %w", id, err)
	}
	return &p, nil
}

// FindByNIK fetches one farmer by national id number.
func (r *MongoPeternakRepository) FindByNIK(ctx context.Context, nik string) (*models.Peternak, error) {
	var p models.Peternak
	if err := r.collection().FindOne(ctx, bson.M{"nik": nik}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find peternak by nik: %w", err)
	}
	return &p, nil
}

// List returns farmers matching the filter, newest registrations first.
func (r *MongoPeternakRepository) List(ctx context.Context, filter PeternakFilter) ([]models.Peternak, error) {
	query := bson.M{}
	if filter.StatusSiklus != "" {
		query["status_siklus"] = filter.StatusSiklus
	}
	if filter.StatusKinerja != "" {
		query["status_kinerja"] = filter.StatusKinerja
	}
	if filter.Nama != "" {
		query["nama_lengkap"] = bson.M{"$regex": filter.Nama, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "tanggal_daftar", Value: -1}})
	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list peternak: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Peternak
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode peternak list: %w", err)
	}
	return result, nil
}

// Update replaces the stored farmer document.
func (r *MongoPeternakRepository) Update(ctx context.Context, p *models.Peternak) error {
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update peternak: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithLaporan removes the farmer and every one of its reports inside a
// single transaction. The operation either fully commits or fully aborts;
// orphaned reports or a dangling farmer are never left behind.
func (r *MongoPeternakRepository) DeleteWithLaporan(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return ErrNotFound
	}

	session, err := r.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		deleted, err := r.store.db.Collection(laporanCollection).DeleteMany(sc, bson.M{"peternak_id": oid})
		if err != nil {
			return nil, fmt.Errorf("delete laporan cascade: %w", err)
		}

		res, err := r.store.db.Collection(peternakCollection).DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("delete peternak: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}

		r.logger.Info("peternak deleted with reports",
			zap.String("peternak_id", id),
			zap.Int64("laporan_deleted", deleted.DeletedCount))
		return nil, nil
	})
	return err
}
