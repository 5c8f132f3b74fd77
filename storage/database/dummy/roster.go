package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core/roster"
)

type datasetRepository struct {
	db *datasetTable
}

var _ roster.Repository = (*datasetRepository)(nil) // interface compliance check

func NewDatasetRepository(db *DB) roster.Repository {
	return &datasetRepository{db: db.datasets}
}

func (repo *datasetRepository) SaveDataset(ctx context.Context, ds roster.Dataset) (roster.Dataset, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ds.ID = uuid.New().String()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}
	repo.db.table[ds.Owner] = &ds
	return ds, nil
}

func (repo *datasetRepository) GetDatasetByOwner(ctx context.Context, owner string) (roster.Dataset, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ds, ok := repo.db.table[owner]
	if !ok {
		return roster.Dataset{}, roster.ErrNoDataset
	}
	return *ds, nil
}

func (repo *datasetRepository) DeleteDatasetByOwner(ctx context.Context, owner string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, owner)
	return nil
}
