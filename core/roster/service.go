package roster

import (
	"context"
	"errors"

	"github.com/trezcool/alama/core"
)

var (
	// errors
	ErrNoDataset = errors.New("no dataset uploaded")
)

type (
	Repository interface {
		// SaveDataset stores ds as the owner's current dataset, replacing
		// any previous one. The stored dataset (with its assigned ID) is
		// returned.
		SaveDataset(ctx context.Context, ds Dataset) (Dataset, error)
		GetDatasetByOwner(ctx context.Context, owner string) (Dataset, error)
		DeleteDatasetByOwner(ctx context.Context, owner string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}

	// ClassUpload is one raw uploaded table together with its class label.
	ClassUpload struct {
		Class string
		Table RawTable
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Ingest runs the upload pipeline for an owner: normalize each class
// table, merge, and store the result as the owner's current dataset.
// Validation and conflict errors surface unchanged; nothing is stored on
// failure.
func (svc *Service) Ingest(ctx context.Context, owner string, uploads []ClassUpload) (Dataset, error) {
	datasets := make([]ClassDataset, 0, len(uploads))
	for _, up := range uploads {
		ds, err := Normalize(up.Table, up.Class)
		if err != nil {
			return Dataset{}, err
		}
		datasets = append(datasets, ds)
	}

	merged, err := Merge(datasets...)
	if err != nil {
		return Dataset{}, err
	}
	merged.Owner = owner

	stored, err := svc.repo.SaveDataset(ctx, merged)
	if err != nil {
		return Dataset{}, err
	}
	svc.log.Info("dataset stored", map[string]interface{}{
		"id": stored.ID, "classes": len(stored.Classes), "records": len(stored.Records),
	})
	return stored, nil
}

// Current returns the owner's most recently merged dataset.
func (svc *Service) Current(ctx context.Context, owner string) (Dataset, error) {
	return svc.repo.GetDatasetByOwner(ctx, owner)
}

// Clear drops the owner's current dataset.
func (svc *Service) Clear(ctx context.Context, owner string) error {
	return svc.repo.DeleteDatasetByOwner(ctx, owner)
}
