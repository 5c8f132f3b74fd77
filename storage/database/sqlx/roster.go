package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core/roster"
)

type datasetRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*datasetRepository)(nil) // interface compliance check

func NewDatasetRepository(db *sqlx.DB) roster.Repository {
	return &datasetRepository{db: db}
}

type (
	datasetRow struct {
		ID        string    `db:"id"`
		Owner     string    `db:"owner"`
		Classes   string    `db:"classes"`
		CreatedAt time.Time `db:"created_at"`
	}

	recordRow struct {
		DatasetID string `db:"dataset_id"`
		Pos       int    `db:"pos"`
		RegNo     string `db:"reg_no"`
		Name      string `db:"name"`
		Class     string `db:"class"`
		Scores    string `db:"scores"`
	}
)

func (repo *datasetRepository) SaveDataset(ctx context.Context, ds roster.Dataset) (roster.Dataset, error) {
	ds.ID = uuid.New().String()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}

	classes, err := json.Marshal(ds.Classes)
	if err != nil {
		return roster.Dataset{}, errors.Wrap(err, "encoding class list")
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.Dataset{}, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// the new merge replaces the owner's previous dataset
	if _, err = tx.ExecContext(ctx, `DELETE FROM dataset WHERE owner = $1`, ds.Owner); err != nil {
		return roster.Dataset{}, errors.Wrap(err, "dropping previous dataset")
	}

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO dataset (id, owner, classes, created_at) VALUES (:id, :owner, :classes, :created_at)`,
		datasetRow{ID: ds.ID, Owner: ds.Owner, Classes: string(classes), CreatedAt: ds.CreatedAt},
	)
	if err != nil {
		return roster.Dataset{}, errors.Wrap(err, "inserting dataset")
	}

	for i, rec := range ds.Records {
		scores, sErr := json.Marshal(rec.Scores)
		if sErr != nil {
			return roster.Dataset{}, errors.Wrap(sErr, "encoding scores")
		}
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO record (dataset_id, pos, reg_no, name, class, scores)
			 VALUES (:dataset_id, :pos, :reg_no, :name, :class, :scores)`,
			recordRow{DatasetID: ds.ID, Pos: i, RegNo: rec.RegNo, Name: rec.Name, Class: rec.Class, Scores: string(scores)},
		)
		if err != nil {
			return roster.Dataset{}, errors.Wrap(err, "inserting record")
		}
	}

	if err = tx.Commit(); err != nil {
		return roster.Dataset{}, errors.Wrap(err, "committing dataset")
	}
	return ds, nil
}

func (repo *datasetRepository) GetDatasetByOwner(ctx context.Context, owner string) (roster.Dataset, error) {
	var dsRow datasetRow
	err := repo.db.GetContext(ctx, &dsRow, `SELECT id, owner, classes, created_at FROM dataset WHERE owner = $1`, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.Dataset{}, roster.ErrNoDataset
		}
		return roster.Dataset{}, errors.Wrap(err, "querying dataset")
	}

	ds := roster.Dataset{ID: dsRow.ID, Owner: dsRow.Owner, CreatedAt: dsRow.CreatedAt}
	if err = json.Unmarshal([]byte(dsRow.Classes), &ds.Classes); err != nil {
		return roster.Dataset{}, errors.Wrap(err, "decoding class list")
	}

	var recRows []recordRow
	err = repo.db.SelectContext(ctx, &recRows,
		`SELECT dataset_id, pos, reg_no, name, class, scores FROM record WHERE dataset_id = $1 ORDER BY pos`, ds.ID)
	if err != nil {
		return roster.Dataset{}, errors.Wrap(err, "querying records")
	}

	ds.Records = make([]roster.StudentRecord, 0, len(recRows))
	for _, rr := range recRows {
		rec := roster.StudentRecord{RegNo: rr.RegNo, Name: rr.Name, Class: rr.Class}
		if err = json.Unmarshal([]byte(rr.Scores), &rec.Scores); err != nil {
			return roster.Dataset{}, errors.Wrap(err, "decoding scores")
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func (repo *datasetRepository) DeleteDatasetByOwner(ctx context.Context, owner string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM dataset WHERE owner = $1`, owner)
	return errors.Wrap(err, "deleting dataset")
}
