package database

import (
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

// Open connects to the configured database.
func Open(conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.DatabaseAddress(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Connect(conf.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS dataset (
    id         UUID PRIMARY KEY,
    owner      TEXT NOT NULL UNIQUE,
    classes    TEXT NOT NULL, -- JSON array, insertion order
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS record (
    dataset_id UUID NOT NULL REFERENCES dataset (id) ON DELETE CASCADE,
    pos        INT NOT NULL,
    reg_no     TEXT NOT NULL,
    name       TEXT NOT NULL,
    class      TEXT NOT NULL,
    scores     TEXT NOT NULL, -- JSON object, subject -> score
    PRIMARY KEY (dataset_id, pos)
);
`

// EnsureSchema applies the schema; safe to run on every startup.
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return errors.Wrap(err, "applying schema")
}
