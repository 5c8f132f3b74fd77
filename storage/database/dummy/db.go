// Package dummydb is the in-memory dataset store for DEV & tests.
package dummydb

import (
	"sync"

	"github.com/trezcool/alama/core/roster"
)

type (
	DB struct {
		datasets *datasetTable
	}

	datasetTable struct {
		sync.RWMutex
		table map[string]*roster.Dataset // key: owner
	}
)

func Open() (*DB, error) {
	db := &DB{
		datasets: &datasetTable{table: make(map[string]*roster.Dataset)},
	}
	return db, nil
}
