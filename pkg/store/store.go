// Package store persists line records.
//
// A line record bundles the parsed operations of a bulletin, the planning
// parameters and the generated machine layout under the line, style and cone
// numbers it was planned for. Records are stored verbatim; the store never
// recomputes a layout.
//
// Backends:
//
//   - [FileStore]: one JSON file per record, guarded by a lock file
//   - [SQLiteStore]: the loading_plan table in a local SQLite database
//   - [MongoStore]: the lines collection of a MongoDB database
//
// All backends report a missing record as an error with code
// LINE_NOT_FOUND.
package store

import (
	"context"
	"sort"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Store is the interface for line record storage backends.
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, r *line.Record) error
	// Get returns the record with the given ID.
	Get(ctx context.Context, id string) (*line.Record, error)
	// List returns all records, newest first.
	List(ctx context.Context) ([]*line.Record, error)
	// Delete removes a record.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Dir           string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeLineNotFound, "line %s not found", id)
}

func validate(r *line.Record) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record cannot be nil")
	}
	return errors.ValidateRecordID(r.ID)
}

// sortNewestFirst orders records by creation time, newest first, breaking
// ties by ID so listings are stable.
func sortNewestFirst(rs []*line.Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID < rs[j].ID
	})
}
