// Package storage persists survey responses. Two backends implement
// the same Store contract: a PostgreSQL store and a file store. The
// backend is selected once at startup and cached for the process
// lifetime; a database that fails later degrades per-write to the
// file store instead of losing the submission.
package storage

import (
	"context"
	"strings"

	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/log"
	"github.com/nanotronics/survey-server/model"
)

const (
	KindDatabase = "database"
	KindFile     = "file"
)

// Hosted deployments have been observed handing out a DATABASE_URL
// that points at the web service itself. Treat it as unconfigured.
const disallowedHost = "web.railway.internal"

type Store interface {
	// Kind reports which backend answers: "database" or "file".
	Kind() string
	// Save persists one record and returns its backend-assigned id.
	Save(ctx context.Context, rec *model.SurveyResponse) (id string, err error)
	// List returns all records, newest first.
	List(ctx context.Context) ([]map[string]any, error)
	// Health reports backend reachability.
	Health(ctx context.Context) error
	Close() error
}

// Open selects the storage backend. The file store always exists: it
// is the primary store when no usable DATABASE_URL is configured, and
// the write fallback otherwise. Any failure to reach or migrate the
// database logs a warning and settles on file storage, no retry.
func Open(cfg config.Config) (Store, error) {
	files, err := newFileStore(cfg.ResponsesDir)
	if err != nil {
		return nil, err
	}

	url := cfg.DatabaseURL
	if url == "" {
		log.Info("No DATABASE_URL configured, using file-based storage")
		return files, nil
	}
	if strings.Contains(url, disallowedHost) {
		log.Warn("Invalid DATABASE_URL detected, using file storage")
		return files, nil
	}

	db, err := openDatabase(url)
	if err != nil {
		log.Warnf("Database connection failed: %s", err)
		log.Warn("Falling back to file-based storage")
		return files, nil
	}

	log.Info("Database connected and schema ready")
	return &databaseStore{db: db, fallback: files}, nil
}
