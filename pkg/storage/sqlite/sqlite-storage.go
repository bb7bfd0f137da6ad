package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	Connection *sql.DB
	logger     logrus.FieldLogger
}

// New opens, or creates, the SQLite database found at path and applies pending migrations.
// The returned storage owns the connection pool; call Close when done.
func New(logger logrus.FieldLogger, path string) (*Storage, error) {
	logger.Info("initialising SQLite DB")

	connection, err := sql.Open("sqlite3", getConnectionString(path))
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// opening the DB will fail silently when the package is compiled without CGO_ENABLED
	if err = connection.Ping(); err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("pinging database %q: %w", path, err)
	}

	if err = migrate(context.Background(), logger, connection); err != nil {
		logger.WithError(err).Error("error while migrating database schema")
		_ = connection.Close()
		return nil, fmt.Errorf("migrating database %q: %w", path, err)
	}

	return &Storage{Connection: connection, logger: logger}, nil
}

func (s *Storage) Close() {
	s.logger.Debug("database stopping")
	if err := s.Connection.Close(); err != nil {
		s.logger.WithError(err).Warning("error while closing database")
	}
}

// getConnectionString provides a configuration string that enables foreign keys constraints and waits on locks
// rather than failing writes outright
func getConnectionString(path string) string {
	return "file:" + path + "?_fk=on&_busy_timeout=5000"
}
