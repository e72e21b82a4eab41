//go:build js

package storage

import "errors"

var errNoSQLite = errors.New("storage: sqlite is not available in the browser")

// SQLiteStore is unavailable in js builds; OpenSQLite always fails.
type SQLiteStore struct{}

func OpenSQLite(path string) (*SQLiteStore, error) { return nil, errNoSQLite }

func (s *SQLiteStore) Get(key string) (string, error) { return "", errNoSQLite }

func (s *SQLiteStore) Set(key, value string) error { return errNoSQLite }

func (s *SQLiteStore) Close() error { return nil }
