package storage

import "fmt"

// NewKV returns an uninitialized backend of the given kind.
// path is the directory for "file" and the database file for "sqlite".
func NewKV(kind, path string) (KV, error) {
	switch kind {
	case "", "memory":
		return NewMemoryKV(), nil
	case "file":
		return NewFileKV(path), nil
	case "sqlite":
		return NewSQLiteKV(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
