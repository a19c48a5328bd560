package enums

import "fmt"

// StorageBackend selects the persistence driver wired at startup.
type StorageBackend string

const (
	StorageBackendFile     StorageBackend = "file"
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendRedis    StorageBackend = "redis"
	StorageBackendSQLite   StorageBackend = "sqlite"
	StorageBackendPostgres StorageBackend = "postgres"
)

var validStorageBackends = []StorageBackend{
	StorageBackendFile,
	StorageBackendMemory,
	StorageBackendRedis,
	StorageBackendSQLite,
	StorageBackendPostgres,
}

// String implements fmt.Stringer.
func (s StorageBackend) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageBackend.
func (s StorageBackend) IsValid() bool {
	for _, candidate := range validStorageBackends {
		if candidate == s {
			return true
		}
	}
	return false
}

// UsesDatabase reports whether the backend persists through the relational store.
func (s StorageBackend) UsesDatabase() bool {
	return s == StorageBackendSQLite || s == StorageBackendPostgres
}

// ParseStorageBackend converts raw input into a StorageBackend.
func ParseStorageBackend(value string) (StorageBackend, error) {
	for _, candidate := range validStorageBackends {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage backend %q", value)
}
