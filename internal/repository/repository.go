package repository

import "errors"

// ErrStorageUnavailable is returned when the backing store cannot be reached.
var ErrStorageUnavailable = errors.New("key-value storage unavailable")

// KeyValueRepository is the durable flat namespace of string keys to
// serialized values that mirrors the record store.
type KeyValueRepository interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written or was deleted.
	Get(key string) (value string, found bool, err error)

	// Set writes value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists stored keys starting with prefix, sorted ascending
	Keys(prefix string) ([]string, error)
}
