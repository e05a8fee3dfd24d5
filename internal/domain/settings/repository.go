package settings

import "context"

// Repository defines data access for the key/value settings store.
type Repository interface {
	// Get returns ErrSettingNotFound when the key has never been written
	Get(ctx context.Context, key string) (string, error)

	// GetMany fetches the given keys in one round-trip; missing keys are
	// simply absent from the map
	GetMany(ctx context.Context, keys []string) (map[string]string, error)

	// Set upserts the key
	Set(ctx context.Context, key, value string) error
}
