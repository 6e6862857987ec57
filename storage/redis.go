package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis stores the task blob as a single Redis string value.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis backend writing under the given key. An empty
// key falls back to DefaultKey.
func NewRedis(client *redis.Client, key string) *Redis {
	if client == nil {
		panic("storage.NewRedis: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key}
}

// Load fetches the saved blob. A missing key is reported as not found, not
// as an error.
func (r *Redis) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save overwrites the blob. No TTL: the collection lives until the next
// write.
func (r *Redis) Save(ctx context.Context, blob []byte) error {
	return r.client.Set(ctx, r.key, blob, 0).Err()
}
