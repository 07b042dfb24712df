package faqstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// ValkeyStore caches query embeddings in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new cache backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faqemb"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// GetVector implements faq.VectorCache.
func (s *ValkeyStore) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	cmd := s.client.B().Get().Key(s.vectorKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var vector []float32
	if err := json.Unmarshal([]byte(payload), &vector); err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

// SaveVector implements faq.VectorCache.
func (s *ValkeyStore) SaveVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	payload, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.vectorKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) vectorKey(key string) string {
	return fmt.Sprintf("%s:vec:%s", s.prefix, key)
}

var _ faq.VectorCache = (*ValkeyStore)(nil)
