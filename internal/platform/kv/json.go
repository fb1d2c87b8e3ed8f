package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadJSON decodes key into a value of T. A missing key or a value that does
// not decode yields def, so corrupt blobs fall back instead of failing.
// Storage errors are still returned.
func LoadJSON[T any](ctx context.Context, s Store, key string, def T) (T, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return def, false, err
	}
	if !ok {
		return def, false, nil
	}
	out := def
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return def, false, nil
	}
	return out, true, nil
}

func SaveJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}
