package out

import (
	"context"

	"cradle/internal/modules/cloudsync/domain"
	cloudout "cradle/internal/modules/cloudsync/port/out"
	"cradle/internal/platform/kv"
)

const flagDone = "1"

type KVFlagStore struct {
	kv kv.Store
}

func NewKVFlagStore(store kv.Store) *KVFlagStore {
	return &KVFlagStore{kv: store}
}

var _ cloudout.FlagStore = (*KVFlagStore)(nil)

func (s *KVFlagStore) Done(ctx context.Context, userID string) (bool, error) {
	v, ok, err := s.kv.Get(ctx, domain.FlagKey(userID))
	if err != nil {
		return false, err
	}
	return ok && v == flagDone, nil
}

func (s *KVFlagStore) MarkDone(ctx context.Context, userID string) error {
	return s.kv.Set(ctx, domain.FlagKey(userID), flagDone)
}
