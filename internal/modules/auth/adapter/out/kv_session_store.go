package out

import (
	"context"

	"cradle/internal/modules/auth/domain"
	authout "cradle/internal/modules/auth/port/out"
	"cradle/internal/platform/kv"
)

const sessionKey = "auth:session"

type KVSessionStore struct {
	kv kv.Store
}

func NewKVSessionStore(store kv.Store) *KVSessionStore {
	return &KVSessionStore{kv: store}
}

var _ authout.SessionStore = (*KVSessionStore)(nil)

func (s *KVSessionStore) Load(ctx context.Context) (domain.Session, bool, error) {
	sess, found, err := kv.LoadJSON(ctx, s.kv, sessionKey, domain.Session{})
	if err != nil || !found || !sess.Valid() {
		return domain.Session{}, false, err
	}
	return sess, true, nil
}

func (s *KVSessionStore) Save(ctx context.Context, sess domain.Session) error {
	return kv.SaveJSON(ctx, s.kv, sessionKey, sess)
}

func (s *KVSessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, sessionKey)
}
