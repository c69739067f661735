package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so every instance sees the same
// sign-ins. Each session is a JSON value expiring with the session; a set
// per user indexes its tokens for DeleteByUserID.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store using keys under prefix (default "session:").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(token string) string      { return s.prefix + token }
func (s *RedisStore) userKey(id uuid.UUID) string { return s.prefix + "user:" + id.String() }

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	return s.write(ctx, session, false)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	return s.write(ctx, session, true)
}

func (s *RedisStore) UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	session.LastActivityAt = lastActivity
	return s.write(ctx, session, true)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(token))
	pipe.SRem(ctx, s.userKey(session.UserID), token)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return errors.Join(ErrStore, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, s.key(t))
	}
	keys = append(keys, s.userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys on its own.
func (s *RedisStore) DeleteExpired(context.Context) error { return nil }

func (s *RedisStore) write(ctx context.Context, session *Session, mustExist bool) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrStore, err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	if mustExist {
		ok, err := s.client.SetXX(ctx, s.key(session.Token), raw, ttl).Result()
		if err != nil {
			return errors.Join(ErrStore, err)
		}
		if !ok {
			return ErrSessionNotFound
		}
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(session.Token), raw, ttl)
	pipe.SAdd(ctx, s.userKey(session.UserID), session.Token)
	pipe.ExpireGT(ctx, s.userKey(session.UserID), ttl)
	pipe.ExpireNX(ctx, s.userKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
