package passcode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript deletes the key only when the stored hash matches and the
// record is fresh. Returns the record JSON or nil.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return nil
end
local rec = cjson.decode(raw)
if rec.hash ~= ARGV[1] then
	return nil
end
if tonumber(rec.issued_unix_ms) <= tonumber(ARGV[2]) then
	return nil
end
redis.call("DEL", KEYS[1])
return raw
`)

// failScript counts a miss in a companion key that shares the record's
// expiry and drops both keys once the budget is spent. Returns the count, or
// nil when no fresh record exists.
var failScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return nil
end
local rec = cjson.decode(raw)
if tonumber(rec.issued_unix_ms) <= tonumber(ARGV[1]) then
	return nil
end
local attempts = redis.call("INCR", KEYS[2])
local ttl = redis.call("PTTL", KEYS[1])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[2], ttl)
end
if attempts >= tonumber(ARGV[2]) then
	redis.call("DEL", KEYS[1], KEYS[2])
end
return attempts
`)

type redisRecord struct {
	Recipient    string `json:"recipient"`
	Hash         string `json:"hash"`
	IssuedUnixMs int64  `json:"issued_unix_ms"`
}

// RedisStore keeps one key per recipient with a native expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store whose keys expire after ttl.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "passcode:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(recipient string) string { return s.prefix + recipient }

func (s *RedisStore) attemptsKey(recipient string) string { return s.prefix + "attempts:" + recipient }

func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	data, err := json.Marshal(redisRecord{
		Recipient:    rec.Recipient,
		Hash:         rec.Hash,
		IssuedUnixMs: rec.IssuedAt.UnixMilli(),
	})
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(rec.Recipient), data, s.ttl)
		pipe.Del(ctx, s.attemptsKey(rec.Recipient))
		return nil
	})
	return err
}

func (s *RedisStore) Consume(ctx context.Context, recipient, hash string, notBefore time.Time) (Record, error) {
	raw, err := consumeScript.Run(ctx, s.client, []string{s.key(recipient)}, hash, notBefore.UnixMilli()).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, err
	}
	return Record{
		Recipient: rec.Recipient,
		Hash:      rec.Hash,
		IssuedAt:  time.UnixMilli(rec.IssuedUnixMs).UTC(),
	}, nil
}

func (s *RedisStore) Fail(ctx context.Context, recipient string, notBefore time.Time, maxAttempts int) (int, error) {
	keys := []string{s.key(recipient), s.attemptsKey(recipient)}
	n, err := failScript.Run(ctx, s.client, keys, notBefore.UnixMilli(), maxAttempts).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return n, nil
}

// DeleteExpired is a no-op: keys expire on their own.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) error { return nil }
