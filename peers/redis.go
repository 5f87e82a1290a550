package peers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSecretMismatch is returned by Rotate when the stored secret is not the
// one the caller expected to replace.
var ErrSecretMismatch = errors.New("peer secret mismatch")

const defaultPrefix = "tyx:peer:"

const (
	rotateStatusNotFound int64 = 0
	rotateStatusMismatch int64 = 1
	rotateStatusRotated  int64 = 2
)

const rotateScript = `
local current = redis.call("GET", KEYS[1])
if not current then
  return 0
end
if current ~= ARGV[1] then
  return 1
end
if tonumber(ARGV[3]) > 0 then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
  redis.call("SET", KEYS[1], ARGV[2], "KEEPTTL")
end
return 2
`

var rotateLua = redis.NewScript(rotateScript)

// RedisStore keeps peer secrets under prefix+peerID.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store using client. An empty prefix selects "tyx:peer:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(peerID string) string {
	return s.prefix + peerID
}

// Secret reads the secret for peerID.
func (s *RedisStore) Secret(ctx context.Context, peerID string) (string, error) {
	if peerID == "" {
		return "", ErrUnknownPeer
	}
	v, err := s.client.Get(ctx, s.key(peerID)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && v == "") {
		return "", ErrUnknownPeer
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, nil
}

// Put registers secret for peerID. A zero ttl keeps it until deleted.
func (s *RedisStore) Put(ctx context.Context, peerID, secret string, ttl time.Duration) error {
	if peerID == "" || secret == "" {
		return errors.New("peer id and secret are required")
	}
	if err := s.client.Set(ctx, s.key(peerID), secret, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Rotate atomically replaces oldSecret with newSecret. A positive ttl resets
// the expiry, otherwise the current one is kept.
func (s *RedisStore) Rotate(ctx context.Context, peerID, oldSecret, newSecret string, ttl time.Duration) error {
	if newSecret == "" {
		return errors.New("new secret is required")
	}
	res, err := rotateLua.Run(ctx, s.client, []string{s.key(peerID)}, oldSecret, newSecret, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch res {
	case rotateStatusRotated:
		return nil
	case rotateStatusMismatch:
		return ErrSecretMismatch
	case rotateStatusNotFound:
		return ErrUnknownPeer
	default:
		return fmt.Errorf("%w: unexpected rotate status %d", ErrUnavailable, res)
	}
}

// Delete removes peerID. Deleting an unknown peer is not an error.
func (s *RedisStore) Delete(ctx context.Context, peerID string) error {
	if err := s.client.Del(ctx, s.key(peerID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Peers lists registered peer ids in sorted order.
func (s *RedisStore) Peers(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, s.prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(out)
	return out, nil
}
