package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Bucket configures one token bucket. A zero bucket disables limiting.
type Bucket struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	BurstSize         int `yaml:"burstSize"`
}

func (b Bucket) Enabled() bool {
	return b.RequestsPerMinute > 0 && b.BurstSize > 0
}

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter decides whether a subject may perform one more request in the
// given scope.
type Limiter interface {
	Allow(ctx context.Context, scope string, subject string, bucket Bucket) (Decision, error)
}

// RedisLimiter shares bucket state across instances through a single Lua
// script, so refill and spend stay atomic per key.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

var bucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1]) -- tokens/sec
local capacity = tonumber(ARGV[2])
local now_ms = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

local tokens = tonumber(redis.call("HGET", key, "tokens"))
local last_ms = tonumber(redis.call("HGET", key, "ts"))

if not tokens then tokens = capacity end
if not last_ms or last_ms > now_ms then last_ms = now_ms end

tokens = math.min(capacity, tokens + (now_ms - last_ms) * (rate / 1000.0))

local allowed = 0
local retry_s = 0
if tokens >= 1.0 then
  allowed = 1
  tokens = tokens - 1.0
elseif rate > 0 then
  retry_s = math.ceil((1.0 - tokens) / rate)
  if retry_s < 1 then retry_s = 1 end
else
  retry_s = 60
end

redis.call("HSET", key, "tokens", tokens, "ts", now_ms)
redis.call("PEXPIRE", key, ttl_ms)
return {allowed, retry_s}
`)

func (l *RedisLimiter) Allow(ctx context.Context, scope string, subject string, bucket Bucket) (Decision, error) {
	if l == nil || l.rdb == nil || !bucket.Enabled() {
		return Decision{Allowed: true}, nil
	}

	ratePerSec := float64(bucket.RequestsPerMinute) / 60.0
	capacity := float64(bucket.BurstSize)
	nowMS := time.Now().UTC().UnixMilli()
	ttl := stateTTL(ratePerSec, capacity)

	res, err := bucketScript.Run(ctx, l.rdb, []string{bucketKey(scope, subject)},
		ratePerSec, capacity, nowMS, ttl.Milliseconds()).Result()
	if err != nil {
		return Decision{}, err
	}
	return parseDecision(res)
}

func bucketKey(scope, subject string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = "default"
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "unknown"
	}
	// Subjects can be tokens or client addresses; hash them so keys stay
	// uniform and leak nothing.
	sum := sha256.Sum256([]byte(subject))
	return "storeq:rl:" + scope + ":" + hex.EncodeToString(sum[:])
}

func parseDecision(res interface{}) (Decision, error) {
	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		return Decision{}, fmt.Errorf("unexpected ratelimit script response: %T", res)
	}
	allowed, _ := vals[0].(int64)
	if allowed == 1 {
		return Decision{Allowed: true}, nil
	}
	retryAfterS, _ := vals[1].(int64)
	if retryAfterS <= 0 {
		retryAfterS = 1
	}
	return Decision{Allowed: false, RetryAfter: time.Duration(retryAfterS) * time.Second}, nil
}

// stateTTL keeps bucket state alive for roughly two refill-to-full cycles
// so idle keys age out of redis.
func stateTTL(ratePerSec, capacity float64) time.Duration {
	const minTTL = 30 * time.Second
	const maxTTL = time.Hour

	if ratePerSec <= 0 || capacity <= 0 {
		return 2 * time.Minute
	}
	fillSeconds := capacity / ratePerSec
	ttl := time.Duration(math.Ceil(fillSeconds*2.0))*time.Second + 5*time.Second
	if ttl < minTTL {
		return minTTL
	}
	if ttl > maxTTL {
		return maxTTL
	}
	return ttl
}
