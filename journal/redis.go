package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the keys, e.g. "pilot" gives pilot:balance and
	// pilot:trades.
	Prefix string
}

// RedisStore keeps the balance in a string key and the trade log in a list
// of JSON documents. Apply runs both writes in one MULTI/EXEC.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", o.Addr, err)
	}
	return NewRedisFromClient(rdb, o.Prefix), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "pilot"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) balanceKey() string { return r.prefix + ":balance" }
func (r *RedisStore) tradesKey() string  { return r.prefix + ":trades" }

func (r *RedisStore) Balance(ctx context.Context) (float64, bool, error) {
	v, err := r.rdb.Get(ctx, r.balanceKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	b, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse balance %q: %w", v, err)
	}
	return b, true, nil
}

func (r *RedisStore) Apply(ctx context.Context, t Trade, balance float64) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, r.tradesKey(), doc)
		p.Set(ctx, r.balanceKey(), strconv.FormatFloat(balance, 'f', 4, 64), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply trade %s: %w", t.ID, err)
	}
	return nil
}

func (r *RedisStore) TradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error) {
	docs, err := r.rdb.LRange(ctx, r.tradesKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var out []Trade
	for _, d := range docs {
		var t Trade
		if err := json.Unmarshal([]byte(d), &t); err != nil {
			return nil, fmt.Errorf("decode trade: %w", err)
		}
		if inRange(t.Timestamp, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
