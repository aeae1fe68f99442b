package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const Nil = redis.Nil

type Key string

func (k Key) String() string {
	return string(k)
}

type Instance interface {
	Ping(ctx context.Context) error
	ComposeKey(parts ...string) Key
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value interface{}) error
	SetEX(ctx context.Context, key Key, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...Key) error
	IncrBy(ctx context.Context, key Key, amount int64) (int64, error)
	Expire(ctx context.Context, key Key, ttl time.Duration) error
	RawClient() redis.UniversalClient
}

type inst struct {
	cl     redis.UniversalClient
	prefix string
}

type Options struct {
	Username   string
	Password   string
	Database   int
	Sentinel   bool
	Addresses  []string
	MasterName string
	Prefix     string
}

func New(ctx context.Context, opt Options) (Instance, error) {
	if len(opt.Addresses) == 0 {
		return nil, fmt.Errorf("no redis addresses provided")
	}

	var cl redis.UniversalClient

	if opt.Sentinel {
		cl = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    opt.MasterName,
			SentinelAddrs: opt.Addresses,
			Username:      opt.Username,
			Password:      opt.Password,
			DB:            opt.Database,
		})
	} else {
		cl = redis.NewClient(&redis.Options{
			Addr:     opt.Addresses[0],
			Username: opt.Username,
			Password: opt.Password,
			DB:       opt.Database,
		})
	}

	if err := cl.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &inst{
		cl:     cl,
		prefix: opt.Prefix,
	}, nil
}

func (i *inst) Ping(ctx context.Context) error {
	return i.cl.Ping(ctx).Err()
}

func (i *inst) ComposeKey(parts ...string) Key {
	k := i.prefix
	for _, p := range parts {
		k += ":" + p
	}

	return Key(k)
}

func (i *inst) Get(ctx context.Context, key Key) (string, error) {
	return i.cl.Get(ctx, key.String()).Result()
}

func (i *inst) Set(ctx context.Context, key Key, value interface{}) error {
	return i.cl.Set(ctx, key.String(), value, 0).Err()
}

func (i *inst) SetEX(ctx context.Context, key Key, value interface{}, ttl time.Duration) error {
	return i.cl.SetEX(ctx, key.String(), value, ttl).Err()
}

func (i *inst) Del(ctx context.Context, keys ...Key) error {
	strs := make([]string, len(keys))
	for n, k := range keys {
		strs[n] = k.String()
	}

	return i.cl.Del(ctx, strs...).Err()
}

func (i *inst) IncrBy(ctx context.Context, key Key, amount int64) (int64, error) {
	return i.cl.IncrBy(ctx, key.String(), amount).Result()
}

func (i *inst) Expire(ctx context.Context, key Key, ttl time.Duration) error {
	return i.cl.Expire(ctx, key.String(), ttl).Err()
}

func (i *inst) RawClient() redis.UniversalClient {
	return i.cl
}
