package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

const activeJobKey = "quickscribe:activeJobId"

//RedisJobStore persists the active job id in redis. Used when several
//client instances share one watch, the file store is the local default
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

//NewRedisJobStore creates a store from a redis connection URL
func NewRedisJobStore(connStr string) (*RedisJobStore, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse redis URL")
	}
	cmdapp.Log.Infof("Redis job store at %s db %d", opt.Addr, opt.DB)
	return &RedisJobStore{client: redis.NewClient(opt), ttl: time.Hour * 24}, nil
}

//Save persists the active job id
func (s *RedisJobStore) Save(id string) error {
	return s.client.Set(context.Background(), activeJobKey, id, s.ttl).Err()
}

//Active returns the persisted job id
func (s *RedisJobStore) Active() (string, bool) {
	res, err := s.client.Get(context.Background(), activeJobKey).Result()
	if err != nil {
		if err != redis.Nil {
			cmdapp.Log.Warnf("Can't read active job id: %v", err)
		}
		return "", false
	}
	return res, res != ""
}

//Clear removes the persisted job id
func (s *RedisJobStore) Clear() error {
	return s.client.Del(context.Background(), activeJobKey).Err()
}

//Close closes the redis connection
func (s *RedisJobStore) Close() error {
	return s.client.Close()
}
