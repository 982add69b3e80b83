package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/seedjob"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const seedJobKeyPrefix = "seedjob:"

func NewRedisClient(ctx context.Context, cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}

// RedisJobStore keeps seed job state as JSON values that expire after ttl.
type RedisJobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisJobStore(rdb *redis.Client, ttl time.Duration) *RedisJobStore {
	return &RedisJobStore{rdb: rdb, ttl: ttl}
}

func (s *RedisJobStore) Save(ctx context.Context, job *seedjob.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal seed job: %w", err)
	}
	if err := s.rdb.Set(ctx, seedJobKey(job.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save seed job %s: %w", job.ID, err)
	}
	return nil
}

func (s *RedisJobStore) FindByID(ctx context.Context, id uuid.UUID) (*seedjob.Job, error) {
	payload, err := s.rdb.Get(ctx, seedJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, seedjob.ErrJobNotFound
		}
		return nil, fmt.Errorf("get seed job %s: %w", id, err)
	}

	var job seedjob.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("unmarshal seed job %s: %w", id, err)
	}
	return &job, nil
}

func seedJobKey(id uuid.UUID) string {
	return seedJobKeyPrefix + id.String()
}
