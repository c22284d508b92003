package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

// Redis stores each lecture as JSON under lecture:<id>, plus a sorted set of ids by creation time.
type Redis struct {
	client *redis.Client
}

const lecturesIndexKey = "lectures"

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisClient constructs a go-redis client and validates the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func lectureKey(id string) string { return "lecture:" + id }

func (r *Redis) Create(ctx context.Context, l *models.Lecture) (string, error) {
	if err := prepare(l, time.Now().UTC()); err != nil {
		return "", err
	}

	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode lecture: %w", err)
	}

	ok, err := r.client.SetNX(ctx, lectureKey(l.ID), b, 0).Result()
	if err != nil {
		return "", fmt.Errorf("lecture create: %w", err)
	}
	if !ok {
		return "", models.ErrConflict
	}

	if err := r.client.ZAdd(ctx, lecturesIndexKey, redis.Z{Score: float64(l.CreatedAt.Unix()), Member: l.ID}).Err(); err != nil {
		return "", fmt.Errorf("lecture index: %w", err)
	}
	return l.ID, nil
}

// Update is a read-modify-write without WATCH; one run owns a lecture at a time
func (r *Redis) Update(ctx context.Context, id string, u models.LectureUpdate) error {
	l, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	u.Apply(l)

	b, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lecture: %w", err)
	}
	if err := r.client.Set(ctx, lectureKey(id), b, 0).Err(); err != nil {
		return fmt.Errorf("lecture update: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (*models.Lecture, error) {
	val, err := r.client.Get(ctx, lectureKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("lecture get: %w", err)
	}

	var l models.Lecture
	if err := json.Unmarshal(val, &l); err != nil {
		return nil, fmt.Errorf("decode lecture: %w", err)
	}
	return &l, nil
}
