package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/session"
)

const keyPrefix = "session:"

// Store persists sessions in Redis so multiple serve instances share
// conversation state. Expiry is delegated to Redis key TTLs.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Conn connects to Redis and verifies the connection with a ping.
func Conn(ctx context.Context, addr, password string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: timeout,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

func (store *Store) Ensure(ctx context.Context, id string) (session.Session, error) {
	if id != "" {
		sess, err := store.Get(ctx, id)
		if err == nil {
			// refresh TTL on touch
			_ = store.client.Expire(ctx, keyPrefix+id, store.ttl).Err()
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return session.Session{}, err
		}
	}
	now := time.Now()
	sess := session.Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := store.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (store *Store) Get(ctx context.Context, id string) (session.Session, error) {
	val, err := store.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (store *Store) Save(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, keyPrefix+sess.ID, data, store.ttl).Err()
}

func (store *Store) Delete(ctx context.Context, id string) error {
	return store.client.Del(ctx, keyPrefix+id).Err()
}
