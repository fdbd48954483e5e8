package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "storefront:kv-changed"

// RedisKV keeps the client state slots in redis, namespaced per session so
// two browsers (or two tabs sharing a session) read the same slots.
type RedisKV struct {
	client    *redis.Client
	namespace string
}

func NewRedisKV(client *redis.Client, namespace string) *RedisKV {
	return &RedisKV{client: client, namespace: namespace}
}

func (r *RedisKV) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.slot(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisKV) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.slot(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	r.publishChange(ctx, key)
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.slot(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	r.publishChange(ctx, key)
	return nil
}

// Watch subscribes to writes against this namespace from any client sharing
// the redis instance.
func (r *RedisKV) Watch(ctx context.Context) (<-chan string, error) {
	sub := r.client.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ns, key, found := strings.Cut(msg.Payload, "|")
				if !found || ns != r.namespace {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (r *RedisKV) publishChange(ctx context.Context, key string) {
	if err := r.client.Publish(ctx, changeChannel, r.namespace+"|"+key).Err(); err != nil {
		log.Printf("kv change publish failed: %v", err)
	}
}

func (r *RedisKV) slot(key string) string {
	return fmt.Sprintf("storefront:%s:%s", r.namespace, key)
}
