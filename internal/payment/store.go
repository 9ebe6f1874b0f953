package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mini-bookstore/internal/model"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

// UpdateFunc mutates a session in place and reports whether it changed.
type UpdateFunc func(s *model.PaymentSession) (bool, error)

// SessionStore persists transient payment sessions.
type SessionStore interface {
	// Create stores a new session. It fails if the transaction id is already taken.
	Create(ctx context.Context, s *model.PaymentSession) error

	// Get loads a session. Returns model.ErrPaymentNotFound when absent.
	Get(ctx context.Context, transactionID string) (*model.PaymentSession, error)

	// Update applies fn atomically and returns the resulting session.
	Update(ctx context.Context, transactionID string, fn UpdateFunc) (*model.PaymentSession, error)
}

// RedisSessionStore keeps sessions as JSON values that outlive their payment window by retention.
type RedisSessionStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, retention time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		retention: retention,
	}
}

func (r *RedisSessionStore) Create(ctx context.Context, s *model.PaymentSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal payment session failed: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl < 0 {
		ttl = 0
	}
	ttl += r.retention

	ok, err := r.client.SetNX(ctx, sessionKey(s.TransactionID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("payment session %s already exists", s.TransactionID)
	}
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, transactionID string) (*model.PaymentSession, error) {
	data, err := r.client.Get(ctx, sessionKey(transactionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeSession(data)
}

// Update runs fn under WATCH so concurrent transitions of the same session never interleave.
func (r *RedisSessionStore) Update(ctx context.Context, transactionID string, fn UpdateFunc) (*model.PaymentSession, error) {
	key := sessionKey(transactionID)

	var result *model.PaymentSession
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return model.ErrPaymentNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get failed: %w", err)
		}

		session, err := decodeSession(data)
		if err != nil {
			return err
		}

		changed, err := fn(session)
		if err != nil {
			return err
		}
		result = session
		if !changed {
			return nil
		}

		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal payment session failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("payment session %s: update retries exhausted", transactionID)
}

func decodeSession(data []byte) (*model.PaymentSession, error) {
	var s model.PaymentSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal payment session failed: %w", err)
	}
	return &s, nil
}

func sessionKey(transactionID string) string {
	return fmt.Sprintf("payment:session:%s", transactionID)
}
