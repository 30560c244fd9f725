package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	draftTTL     = 24 * time.Hour
	saveLockTTL  = 30 * time.Second
	draftKeyBase = "scan:draft:"
)

// DraftStore keeps working scans between review requests.
type DraftStore interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Put(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, id string) error
	// AcquireSaveLock returns false when a save for id is already running.
	AcquireSaveLock(ctx context.Context, id string) (bool, error)
	ReleaseSaveLock(ctx context.Context, id string) error
}

// RedisDraftStore stores drafts as JSON with a 24 hour TTL.
type RedisDraftStore struct {
	redis *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{redis: client}
}

func draftKey(id string) string {
	return draftKeyBase + id
}

func saveLockKey(id string) string {
	return draftKeyBase + id + ":saving"
}

// Get retrieves a draft, returning ErrDraftNotFound when it is missing or expired.
func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Put writes the draft and refreshes its TTL.
func (s *RedisDraftStore) Put(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// Delete removes a draft
func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) AcquireSaveLock(ctx context.Context, id string) (bool, error) {
	ok, err := s.redis.SetNX(ctx, saveLockKey(id), time.Now().Unix(), saveLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire save lock: %w", err)
	}
	return ok, nil
}

func (s *RedisDraftStore) ReleaseSaveLock(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, saveLockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release save lock: %w", err)
	}
	return nil
}
