package chat_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rountana/page1/clients/gemini"
	"github.com/rountana/page1/logger"
	"github.com/rountana/page1/utils"
)

const (
	sessionKeyPrefix = "chat_session:"
	// Sliding idle TTL: every save renews it, so a conversation stays alive
	// while it is being used.
	sessionTTL = 30 * time.Minute
	// Oldest turns are dropped beyond this to keep prompts bounded.
	maxHistoryTurns = 40
)

// Session is one chat conversation. Each request carries its session id, so
// there is no process-wide conversation state.
type Session struct {
	ID        string           `json:"id"`
	History   []gemini.Message `json:"history"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		History:   []gemini.Message{},
		CreatedAt: time.Now(),
	}
}

// Append records a turn, trimming the oldest ones past the cap.
func (s *Session) Append(role, text string) {
	s.History = append(s.History, gemini.Message{Role: role, Text: text})
	if len(s.History) > maxHistoryTurns {
		s.History = s.History[len(s.History)-maxHistoryTurns:]
	}
}

// SessionStore persists chat sessions between turns.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// RedisSessionStore keeps sessions as JSON values with a sliding TTL. A nil
// client disables persistence; the controller then treats every turn as a
// fresh conversation.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	if s.rdb == nil {
		return nil, fmt.Errorf("session store disabled: %w", utils.ErrNotFound)
	}

	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("chat session %s: %w", id, utils.ErrNotFound)
		}
		logger.WarnLogger.Warnf("Failed to load chat session %s: %v", id, err)
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		logger.WarnLogger.Warnf("Corrupt chat session %s: %v", id, err)
		return nil, fmt.Errorf("chat session %s: %w", id, utils.ErrNotFound)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	if s.rdb == nil {
		return nil
	}

	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal chat session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.ID, doc, sessionTTL).Err(); err != nil {
		logger.WarnLogger.Warnf("Failed to save chat session %s: %v", session.ID, err)
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}
