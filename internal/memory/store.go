package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is a single remembered conversation turn
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Store keeps a capped per-user conversation history in Redis. It is
// best-effort context for the chat capability: a memory failure must never
// fail the chat request it rode in on.
type Store struct {
	client *redis.Client
	limit  int64
	ttl    time.Duration
}

// NewStore creates a memory store keeping the most recent turns per user
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		limit:  50,
		ttl:    7 * 24 * time.Hour,
	}
}

func key(userID string) string {
	return "chat:memory:" + userID
}

// Append records conversation turns for a user, trimming to the cap
func (s *Store) Append(ctx context.Context, userID string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key(userID), values...)
	pipe.LTrim(ctx, key(userID), -s.limit, -1)
	pipe.Expire(ctx, key(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Recent returns up to n most recent turns for a user, oldest first
func (s *Store) Recent(ctx context.Context, userID string, n int64) ([]Message, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	raw, err := s.client.LRange(ctx, key(userID), -n, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue // skip entries written by older versions
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
