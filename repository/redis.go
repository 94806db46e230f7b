package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"arcadebot/models"
)

const (
	userKeyPrefix     = "arcade:user:"
	usernameKeyPrefix = "arcade:username:"
	claimKeyPrefix    = "arcade:claim:"
	ledgerKeyPrefix   = "arcade:ledger:"
	userIndexKey      = "arcade:users"
)

// RedisStore persists users, daily claims, and the ledger audit log as JSON
// documents in Redis. A username index key supports admin lookups by name.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over the given Redis client, verifying the
// connection with a ping.
func NewRedisStore(ctx context.Context, client *redis.Client) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// GetUser retrieves a user by ID, returning nil when absent.
func (s *RedisStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	data, err := s.client.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user %d: %w", userID, err)
	}
	return &user, nil
}

// GetUserByUsername resolves the username index and loads the user.
func (s *RedisStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	idStr, err := s.client.Get(ctx, usernameKeyPrefix+username).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up username %q: %w", username, err)
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt username index for %q: %w", username, err)
	}
	return s.GetUser(ctx, id)
}

// PutUser stores the user document and refreshes the username index. A
// renamed user's previous index key is removed so the old name stops
// resolving, matching the relational backend.
func (s *RedisStore) PutUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user %d: %w", user.ID, err)
	}

	prev, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.SAdd(ctx, userIndexKey, user.ID)
	if prev != nil && prev.Username != "" && prev.Username != user.Username {
		pipe.Del(ctx, usernameKeyPrefix+prev.Username)
	}
	if user.Username != "" {
		pipe.Set(ctx, usernameKeyPrefix+user.Username, strconv.FormatInt(user.ID, 10), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put user %d: %w", user.ID, err)
	}
	return nil
}

// AllUsers loads every user in the index.
func (s *RedisStore) AllUsers(ctx context.Context) ([]*models.User, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*models.User, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt user index entry %q: %w", idStr, err)
		}
		user, err := s.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

// AppendLedgerEntry pushes the audit record onto the user's ledger list.
func (s *RedisStore) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode ledger entry: %w", err)
	}
	if err := s.client.RPush(ctx, ledgerKeyPrefix+strconv.FormatInt(entry.UserID, 10), data).Err(); err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// LastClaim returns the stored claim date, or "" if the user never claimed.
func (s *RedisStore) LastClaim(ctx context.Context, userID int64) (string, error) {
	date, err := s.client.Get(ctx, claimKeyPrefix+strconv.FormatInt(userID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last claim for user %d: %w", userID, err)
	}
	return date, nil
}

// PutClaim records the claim date for the user.
func (s *RedisStore) PutClaim(ctx context.Context, userID int64, date string) error {
	if err := s.client.Set(ctx, claimKeyPrefix+strconv.FormatInt(userID, 10), date, 0).Err(); err != nil {
		return fmt.Errorf("failed to put claim for user %d: %w", userID, err)
	}
	return nil
}

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}
