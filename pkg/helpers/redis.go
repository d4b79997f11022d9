package helpers

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Session is the per-user hash kept at SessionKey(UserID). Only one session
// per user is active; logging in again replaces it.
type Session struct {
	UserID    string
	Username  string
	Email     string
	IsStaff   bool
	SessionID string
}

func SessionKey(userID string) string {
	return "user:session:" + userID
}

// SaveSession writes s and resets the key TTL.
func SaveSession(ctx context.Context, rdb *redis.Client, s Session, ttl time.Duration) error {
	key := SessionKey(s.UserID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    s.UserID,
		"username":   s.Username,
		"email":      s.Email,
		"is_staff":   strconv.FormatBool(s.IsStaff),
		"sid":        s.SessionID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession reads the session of userID. ok is false when none is stored.
func LoadSession(ctx context.Context, rdb *redis.Client, userID string) (s Session, ok bool, err error) {
	data, err := rdb.HGetAll(ctx, SessionKey(userID)).Result()
	if err != nil || len(data) == 0 {
		return Session{}, false, err
	}
	staff, _ := strconv.ParseBool(data["is_staff"])
	return Session{
		UserID:    data["user_id"],
		Username:  data["username"],
		Email:     data["email"],
		IsStaff:   staff,
		SessionID: data["sid"],
	}, true, nil
}

func DeleteSession(ctx context.Context, rdb *redis.Client, userID string) error {
	return rdb.Del(ctx, SessionKey(userID)).Err()
}
