package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/chordview/internal/utils"
)

// Documents are immutable per scrape, so a day in cache is safe: a
// re-scrape lands under a fresh key.
const documentTTL = 24 * time.Hour

type DBManager struct {
	client *redisClient.Client
}

func NewDBManager() *DBManager {
	env, err := utils.LoadEnv([]string{"REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load db env %s.", err)
		os.Exit(1)
	}
	opt, _ := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	client := redisClient.NewClient(opt)

	return &DBManager{client: client}
}

// SetDocument caches the normalized song document blob under its song ID.
func (redis *DBManager) SetDocument(ctx context.Context, songID string, data []byte) error {
	return redis.client.Set(ctx, "doc:"+songID, data, documentTTL).Err()
}

// GetDocument retrieves a cached document blob. A cache miss is not an
// error: it returns (nil, nil) and the caller fetches.
func (redis *DBManager) GetDocument(ctx context.Context, songID string) ([]byte, error) {
	data, err := redis.client.Get(ctx, "doc:"+songID).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// SetSessions persists the whole list of view sessions as JSON.
func (redis *DBManager) SetSessions(ctx context.Context, sessions any) error {
	sessionsJSON, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, "sessions", sessionsJSON, 0).Err()
}

// GetSessions retrieves the persisted view sessions into out, which must
// be a pointer to a slice. A missing key leaves out untouched.
func (redis *DBManager) GetSessions(ctx context.Context, out any) error {
	data, err := redis.client.Get(ctx, "sessions").Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}
