package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisConfig contains Redis job store configuration.
type RedisConfig struct {
	URL       string
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore persists analyses in Redis with a TTL, so completed results
// survive a restart and can be shared across instances.
type RedisStore struct {
	client *redis.Client
	config RedisConfig
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(config RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis job store initialized",
		zap.String("redis_url", maskRedisURL(config.URL)),
		zap.Duration("ttl", config.TTL))

	return &RedisStore{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Put writes or replaces the analysis for its document ID.
func (r *RedisStore) Put(ctx context.Context, analysis *Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	key := r.key(analysis.DocumentID)
	if err := r.client.Set(ctx, key, data, r.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	r.logger.Debug("Analysis stored",
		zap.String("document_id", analysis.DocumentID),
		zap.String("status", string(analysis.Status)))

	return nil
}

// Get returns the analysis for a document ID, or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, documentID string) (*Analysis, error) {
	data, err := r.client.Get(ctx, r.key(documentID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		// Corrupted entries are dropped so the caller sees a clean miss.
		r.client.Del(ctx, r.key(documentID))
		return nil, ErrNotFound
	}

	return &analysis, nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *RedisStore) key(documentID string) string {
	return fmt.Sprintf("%s:doc:%s", r.config.KeyPrefix, documentID)
}

// maskRedisURL masks sensitive information in Redis URL for logging
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
