package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"promptdeck/config"
)

var (
	blacklistOnce   sync.Once
	blacklistClient *redis.Client
)

func blacklist() *redis.Client {
	blacklistOnce.Do(func() {
		if !config.AppConfig.Redis.Enabled {
			return
		}
		blacklistClient = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.Redis.Address,
			Password: config.AppConfig.Redis.Password,
			DB:       config.AppConfig.Redis.DB,
		})
	})
	return blacklistClient
}

// BlacklistToken records a revoked access token until it would have
// expired anyway. No-op when Redis is disabled; access tokens are
// short-lived so logout still takes effect within their expiry.
func BlacklistToken(token string, ttl time.Duration) error {
	client := blacklist()
	if client == nil {
		return nil
	}
	return client.Set(context.Background(), "bl:"+HashToken(token), "1", ttl).Err()
}

// IsTokenBlacklisted reports whether the access token was revoked by a
// logout. Lookup failures fail open so an unreachable Redis does not
// lock every user out.
func IsTokenBlacklisted(token string) bool {
	client := blacklist()
	if client == nil {
		return false
	}
	n, err := client.Exists(context.Background(), "bl:"+HashToken(token)).Result()
	if err != nil {
		LogError("blacklist_lookup", err, nil)
		return false
	}
	return n > 0
}
