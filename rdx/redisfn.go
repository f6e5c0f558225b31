package rdx

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	if err := Conn.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis not reachable at %s: %v", addr, err)
	}
}

// RdxSetNX sets key only if it does not exist. Used for wallet locks.
func RdxSetNX(key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(context.Background(), key, value, ttl).Result()
}

func RdxDel(key string) error {
	return Conn.Del(context.Background(), key).Err()
}

// lockTTL bounds how long a settlement can hold an account.
const lockTTL = 5 * time.Second

// LockWallet serializes settlements touching one account. Returns an
// unlock func, or false when another request holds the lock.
func LockWallet(accountID string) (func(), bool) {
	key := "wallet_lock:" + accountID
	ok, err := RdxSetNX(key, "1", lockTTL)
	if err != nil || !ok {
		return nil, false
	}
	return func() { _ = RdxDel(key) }, true
}
