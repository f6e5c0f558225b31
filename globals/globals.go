package globals

import "os"

var JwtSecret = []byte(Getenv("JWT_SECRET", "change_me"))

// Context keys
type ContextKey string

const PrincipalKey ContextKey = "principal"

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
