package middleware

import (
	"fmt"
	"net/http"

	"vendora/globals"
	"vendora/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller, computed once per request by
// Authenticate. Handlers ask it questions instead of re-deriving role
// and ownership from raw fields.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanManageStore reports whether the principal may act for the store:
// the owner, any staff member, or a platform admin.
func (p Principal) CanManageStore(store models.Store) bool {
	if p.IsAdmin() || store.OwnerID == p.UserID {
		return true
	}
	for _, id := range store.StaffIDs {
		if id == p.UserID {
			return true
		}
	}
	return false
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if websocket.IsWebSocketUpgrade(r) {
			// Token arrives as a query param on upgrade requests.
			if pr, err := principalFromToken("Bearer " + r.URL.Query().Get("token")); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), pr))
			}
			next(w, r, ps)
			return
		}

		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		pr, err := principalFromToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), pr)), ps)
	}
}

func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if pr, err := principalFromToken(r.Header.Get("Authorization")); err == nil {
			r = r.WithContext(WithPrincipal(r.Context(), pr))
		}
		next(w, r, ps)
	}
}

// RequireAdmin gates admin-only routes. Must run after Authenticate.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		pr, ok := GetPrincipal(r)
		if !ok || !pr.IsAdmin() {
			http.Error(w, "Admin only", http.StatusUnauthorized)
			return
		}
		next(w, r, ps)
	}
}

func principalFromToken(tokenString string) (Principal, error) {
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return Principal{}, fmt.Errorf("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("unauthorized: %w", err)
	}
	if claims.UserID == "" {
		return Principal{}, fmt.Errorf("token has no user id")
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	return Principal{UserID: claims.UserID, Role: role}, nil
}
