package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/httpx"
)

const ctxUserKey = "auth_user"

// Principal reads the authenticated user attached by Require or Optional.
// The second return is false on public requests that carried no valid token.
func Principal(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok
}

// PrincipalLookup resolves token claims to a stored user. Satisfied by *Repo.
type PrincipalLookup interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// Require rejects requests without a valid bearer token and attaches the
// referenced user to the context. A token whose principal no longer exists
// is reported as an invalid credential, indistinguishable from garbage, so
// callers cannot probe which accounts exist.
func Require(secret string, users PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			httpx.Fail(c, httpx.Unauthorized("Not authorized to access this route. Please login."))
			return
		}

		claims, err := VerifyToken(secret, tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				httpx.Fail(c, httpx.Unauthorized("Token expired. Please login again."))
				return
			}
			httpx.Fail(c, httpx.Unauthorized("Invalid token. Please login again."))
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("principal lookup failed: %v", err)
			}
			httpx.Fail(c, httpx.Unauthorized("Invalid token. Please login again."))
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// Authorize allows only the listed roles past. Must run after Require.
func Authorize(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := Principal(c)
		if !ok {
			httpx.Fail(c, httpx.Unauthorized("User not authenticated"))
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			httpx.Fail(c, httpx.Forbidden("User role '"+user.Role+"' is not authorized to access this route"))
			return
		}
		c.Next()
	}
}

// Optional attaches the principal when a valid token is present and lets
// the request through either way.
func Optional(secret string, users PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := VerifyToken(secret, tokenString)
		if err != nil {
			c.Next()
			return
		}

		if user, err := users.GetByID(c.Request.Context(), claims.UserID); err == nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
