package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	users map[string]*User
}

func (f *fakeLookup) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func testRouter(lookup PrincipalLookup, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := append([]gin.HandlerFunc{Require(testSecret, lookup)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		u, _ := Principal(c)
		c.JSON(http.StatusOK, gin.H{"user": u.ID})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(t *testing.T, r *gin.Engine, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequire(t *testing.T) {
	lookup := &fakeLookup{users: map[string]*User{
		"u1": {ID: "u1", Role: RoleUser},
	}}

	t.Run("no token", func(t *testing.T) {
		w, body := doGet(t, testRouter(lookup), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authorized to access this route. Please login.", body["message"])
		assert.Equal(t, false, body["success"])
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "u1", -time.Minute)
		require.NoError(t, err)

		w, body := doGet(t, testRouter(lookup), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token expired. Please login again.", body["message"])
	})

	t.Run("garbage token", func(t *testing.T) {
		w, body := doGet(t, testRouter(lookup), "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token. Please login again.", body["message"])
	})

	t.Run("principal no longer exists", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "ghost", time.Hour)
		require.NoError(t, err)

		w, body := doGet(t, testRouter(lookup), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token. Please login again.", body["message"])
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "u1", time.Hour)
		require.NoError(t, err)

		w, body := doGet(t, testRouter(lookup), token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", body["user"])
	})
}

func TestAuthorize(t *testing.T) {
	lookup := &fakeLookup{users: map[string]*User{
		"u1": {ID: "u1", Role: RoleUser},
		"a1": {ID: "a1", Role: RoleAdmin},
	}}
	r := testRouter(lookup, Authorize(RoleAdmin))

	t.Run("wrong role", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "u1", time.Hour)
		require.NoError(t, err)

		w, body := doGet(t, r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "User role 'user' is not authorized to access this route", body["message"])
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "a1", time.Hour)
		require.NoError(t, err)

		w, _ := doGet(t, r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptional(t *testing.T) {
	lookup := &fakeLookup{users: map[string]*User{
		"u1": {ID: "u1", Role: RoleUser},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", Optional(testSecret, lookup), func(c *gin.Context) {
		if u, ok := Principal(c); ok {
			c.JSON(http.StatusOK, gin.H{"user": u.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})

	t.Run("no token passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":null}`, w.Body.String())
	})

	t.Run("bad token passes through anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer junk")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":null}`, w.Body.String())
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "u1", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"u1"}`, w.Body.String())
	})
}
