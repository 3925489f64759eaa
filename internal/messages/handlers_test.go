package messages

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfolio/portfolio-backend/internal/mailer"
)

type captureNotifier struct {
	sent []mailer.Contact
}

func (n *captureNotifier) ContactNotification(msg mailer.Contact) {
	n.sent = append(n.sent, msg)
}

func newTestHandler(t *testing.T, notify Notifier) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewRepo(db), notify)
	h.Register(r.Group("/messages"), r.Group("/admin/messages"))
	return r, mock
}

func messageRows(read bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(strings.Split(columns, ", ")).
		AddRow("m1", "Ada", "ada@example.com", "Hello", "Hi there", read, false, now, now)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@b.io","subject":"s","message":"m"}`, "name"},
		{"missing email", `{"name":"Ada","subject":"s","message":"m"}`, "email"},
		{"bad email", `{"name":"Ada","email":"nope","subject":"s","message":"m"}`, "email"},
		{"missing subject", `{"name":"Ada","email":"a@b.io","message":"m"}`, "subject"},
		{"missing message", `{"name":"Ada","email":"a@b.io","subject":"s"}`, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newTestHandler(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Success bool `json:"success"`
				Errors  []struct {
					Field string `json:"field"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.field, body.Errors[0].Field)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateNotifies(t *testing.T) {
	notify := &captureNotifier{}
	r, mock := newTestHandler(t, notify)

	mock.ExpectQuery("INSERT INTO messages").
		WillReturnRows(messageRows(false))

	body := `{"name":"Ada","email":"ada@example.com","subject":"Hello","message":"Hi there"}`
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, notify.sent, 1)
	assert.Equal(t, "Hello", notify.sent[0].Subject)
	assert.Equal(t, "ada@example.com", notify.sent[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMarksRead(t *testing.T) {
	t.Run("unread message is marked on fetch", func(t *testing.T) {
		r, mock := newTestHandler(t, nil)

		mock.ExpectQuery("SELECT (.+) FROM messages WHERE id").
			WithArgs("m1").
			WillReturnRows(messageRows(false))
		mock.ExpectQuery("UPDATE messages SET read").
			WithArgs("m1", true).
			WillReturnRows(messageRows(true))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/messages/m1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"read":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already-read message stays read", func(t *testing.T) {
		r, mock := newTestHandler(t, nil)

		mock.ExpectQuery("SELECT (.+) FROM messages WHERE id").
			WithArgs("m1").
			WillReturnRows(messageRows(true))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/messages/m1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing message is 404", func(t *testing.T) {
		r, mock := newTestHandler(t, nil)

		mock.ExpectQuery("SELECT (.+) FROM messages WHERE id").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/messages/ghost", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Message not found")
	})
}

func TestListIncludesUnreadCount(t *testing.T) {
	r, mock := newTestHandler(t, nil)

	mock.ExpectQuery("SELECT (.+) FROM messages ORDER BY created_at DESC").
		WillReturnRows(messageRows(false))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM messages$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM messages WHERE read = false`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkRead(t *testing.T) {
	r, mock := newTestHandler(t, nil)

	mock.ExpectExec("UPDATE messages SET read = true").
		WillReturnResult(sqlmock.NewResult(0, 2))

	body := `{"ids":["m1","m2"]}`
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/bulk/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2 message(s) marked as read")
	assert.NoError(t, mock.ExpectationsWereMet())
}
