package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfolio/portfolio-backend/config"
)

func newTestHandler(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(config.UploadConfig{
		Dir:        t.TempDir(),
		MaxSizeMB:  1,
		PublicPath: "/uploads",
	})
	h.Register(r.Group("/upload"))
	return r
}

func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{
		`form-data; name="` + field + `"; filename="` + filename + `"`,
	}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, r *gin.Engine, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, "image", filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/upload/projects", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	t.Run("stores an image under the kind directory", func(t *testing.T) {
		r := newTestHandler(t)

		w := upload(t, r, "photo.PNG", "image/png", []byte("fake-png"))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"filePath":"/uploads/projects/`)
		assert.Contains(t, w.Body.String(), `.png`)
	})

	t.Run("rejects a non-image extension", func(t *testing.T) {
		r := newTestHandler(t)

		w := upload(t, r, "script.sh", "image/png", []byte("#!/bin/sh"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Only image files are allowed")
	})

	t.Run("rejects a non-image content type", func(t *testing.T) {
		r := newTestHandler(t)

		w := upload(t, r, "photo.png", "application/octet-stream", []byte("payload"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Only image files are allowed")
	})

	t.Run("rejects an oversized file", func(t *testing.T) {
		r := newTestHandler(t)

		big := bytes.Repeat([]byte("a"), (1<<20)+1)
		w := upload(t, r, "photo.png", "image/png", big)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must not exceed 1MB")
	})

	t.Run("missing file names the field", func(t *testing.T) {
		r := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/upload/projects", strings.NewReader(""))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Please upload an image file")
	})
}

func TestStoredName(t *testing.T) {
	name := storedName("../../../etc/passwd.PNG")

	assert.Equal(t, ".png", filepath.Ext(name))
	assert.NotContains(t, name, "..")
	assert.NotContains(t, name, "/")
	assert.NotEqual(t, storedName("a.png"), storedName("a.png"))
}
