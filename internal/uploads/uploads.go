// Package uploads stores admin-submitted images on local disk and serves
// back their public URLs. Files are bucketed per kind (projects, skills,
// avatars) under the configured upload directory.
package uploads

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openfolio/portfolio-backend/config"
	"github.com/openfolio/portfolio-backend/internal/httpx"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Handler receives multipart image uploads.
type Handler struct {
	cfg config.UploadConfig
}

func NewHandler(cfg config.UploadConfig) *Handler {
	return &Handler{cfg: cfg}
}

// Register mounts one upload route per image kind. All of them are admin
// routes; the router attaches the auth middleware to the group.
func (h *Handler) Register(admin *gin.RouterGroup) {
	admin.POST("/projects", h.upload("projects"))
	admin.POST("/skills", h.upload("skills"))
	admin.POST("/avatars", h.upload("avatars"))
}

func (h *Handler) upload(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			httpx.Fail(c, httpx.Validation(httpx.Field("image", "Please upload an image file")))
			return
		}

		if verr := h.validate(file); verr != nil {
			httpx.Fail(c, verr)
			return
		}

		dir := filepath.Join(h.cfg.Dir, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			httpx.Fail(c, httpx.Internal("Could not store the uploaded file"))
			return
		}

		name := storedName(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
			httpx.Fail(c, httpx.Internal("Could not store the uploaded file"))
			return
		}

		url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(h.cfg.PublicPath, "/"), kind, name)
		httpx.Created(c, "File uploaded successfully", gin.H{
			"fileName": name,
			"filePath": url,
			"size":     file.Size,
		})
	}
}

func (h *Handler) validate(file *multipart.FileHeader) *httpx.Error {
	maxBytes := int64(h.cfg.MaxSizeMB) << 20
	if file.Size > maxBytes {
		return httpx.Validation(httpx.Field("image",
			fmt.Sprintf("File must not exceed %dMB", h.cfg.MaxSizeMB)))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return httpx.Validation(httpx.Field("image", "Only image files are allowed"))
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !allowedContentTypes[ct] {
		return httpx.Validation(httpx.Field("image", "Only image files are allowed"))
	}
	return nil
}

// storedName keeps the extension but replaces the client-supplied name with
// a UUID so uploads can never collide or traverse directories.
func storedName(original string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(original))
}
