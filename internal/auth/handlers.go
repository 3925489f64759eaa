package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfolio/portfolio-backend/internal/httpx"
)

// Handler serves login and the admin user-management endpoints.
type Handler struct {
	repo   *Repo
	secret string
	expire time.Duration
}

func NewHandler(repo *Repo, secret string, expire time.Duration) *Handler {
	return &Handler{repo: repo, secret: secret, expire: expire}
}

// Register mounts the auth routes. Login is public; everything else sits
// behind the gate, user management behind the admin role.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)

	authed := rg.Group("")
	authed.Use(Require(h.secret, h.repo))
	authed.GET("/me", h.me)

	admin := authed.Group("")
	admin.Use(Authorize(RoleAdmin))
	admin.GET("/users", h.listUsers)
	admin.GET("/users/:id", h.getUser)
	admin.PUT("/users/:id/role", h.updateRole)
	admin.DELETE("/users/:id", h.deleteUser)
	admin.GET("/stats", h.stats)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login verifies stored credentials only; there is no side-door admin
// credential.
func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		httpx.Fail(c, httpx.Validation(
			httpx.Field("email", "Please provide an email"),
			httpx.Field("password", "Please provide a password"),
		))
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httpx.Fail(c, httpx.Unauthorized("Invalid credentials"))
			return
		}
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpx.Fail(c, httpx.Unauthorized("Invalid credentials"))
		return
	}

	token, err := GenerateToken(h.secret, user.ID, h.expire)
	if err != nil {
		httpx.Fail(c, httpx.Internal("Could not issue token"))
		return
	}

	httpx.OK(c, gin.H{"user": user, "token": token})
}

func (h *Handler) me(c *gin.Context) {
	user, _ := Principal(c)
	httpx.OK(c, gin.H{"data": user})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}
	httpx.OK(c, gin.H{"count": len(users), "data": users})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}
	httpx.OK(c, gin.H{"data": user})
}

type roleReq struct {
	Role string `json:"role"`
}

func (h *Handler) updateRole(c *gin.Context) {
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil || (req.Role != RoleAdmin && req.Role != RoleUser) {
		httpx.Fail(c, httpx.BadRequest("Invalid role"))
		return
	}

	user, err := h.repo.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}
	httpx.OK(c, gin.H{"message": "User role updated successfully", "data": user})
}

func (h *Handler) deleteUser(c *gin.Context) {
	caller, _ := Principal(c)
	if caller != nil && caller.ID == c.Param("id") {
		httpx.Fail(c, httpx.BadRequest("You cannot delete your own account"))
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}
	if !deleted {
		httpx.Fail(c, httpx.NotFound("User"))
		return
	}
	httpx.OK(c, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "User"))
		return
	}
	httpx.OK(c, gin.H{"data": stats})
}
