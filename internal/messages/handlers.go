package messages

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/httpx"
	"github.com/openfolio/portfolio-backend/internal/listing"
	"github.com/openfolio/portfolio-backend/internal/mailer"
)

// Notifier is what the contact endpoint needs from the mail layer. A nil
// Handler.notify means mail is not configured and submissions still succeed.
type Notifier interface {
	ContactNotification(msg mailer.Contact)
}

// Handler serves the contact message endpoints. Submission is the only
// public route; everything else is inbox management for admins.
type Handler struct {
	repo   *Repo
	notify Notifier
}

func NewHandler(repo *Repo, notify Notifier) *Handler {
	return &Handler{repo: repo, notify: notify}
}

// Register mounts the public routes on pub and the protected ones on admin.
func (h *Handler) Register(pub, admin *gin.RouterGroup) {
	pub.POST("", h.create)

	admin.GET("", h.list)
	admin.GET("/stats/summary", h.stats)
	admin.PUT("/bulk/read", h.bulkRead)
	admin.DELETE("/bulk/delete", h.bulkDelete)
	admin.GET("/:id", h.get)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.PUT("/:id/read", h.markRead)
	admin.PUT("/:id/unread", h.markUnread)
}

type createReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"message"`
}

func (req *createReq) validate() *httpx.Error {
	var fields []httpx.FieldError
	if req.Name == "" {
		fields = append(fields, httpx.Field("name", "Please provide your name"))
	}
	if req.Email == "" {
		fields = append(fields, httpx.Field("email", "Please provide your email"))
	} else if !validEmail(req.Email) {
		fields = append(fields, httpx.Field("email", "Please provide a valid email"))
	}
	if req.Subject == "" {
		fields = append(fields, httpx.Field("subject", "Please provide a subject"))
	} else if len(req.Subject) > 200 {
		fields = append(fields, httpx.Field("subject", "Subject must not exceed 200 characters"))
	}
	if req.Body == "" {
		fields = append(fields, httpx.Field("message", "Please provide a message"))
	}
	if len(fields) > 0 {
		return httpx.Validation(fields...)
	}
	return nil
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}
	if verr := req.validate(); verr != nil {
		httpx.Fail(c, verr)
		return
	}

	m, err := h.repo.Create(c.Request.Context(), CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}

	// Best effort: the sender gets a 201 whether or not the notification
	// makes it out.
	if h.notify != nil {
		h.notify.ContactNotification(mailer.Contact{
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}

	httpx.Created(c, "Message sent successfully", gin.H{"id": m.ID, "createdAt": m.CreatedAt})
}

func (h *Handler) list(c *gin.Context) {
	res, unread, err := h.repo.List(c.Request.Context(), listing.Params{
		Filters: map[string]string{"read": c.Query("read")},
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Limit:   c.Query("limit"),
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"count": res.Count, "total": res.Total, "unread": unread, "data": res.Items})
}

// get fetches a single message and, as a side effect, marks it read. Fetching
// never marks a message unread again.
func (h *Handler) get(c *gin.Context) {
	m, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	if !m.Read {
		if m, err = h.repo.MarkRead(c.Request.Context(), m.ID, true); err != nil {
			httpx.Fail(c, httpx.FromStore(err, "Message"))
			return
		}
	}
	httpx.OK(c, gin.H{"data": m})
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}

	m, err := h.repo.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"message": "Message updated successfully", "data": m})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	if !deleted {
		httpx.Fail(c, httpx.NotFound("Message"))
		return
	}
	httpx.OK(c, gin.H{"message": "Message deleted successfully"})
}

func (h *Handler) markRead(c *gin.Context) {
	m, err := h.repo.MarkRead(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"message": "Message marked as read", "data": m})
}

func (h *Handler) markUnread(c *gin.Context) {
	m, err := h.repo.MarkRead(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"message": "Message marked as unread", "data": m})
}

type bulkReq struct {
	IDs []string `json:"ids"`
}

func (h *Handler) bulkRead(c *gin.Context) {
	var req bulkReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of message IDs"))
		return
	}

	n, err := h.repo.BulkMarkRead(c.Request.Context(), req.IDs)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"message": fmt.Sprintf("%d message(s) marked as read", n)})
}

func (h *Handler) bulkDelete(c *gin.Context) {
	var req bulkReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of message IDs"))
		return
	}

	n, err := h.repo.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"message": fmt.Sprintf("%d message(s) deleted", n)})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Message"))
		return
	}
	httpx.OK(c, gin.H{"data": stats})
}
