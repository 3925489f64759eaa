package projects

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/httpx"
	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Handler serves the project endpoints. Reads are public, writes admin-only
// (enforced by the middleware the router attaches to the admin group).
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the public routes on pub and the protected ones on admin.
func (h *Handler) Register(pub, admin *gin.RouterGroup) {
	pub.GET("", h.list)
	pub.GET("/featured/list", h.featured)
	pub.GET("/stats/summary", h.stats)
	pub.GET("/category/:category", h.byCategory)
	pub.GET("/:id", h.get)

	admin.POST("", h.create)
	admin.PUT("/reorder/bulk", h.reorder)
	admin.DELETE("/bulk/delete", h.bulkDelete)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.PUT("/:id/toggle-featured", h.toggleFeatured)
}

func (h *Handler) list(c *gin.Context) {
	res, err := h.repo.List(c.Request.Context(), listing.Params{
		Filters: map[string]string{
			"category": c.Query("category"),
			"featured": c.Query("featured"),
		},
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"count": res.Count, "total": res.Total, "data": res.Items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"data": p})
}

type createReq struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Image            string   `json:"image"`
	Technologies     []string `json:"technologies"`
	Category         string   `json:"category"`
	LiveURL          string   `json:"liveUrl"`
	GithubURL        string   `json:"githubUrl"`
	Featured         bool     `json:"featured"`
	Order            int      `json:"order"`
}

func (req *createReq) validate() *httpx.Error {
	var fields []httpx.FieldError
	if req.Title == "" {
		fields = append(fields, httpx.Field("title", "Please provide a title"))
	}
	if req.Description == "" {
		fields = append(fields, httpx.Field("description", "Please provide a description"))
	}
	if req.ShortDescription == "" {
		fields = append(fields, httpx.Field("shortDescription", "Please provide a short description"))
	} else if len(req.ShortDescription) > 200 {
		fields = append(fields, httpx.Field("shortDescription", "Short description must not exceed 200 characters"))
	}
	if req.Image == "" {
		fields = append(fields, httpx.Field("image", "Please provide an image"))
	}
	if len(req.Technologies) == 0 {
		fields = append(fields, httpx.Field("technologies", "Please provide at least one technology"))
	}
	if req.Category == "" {
		req.Category = "Other"
	} else if !validCategory(req.Category) {
		fields = append(fields, httpx.Field("category", "Invalid category"))
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

	p, err := h.repo.Create(c.Request.Context(), CreateInput{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Image:            req.Image,
		Technologies:     req.Technologies,
		Category:         req.Category,
		LiveURL:          req.LiveURL,
		GithubURL:        req.GithubURL,
		Featured:         req.Featured,
		Order:            req.Order,
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.Created(c, "Project created successfully", p)
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}
	if req.Category != nil && !validCategory(*req.Category) {
		httpx.Fail(c, httpx.Validation(httpx.Field("category", "Invalid category")))
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		httpx.Fail(c, httpx.Validation(httpx.Field("status", "Invalid status")))
		return
	}
	if req.ShortDescription != nil && len(*req.ShortDescription) > 200 {
		httpx.Fail(c, httpx.Validation(httpx.Field("shortDescription", "Short description must not exceed 200 characters")))
		return
	}

	p, err := h.repo.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"message": "Project updated successfully", "data": p})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	if !deleted {
		httpx.Fail(c, httpx.NotFound("Project"))
		return
	}
	httpx.OK(c, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) featured(c *gin.Context) {
	items, err := h.repo.Featured(c.Request.Context(), listing.ParseLimit(c.Query("limit")))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"count": len(items), "data": items})
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Param("category")
	items, err := h.repo.ByCategory(c.Request.Context(), category, listing.ParseLimit(c.Query("limit")))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"count": len(items), "category": category, "data": items})
}

func (h *Handler) toggleFeatured(c *gin.Context) {
	p, err := h.repo.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	msg := "Project unfeatured successfully"
	if p.Featured {
		msg = "Project featured successfully"
	}
	httpx.OK(c, gin.H{"message": msg, "data": p})
}

type reorderReq struct {
	Projects []OrderUpdate `json:"projects"`
}

func (h *Handler) reorder(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Projects) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of projects with id and order"))
		return
	}

	items, err := h.repo.Reorder(c.Request.Context(), req.Projects)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"message": "Projects reordered successfully", "data": items})
}

type bulkDeleteReq struct {
	IDs []string `json:"ids"`
}

func (h *Handler) bulkDelete(c *gin.Context) {
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of project IDs"))
		return
	}

	n, err := h.repo.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"message": fmt.Sprintf("%d project(s) deleted", n)})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Project"))
		return
	}
	httpx.OK(c, gin.H{"data": stats})
}
