package skills

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/httpx"
	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Handler serves the skill endpoints.
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the public routes on pub and the protected ones on admin.
func (h *Handler) Register(pub, admin *gin.RouterGroup) {
	pub.GET("", h.list)
	pub.GET("/grouped/all", h.grouped)
	pub.GET("/stats/summary", h.stats)
	pub.GET("/category/:category", h.byCategory)
	pub.GET("/:id", h.get)

	admin.POST("", h.create)
	admin.PUT("/reorder/bulk", h.reorder)
	admin.DELETE("/bulk/delete", h.bulkDelete)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.PUT("/:id/proficiency", h.updateProficiency)
}

func (h *Handler) list(c *gin.Context) {
	res, err := h.repo.List(c.Request.Context(), listing.Params{
		Filters: map[string]string{"category": c.Query("category")},
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Limit:   c.Query("limit"),
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"count": res.Count, "total": res.Total, "data": res.Items})
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Param("category")
	res, err := h.repo.List(c.Request.Context(), listing.Params{
		Filters: map[string]string{"category": category},
		Limit:   c.Query("limit"),
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"count": res.Count, "category": category, "data": res.Items})
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"data": s})
}

type createReq struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	Proficiency int    `json:"proficiency"`
	Order       int    `json:"order"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}

	var fields []httpx.FieldError
	if req.Name == "" {
		fields = append(fields, httpx.Field("name", "Please provide a skill name"))
	}
	if !validCategory(req.Category) {
		fields = append(fields, httpx.Field("category", "Please provide a valid category"))
	}
	if !validProficiency(req.Proficiency) {
		fields = append(fields, httpx.Field("proficiency", "Proficiency must be between 0 and 100"))
	}
	if len(fields) > 0 {
		httpx.Fail(c, httpx.Validation(fields...))
		return
	}

	s, err := h.repo.Create(c.Request.Context(), CreateInput{
		Name:        req.Name,
		Category:    req.Category,
		Icon:        req.Icon,
		Proficiency: req.Proficiency,
		Order:       req.Order,
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.Created(c, "Skill created successfully", s)
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}
	if req.Category != nil && !validCategory(*req.Category) {
		httpx.Fail(c, httpx.Validation(httpx.Field("category", "Please provide a valid category")))
		return
	}
	if req.Proficiency != nil && !validProficiency(*req.Proficiency) {
		httpx.Fail(c, httpx.Validation(httpx.Field("proficiency", "Proficiency must be between 0 and 100")))
		return
	}

	s, err := h.repo.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"message": "Skill updated successfully", "data": s})
}

type proficiencyReq struct {
	Proficiency *int `json:"proficiency"`
}

func (h *Handler) updateProficiency(c *gin.Context) {
	var req proficiencyReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Proficiency == nil {
		httpx.Fail(c, httpx.Validation(httpx.Field("proficiency", "Please provide a proficiency value")))
		return
	}
	if !validProficiency(*req.Proficiency) {
		httpx.Fail(c, httpx.Validation(httpx.Field("proficiency", "Proficiency must be between 0 and 100")))
		return
	}

	s, err := h.repo.Update(c.Request.Context(), c.Param("id"), UpdateInput{Proficiency: req.Proficiency})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"message": "Proficiency updated successfully", "data": s})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	if !deleted {
		httpx.Fail(c, httpx.NotFound("Skill"))
		return
	}
	httpx.OK(c, gin.H{"message": "Skill deleted successfully"})
}

func (h *Handler) grouped(c *gin.Context) {
	grouped, err := h.repo.Grouped(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"data": grouped})
}

type reorderReq struct {
	Skills []OrderUpdate `json:"skills"`
}

func (h *Handler) reorder(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Skills) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of skills with id and order"))
		return
	}

	items, err := h.repo.Reorder(c.Request.Context(), req.Skills)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"message": "Skills reordered successfully", "data": items})
}

type bulkDeleteReq struct {
	IDs []string `json:"ids"`
}

func (h *Handler) bulkDelete(c *gin.Context) {
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of skill IDs"))
		return
	}

	n, err := h.repo.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"message": fmt.Sprintf("%d skill(s) deleted", n)})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Skill"))
		return
	}
	httpx.OK(c, gin.H{"data": stats})
}
