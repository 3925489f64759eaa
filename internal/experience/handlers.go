package experience

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/httpx"
	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Handler serves the experience endpoints.
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the public routes on pub and the protected ones on admin.
func (h *Handler) Register(pub, admin *gin.RouterGroup) {
	pub.GET("", h.list)
	pub.GET("/stats/summary", h.stats)
	pub.GET("/:id", h.get)

	admin.POST("", h.create)
	admin.PUT("/reorder/bulk", h.reorder)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	res, err := h.repo.List(c.Request.Context(), listing.Params{
		Filters: map[string]string{"current": c.Query("current")},
		Search:  c.Query("search"),
		Sort:    c.Query("sort"),
		Limit:   c.Query("limit"),
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.OK(c, gin.H{"count": res.Count, "total": res.Total, "data": res.Items})
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.OK(c, gin.H{"data": e})
}

type createReq struct {
	Company          string     `json:"company"`
	Position         string     `json:"position"`
	Location         string     `json:"location"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Current          bool       `json:"current"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Technologies     []string   `json:"technologies"`
	Order            int        `json:"order"`
}

func (req *createReq) validate() *httpx.Error {
	var fields []httpx.FieldError
	if req.Company == "" {
		fields = append(fields, httpx.Field("company", "Please provide a company name"))
	}
	if req.Position == "" {
		fields = append(fields, httpx.Field("position", "Please provide a position"))
	}
	if req.StartDate == nil {
		fields = append(fields, httpx.Field("startDate", "Please provide a start date"))
	}
	if req.Description == "" {
		fields = append(fields, httpx.Field("description", "Please provide a description"))
	}
	if !req.Current && req.EndDate == nil {
		fields = append(fields, httpx.Field("endDate", "Please provide an end date or mark the position as current"))
	}
	if req.EndDate != nil && req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
		fields = append(fields, httpx.Field("endDate", "End date must not be before the start date"))
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

	e, err := h.repo.Create(c.Request.Context(), CreateInput{
		Company:          req.Company,
		Position:         req.Position,
		Location:         req.Location,
		StartDate:        *req.StartDate,
		EndDate:          req.EndDate,
		Current:          req.Current,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Technologies:     req.Technologies,
		Order:            req.Order,
	})
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.Created(c, "Experience created successfully", e)
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, httpx.BadRequest("Invalid JSON format"))
		return
	}
	if req.EndDate != nil && req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
		httpx.Fail(c, httpx.Validation(httpx.Field("endDate", "End date must not be before the start date")))
		return
	}

	e, err := h.repo.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.OK(c, gin.H{"message": "Experience updated successfully", "data": e})
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	if !deleted {
		httpx.Fail(c, httpx.NotFound("Experience"))
		return
	}
	httpx.OK(c, gin.H{"message": "Experience deleted successfully"})
}

type reorderReq struct {
	Experience []OrderUpdate `json:"experience"`
}

func (h *Handler) reorder(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Experience) == 0 {
		httpx.Fail(c, httpx.BadRequest("Please provide an array of experience entries with id and order"))
		return
	}

	items, err := h.repo.Reorder(c.Request.Context(), req.Experience)
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.OK(c, gin.H{"message": "Experience reordered successfully", "data": items})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httpx.Fail(c, httpx.FromStore(err, "Experience"))
		return
	}
	httpx.OK(c, gin.H{"data": stats})
}
