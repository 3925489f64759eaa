package projects

import (
	"time"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Categories a project may belong to.
var Categories = []string{"Web App", "Mobile App", "Full Stack", "Frontend", "Backend", "Other"}

// Statuses a project may be in.
var Statuses = []string{"completed", "in-progress", "archived"}

type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Image            string    `json:"image"`
	Technologies     []string  `json:"technologies"`
	Category         string    `json:"category"`
	LiveURL          string    `json:"liveUrl,omitempty"`
	GithubURL        string    `json:"githubUrl,omitempty"`
	Featured         bool      `json:"featured"`
	Status           string    `json:"status"`
	Order            int       `json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Stats is the project summary for the admin dashboard.
type Stats struct {
	TotalProjects     int             `json:"totalProjects"`
	FeaturedProjects  int             `json:"featuredProjects"`
	Categories        []CategoryCount `json:"categories"`
	TotalTechnologies int             `json:"totalTechnologies"`
	TopTechnologies   []TechnologyUse `json:"topTechnologies"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TechnologyUse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

const columns = "id, title, description, short_description, image, technologies, category, live_url, github_url, featured, status, sort_order, created_at, updated_at"

// listResource drives the shared listing engine for projects: category and
// featured filters, search over the text fields plus the technologies
// array, default order sort_order then newest-created.
var listResource = listing.Resource{
	Table: "projects",
	Columns: []string{
		"id", "title", "description", "short_description", "image",
		"technologies", "category", "live_url", "github_url",
		"featured", "status", "sort_order", "created_at", "updated_at",
	},
	Filters: []listing.Filter{
		{Param: "category", Column: "category"},
		{Param: "featured", Column: "featured", Bool: true},
	},
	SearchFields: []listing.SearchField{
		{Column: "title"},
		{Column: "description"},
		{Column: "short_description"},
		{Column: "technologies", Array: true},
	},
	SortModes: map[string]string{
		"newest": "created_at DESC, id",
		"oldest": "created_at ASC, id",
		"title":  "title ASC, created_at DESC, id",
	},
	DefaultSort: "sort_order ASC, created_at DESC, id",
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func validStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
