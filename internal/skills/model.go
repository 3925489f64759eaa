package skills

import (
	"time"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Categories a skill may belong to.
var Categories = []string{"Frontend", "Backend", "Database", "Tools", "Other"}

type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon,omitempty"`
	Proficiency int       `json:"proficiency"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Stats summarizes the skill table per category.
type Stats struct {
	TotalSkills int             `json:"totalSkills"`
	Categories  []CategoryStats `json:"categories"`
}

type CategoryStats struct {
	Category       string  `json:"category"`
	Count          int     `json:"count"`
	AvgProficiency float64 `json:"avgProficiency"`
}

const columns = "id, name, category, icon, proficiency, sort_order, created_at, updated_at"

// listResource drives the shared listing engine for skills. The default
// tie-break is name ascending rather than creation time: skill lists are
// alphabetical within a display position.
var listResource = listing.Resource{
	Table: "skills",
	Columns: []string{
		"id", "name", "category", "icon", "proficiency",
		"sort_order", "created_at", "updated_at",
	},
	Filters: []listing.Filter{
		{Param: "category", Column: "category"},
	},
	SearchFields: []listing.SearchField{
		{Column: "name"},
	},
	SortModes: map[string]string{
		"name":             "name ASC, id",
		"proficiency-high": "proficiency DESC, name ASC, id",
		"proficiency-low":  "proficiency ASC, name ASC, id",
		"newest":           "created_at DESC, id",
	},
	DefaultSort: "sort_order ASC, name ASC, id",
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// validProficiency rejects out-of-range values; they are never clamped.
func validProficiency(p int) bool {
	return p >= 0 && p <= 100
}
