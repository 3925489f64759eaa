package experience

import (
	"time"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Experience is a single career entry on the timeline. Current positions
// carry no end date; the repo enforces that on every write.
type Experience struct {
	ID               string     `json:"id"`
	Company          string     `json:"company"`
	Position         string     `json:"position"`
	Location         string     `json:"location,omitempty"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Current          bool       `json:"current"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Technologies     []string   `json:"technologies"`
	Order            int        `json:"order"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Stats summarizes the timeline for the admin dashboard.
type Stats struct {
	TotalEntries     int `json:"totalEntries"`
	CurrentPositions int `json:"currentPositions"`
	Companies        int `json:"companies"`
}

const columns = "id, company, position, location, start_date, end_date, current, " +
	"description, responsibilities, technologies, sort_order, created_at, updated_at"

// listResource drives the shared listing engine for the timeline. Within a
// display position, more recent roles come first.
var listResource = listing.Resource{
	Table: "experience",
	Columns: []string{
		"id", "company", "position", "location", "start_date", "end_date",
		"current", "description", "responsibilities", "technologies",
		"sort_order", "created_at", "updated_at",
	},
	Filters: []listing.Filter{
		{Param: "current", Column: "current", Bool: true},
	},
	SearchFields: []listing.SearchField{
		{Column: "company"},
		{Column: "position"},
		{Column: "description"},
		{Column: "technologies", Array: true},
	},
	SortModes: map[string]string{
		"newest": "start_date DESC, id",
		"oldest": "start_date ASC, id",
	},
	DefaultSort: "sort_order ASC, start_date DESC, id",
}
