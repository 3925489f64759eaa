package messages

import (
	"regexp"
	"time"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Message is a contact-form submission. The public side only ever appends;
// admins flip the read/replied flags and delete.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats summarizes the inbox for the admin dashboard.
type Stats struct {
	TotalMessages   int `json:"totalMessages"`
	ReadMessages    int `json:"readMessages"`
	UnreadMessages  int `json:"unreadMessages"`
	RecentMessages  int `json:"recentMessages"`  // last 7 days
	MonthlyMessages int `json:"monthlyMessages"` // last 30 days
}

const columns = "id, name, email, subject, body, read, replied, created_at, updated_at"

// listResource drives the shared listing engine for the inbox. Search spans
// exactly the four text fields a human would scan for; the read flag is the
// only filter. Newest first by default.
var listResource = listing.Resource{
	Table: "messages",
	Columns: []string{
		"id", "name", "email", "subject", "body",
		"read", "replied", "created_at", "updated_at",
	},
	Filters: []listing.Filter{
		{Param: "read", Column: "read", Bool: true},
	},
	SearchFields: []listing.SearchField{
		{Column: "name"},
		{Column: "email"},
		{Column: "subject"},
		{Column: "body"},
	},
	SortModes: map[string]string{
		"oldest": "created_at ASC, id",
	},
	DefaultSort: "created_at DESC, id",
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}
